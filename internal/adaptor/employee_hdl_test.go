package adaptor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"omylab/internal/dto/request"
	"omylab/internal/dto/response"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.EmployeeResponse], error) {
	args := m.Called(ctx, req)
	page, _ := args.Get(0).(*response.PaginatedResponse[response.EmployeeResponse])
	return page, args.Error(1)
}

func (m *MockEmployeeService) Create(ctx context.Context, actorID uuid.UUID, req *request.CreateEmployeeRequest) (*response.EmployeeResponse, error) {
	args := m.Called(ctx, actorID, req)
	employee, _ := args.Get(0).(*response.EmployeeResponse)
	return employee, args.Error(1)
}

func (m *MockEmployeeService) UpdateStatus(ctx context.Context, actorID, employeeID uuid.UUID, req *request.UpdateEmployeeStatusRequest) (*response.EmployeeResponse, error) {
	args := m.Called(ctx, actorID, employeeID, req)
	employee, _ := args.Get(0).(*response.EmployeeResponse)
	return employee, args.Error(1)
}

func employeeRouter(svc usecase.EmployeeService, actorID uuid.UUID) http.Handler {
	h := NewEmployeeHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := utils.SetEmployeeContext(req.Context(), actorID, "Administrador")
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/api/employees", h.List)
	r.Post("/api/employees", h.Create)
	r.Patch("/api/employees/{id}/status", h.UpdateStatus)
	return r
}

func TestCreateEmployee_Handler(t *testing.T) {
	actorID := uuid.New()
	body := `{"first_name":"Rosa","last_name":"Huamán Torres","dni":"41236587","email":"rhuaman@omylab.pe","role":"Biologo"}`

	t.Run("created", func(t *testing.T) {
		svc := new(MockEmployeeService)
		svc.On("Create", mock.Anything, actorID, mock.MatchedBy(func(r *request.CreateEmployeeRequest) bool {
			return r.DNI == "41236587" && r.Role == "Biologo"
		})).Return(&response.EmployeeResponse{Username: "rhuamán"}, nil)

		rec := httptest.NewRecorder()
		employeeRouter(svc, actorID).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "rhuamán")
		svc.AssertExpectations(t)
	})

	t.Run("invalid dni never reaches the service", func(t *testing.T) {
		svc := new(MockEmployeeService)
		bad := strings.Replace(body, "41236587", "123", 1)

		rec := httptest.NewRecorder()
		employeeRouter(svc, actorID).ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(bad)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateEmployeeStatus_Handler(t *testing.T) {
	actorID := uuid.New()
	body := `{"status":"Inactivo"}`

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"updated", nil, http.StatusOK},
		{"unknown employee", fmt.Errorf("employee x: %w", usecase.ErrNotFound), http.StatusNotFound},
		{"self deactivation", fmt.Errorf("%w: employees cannot deactivate themselves", usecase.ErrValidation), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			employeeID := uuid.New()
			svc := new(MockEmployeeService)
			var resp *response.EmployeeResponse
			if tt.err == nil {
				resp = &response.EmployeeResponse{ID: employeeID.String(), Status: "Inactivo"}
			}
			svc.On("UpdateStatus", mock.Anything, actorID, employeeID, &request.UpdateEmployeeStatusRequest{Status: "Inactivo"}).
				Return(resp, tt.err)

			rec := httptest.NewRecorder()
			employeeRouter(svc, actorID).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch,
				"/api/employees/"+employeeID.String()+"/status", strings.NewReader(body)))

			assert.Equal(t, tt.want, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}
