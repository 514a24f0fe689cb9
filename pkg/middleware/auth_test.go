package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"omylab/internal/data/entity"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockSessionRepository) FindValidSession(ctx context.Context, token string) (*entity.SessionIdentity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*entity.SessionIdentity)
	return identity, args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockSessionRepository) CleanExpiredSessions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := utils.GetEmployeeIDFromContext(r.Context())
		role, _ := utils.GetRoleFromContext(r.Context())
		token, _ := utils.GetTokenFromContext(r.Context())
		w.Header().Set("X-Employee", id.String())
		w.Header().Set("X-Role", role)
		w.Header().Set("X-Token", token)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthSession(t *testing.T) {
	token := uuid.NewString()
	employeeID := uuid.New()

	repo := new(MockSessionRepository)
	repo.On("FindValidSession", mock.Anything, token).Return(&entity.SessionIdentity{
		EmployeeID: employeeID,
		Role:       entity.RoleSupervisor,
		ExpiresAt:  time.Now().Add(time.Hour),
	}, nil)
	unknown := uuid.NewString()
	repo.On("FindValidSession", mock.Anything, unknown).Return(nil, nil)
	broken := uuid.NewString()
	repo.On("FindValidSession", mock.Anything, broken).Return(nil, errors.New("connection reset"))

	handler := AuthSession(repo, zap.NewNop())(echoIdentity())

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid session", "Bearer " + token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", http.StatusUnauthorized},
		{"unknown session", "Bearer " + unknown, http.StatusUnauthorized},
		{"repository failure", "Bearer " + broken, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, employeeID.String(), rec.Header().Get("X-Employee"))
				assert.Equal(t, string(entity.RoleSupervisor), rec.Header().Get("X-Role"))
				assert.Equal(t, token, rec.Header().Get("X-Token"))
			}
		})
	}

	repo.AssertNotCalled(t, "FindValidSession", mock.Anything, "abc")
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), "Administrador", "Supervisor")(echoIdentity())

	tests := []struct {
		name   string
		ctx    func(context.Context) context.Context
		status int
	}{
		{"allowed role", func(ctx context.Context) context.Context {
			return utils.SetEmployeeContext(ctx, uuid.New(), "Supervisor")
		}, http.StatusNoContent},
		{"other role", func(ctx context.Context) context.Context {
			return utils.SetEmployeeContext(ctx, uuid.New(), "Recepcionista")
		}, http.StatusForbidden},
		{"anonymous", func(ctx context.Context) context.Context { return ctx }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/audit", nil)
			req = req.WithContext(tt.ctx(req.Context()))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}
