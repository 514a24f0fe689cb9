package adaptor

import (
	"encoding/json"
	"net/http"

	"omylab/internal/dto/request"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

type EmployeeHandler struct {
	service usecase.EmployeeService
	log     *zap.Logger
}

func NewEmployeeHandler(service usecase.EmployeeService, log *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/employees?page=1&per_page=20
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    parseInt(query.Get("page"), 1),
		PerPage: parseInt(query.Get("per_page"), request.DefaultPerPage),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	employees, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list employees")
		return
	}

	utils.ResponseSuccess(w, "Employees retrieved successfully", employees)
}

// Create handles POST /api/employees
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	employee, err := h.service.Create(r.Context(), actorID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create employee")
		return
	}

	utils.ResponseCreated(w, "Employee created successfully", employee)
}

// UpdateStatus handles PATCH /api/employees/{id}/status
func (h *EmployeeHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	employeeID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateEmployeeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	employee, err := h.service.UpdateStatus(r.Context(), actorID, employeeID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update employee status")
		return
	}

	utils.ResponseSuccess(w, "Employee status updated successfully", employee)
}
