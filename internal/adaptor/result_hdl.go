package adaptor

import (
	"encoding/json"
	"net/http"

	"omylab/internal/dto/request"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

type ResultHandler struct {
	service usecase.ResultService
	log     *zap.Logger
}

func NewResultHandler(service usecase.ResultService, log *zap.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		log:     log,
	}
}

// GetResult handles GET /api/results/{id}
func (h *ResultHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	resultID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.service.GetResult(r.Context(), resultID)
	if err != nil {
		handleServiceError(w, h.log, err, "get result")
		return
	}

	utils.ResponseSuccess(w, "Result retrieved successfully", result)
}

// RecordResults handles PUT /api/results/{id}/components
func (h *ResultHandler) RecordResults(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	resultID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.RecordResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.RecordResults(r.Context(), employeeID, resultID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "record results")
		return
	}

	utils.ResponseSuccess(w, "Results recorded successfully", result)
}
