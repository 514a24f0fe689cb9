package adaptor

import (
	"encoding/json"
	"net/http"

	"omylab/internal/dto/request"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

type ReferenceHandler struct {
	service usecase.ReferenceService
	log     *zap.Logger
}

func NewReferenceHandler(service usecase.ReferenceService, log *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{
		service: service,
		log:     log,
	}
}

// ListBands handles GET /api/components/{id}/reference-bands
func (h *ReferenceHandler) ListBands(w http.ResponseWriter, r *http.Request) {
	componentID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	bands, err := h.service.ListBands(r.Context(), componentID)
	if err != nil {
		handleServiceError(w, h.log, err, "list reference bands")
		return
	}

	utils.ResponseSuccess(w, "Reference bands retrieved successfully", bands)
}

// CreateBand handles POST /api/components/{id}/reference-bands
func (h *ReferenceHandler) CreateBand(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	componentID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req request.ReferenceBandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	band, err := h.service.CreateBand(r.Context(), employeeID, componentID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create reference band")
		return
	}

	utils.ResponseCreated(w, "Reference band created successfully", band)
}

// DeleteBand handles DELETE /api/reference-bands/{id}
func (h *ReferenceHandler) DeleteBand(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	bandID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteBand(r.Context(), employeeID, bandID); err != nil {
		handleServiceError(w, h.log, err, "delete reference band")
		return
	}

	utils.ResponseSuccess(w, "Reference band deleted successfully", nil)
}

// Classify handles POST /api/results/classify
func (h *ReferenceHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req request.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.ClassifyPreview(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "classify value")
		return
	}

	utils.ResponseSuccess(w, "Value classified", result)
}
