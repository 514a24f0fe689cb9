package adaptor

import (
	"net/http"

	"omylab/internal/dto/request"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

type AuditHandler struct {
	service usecase.AuditService
	log     *zap.Logger
}

func NewAuditHandler(service usecase.AuditService, log *zap.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		log:     log,
	}
}

// List handles GET /api/audit?page=1&per_page=20
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    parseInt(query.Get("page"), 1),
		PerPage: parseInt(query.Get("per_page"), request.DefaultPerPage),
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	entries, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list audit entries")
		return
	}

	utils.ResponseSuccess(w, "Audit entries retrieved successfully", entries)
}
