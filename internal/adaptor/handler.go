package adaptor

import (
	"errors"
	"net/http"
	"strconv"

	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	Reference *ReferenceHandler
	Result    *ResultHandler
	Audit     *AuditHandler
	Employee  *EmployeeHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, log),
		Reference: NewReferenceHandler(service.Reference, log),
		Result:    NewResultHandler(service.Result, log),
		Audit:     NewAuditHandler(service.Audit, log),
		Employee:  NewEmployeeHandler(service.Employee, log),
	}
}

// handleServiceError maps usecase errors to HTTP responses
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrCredentialsInvalid),
		errors.Is(err, usecase.ErrSessionExpired),
		errors.Is(err, usecase.ErrNoActiveCode),
		errors.Is(err, usecase.ErrCodeExpired),
		errors.Is(err, usecase.ErrCodeIncorrect):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, rootMessage(err))

	case errors.Is(err, usecase.ErrNotificationFailed):
		log.Error(operation+" failed - notification", zap.Error(err))
		utils.ResponseBadGateway(w, usecase.ErrNotificationFailed.Error())

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrResultClosed):
		log.Warn(operation+" failed - result closed", zap.Error(err))
		utils.ResponseConflict(w, usecase.ErrResultClosed.Error())

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// rootMessage returns the message of the login error wrapped in err
func rootMessage(err error) string {
	for _, target := range []error{
		usecase.ErrCredentialsInvalid,
		usecase.ErrSessionExpired,
		usecase.ErrNoActiveCode,
		usecase.ErrCodeExpired,
		usecase.ErrCodeIncorrect,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		utils.ResponseBadRequest(w, param+" is required", nil)
		return uuid.Nil, false
	}

	id, err := utils.ParseUUID(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+param+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
