package usecase

import (
	"context"
	"time"

	"omylab/internal/data/entity"
	"omylab/internal/data/repository"
	"omylab/pkg/notifier"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Reference ReferenceService
	Result    ResultService
	Audit     AuditService
	Employee  EmployeeService
}

func NewService(
	repo *repository.Repository,
	pending PendingLoginStore,
	sender notifier.Sender,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(repo, pending, sender, config, log),
		Reference: NewReferenceService(repo, log),
		Result:    NewResultService(repo, log),
		Audit:     NewAuditService(repo.Audit, log),
		Employee:  NewEmployeeService(repo, config, log),
	}
}

// recordAudit appends an entry outside the caller's transaction. A failed
// append is logged and never fails the operation it describes.
func recordAudit(ctx context.Context, audit repository.AuditRepository, log *zap.Logger, entry *entity.AuditEntry, now time.Time) {
	if entry.ID == uuid.Nil {
		entry.BaseSimple = entity.NewBaseSimple(now)
	}

	if err := audit.Create(ctx, entry); err != nil {
		log.Error("Failed to record audit entry",
			zap.Error(err),
			zap.String("activity", entry.Activity),
			zap.String("action", entry.Action),
			zap.String("employee_id", entry.EmployeeID.String()),
		)
	}
}
