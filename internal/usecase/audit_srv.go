package usecase

import (
	"context"

	"omylab/internal/data/repository"
	"omylab/internal/dto/request"
	"omylab/internal/dto/response"

	"go.uber.org/zap"
)

type AuditService interface {
	List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.AuditResponse], error)
}

type auditService struct {
	repo repository.AuditRepository
	log  *zap.Logger
}

func NewAuditService(repo repository.AuditRepository, log *zap.Logger) AuditService {
	return &auditService{
		repo: repo,
		log:  log.With(zap.String("service", "audit")),
	}
}

func (s *auditService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.AuditResponse], error) {
	req = req.Normalize()

	entries, err := s.repo.FindAll(ctx, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.AuditResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, response.AuditToResponse(e))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}
