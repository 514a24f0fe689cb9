package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"omylab/internal/data/entity"
	"omylab/internal/data/repository"
	"omylab/internal/dto/request"
	"omylab/internal/dto/response"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReferenceService interface {
	ListBands(ctx context.Context, componentID uuid.UUID) ([]response.ReferenceBandResponse, error)
	CreateBand(ctx context.Context, employeeID, componentID uuid.UUID, req *request.ReferenceBandRequest) (*response.ReferenceBandResponse, error)
	DeleteBand(ctx context.Context, employeeID, bandID uuid.UUID) error
	ClassifyPreview(ctx context.Context, req *request.ClassifyRequest) (*response.ClassificationResponse, error)
}

type referenceService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewReferenceService(repo *repository.Repository, log *zap.Logger) ReferenceService {
	return &referenceService{
		repo: repo,
		log:  log.With(zap.String("service", "reference")),
		now:  time.Now,
	}
}

func (s *referenceService) ListBands(ctx context.Context, componentID uuid.UUID) ([]response.ReferenceBandResponse, error) {
	if err := s.requireComponent(ctx, componentID); err != nil {
		return nil, err
	}

	bands, err := s.repo.Band.FindByComponentID(ctx, componentID)
	if err != nil {
		return nil, err
	}

	return response.BandsToResponse(bands), nil
}

func (s *referenceService) CreateBand(ctx context.Context, employeeID, componentID uuid.UUID, req *request.ReferenceBandRequest) (*response.ReferenceBandResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reference band validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	if err := validateBandBounds(req); err != nil {
		return nil, err
	}
	if err := s.requireComponent(ctx, componentID); err != nil {
		return nil, err
	}

	now := s.now()
	band := &entity.ReferenceBand{
		Base:        entity.NewBase(now),
		ComponentID: componentID,
		MinValue:    *req.MinValue,
		MaxValue:    *req.MaxValue,
		Unit:        req.Unit,
		Sex:         entity.Sex(req.Sex),
		AgeMin:      req.AgeMin,
		AgeMax:      req.AgeMax,
	}

	if err := s.repo.Band.Create(ctx, band); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityRefRange,
		Description: "Rango de referencia registrado",
		Comment:     bandComment(band),
		EntityID:    band.ID,
		Action:      entity.AuditActionCreate,
		EmployeeID:  employeeID,
	}, now)

	s.log.Info("Reference band created",
		zap.String("band_id", band.ID.String()),
		zap.String("component_id", componentID.String()),
		zap.Int("position", band.Position))

	resp := response.BandToResponse(band)
	return &resp, nil
}

func (s *referenceService) DeleteBand(ctx context.Context, employeeID, bandID uuid.UUID) error {
	band, err := s.repo.Band.FindByID(ctx, bandID)
	if err != nil {
		return err
	}
	if band == nil {
		return fmt.Errorf("reference band %s: %w", bandID, ErrNotFound)
	}

	if err := s.repo.Band.Delete(ctx, bandID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("reference band %s: %w", bandID, ErrNotFound)
		}
		return err
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityRefRange,
		Description: "Rango de referencia eliminado",
		Comment:     bandComment(band),
		EntityID:    band.ID,
		Action:      entity.AuditActionDelete,
		EmployeeID:  employeeID,
	}, s.now())

	s.log.Info("Reference band deleted", zap.String("band_id", bandID.String()))
	return nil
}

func (s *referenceService) ClassifyPreview(ctx context.Context, req *request.ClassifyRequest) (*response.ClassificationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	componentID, err := utils.ParseUUID(req.ComponentID)
	if err != nil {
		return nil, fmt.Errorf("%w: component_id", ErrValidation)
	}

	bands, err := s.repo.Band.FindByComponentID(ctx, componentID)
	if err != nil {
		return nil, err
	}

	sex := entity.Sex(req.Sex)
	verdict := Classify(*req.Value, bands, sex, *req.Age)

	resp := &response.ClassificationResponse{
		Value:              *req.Value,
		Verdict:            string(verdict),
		InterpretationCode: verdict.InterpretationCode(),
	}
	if band := SelectBand(bands, sex, *req.Age); band != nil {
		b := response.BandToResponse(band)
		resp.Band = &b
	}

	return resp, nil
}

func (s *referenceService) requireComponent(ctx context.Context, componentID uuid.UUID) error {
	exists, err := s.repo.Band.ComponentExists(ctx, componentID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("component %s: %w", componentID, ErrNotFound)
	}
	return nil
}

func validateBandBounds(req *request.ReferenceBandRequest) error {
	if *req.MinValue > *req.MaxValue {
		return fmt.Errorf("%w: min_value must not exceed max_value", ErrValidation)
	}
	if req.AgeMin != nil && req.AgeMax != nil && *req.AgeMin > *req.AgeMax {
		return fmt.Errorf("%w: age_min must not exceed age_max", ErrValidation)
	}
	return nil
}

func bandComment(b *entity.ReferenceBand) string {
	return fmt.Sprintf("Rango: %g - %g %s, Sexo: %s", b.MinValue, b.MaxValue, b.Unit, b.Sex)
}
