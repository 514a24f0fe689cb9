package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"omylab/internal/data/entity"
	"omylab/internal/data/repository"
	"omylab/internal/dto/request"
	"omylab/internal/dto/response"
	"omylab/pkg/metrics"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ResultService interface {
	GetResult(ctx context.Context, resultID uuid.UUID) (*response.ResultDetailResponse, error)
	// RecordResults classifies and stores every submitted value and closes the
	// result. Only pending results accept values, and every component must
	// end up with one.
	RecordResults(ctx context.Context, employeeID, resultID uuid.UUID, req *request.RecordResultsRequest) (*response.ResultDetailResponse, error)
}

type resultService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewResultService(repo *repository.Repository, log *zap.Logger) ResultService {
	return &resultService{
		repo: repo,
		log:  log.With(zap.String("service", "result")),
		now:  time.Now,
	}
}

func (s *resultService) GetResult(ctx context.Context, resultID uuid.UUID) (*response.ResultDetailResponse, error) {
	return s.loadDetail(ctx, s.repo, resultID)
}

func (s *resultService) RecordResults(ctx context.Context, employeeID, resultID uuid.UUID, req *request.RecordResultsRequest) (*response.ResultDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Record results validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	values := make(map[uuid.UUID]float64, len(req.Components))
	for _, c := range req.Components {
		id, err := utils.ParseUUID(c.ResultComponentID)
		if err != nil {
			return nil, fmt.Errorf("%w: result_component_id %q", ErrValidation, c.ResultComponentID)
		}
		values[id] = *c.Value
	}

	now := s.now()
	var patient *entity.Patient
	var resultAnalysis string
	var verdicts []Verdict

	err := s.repo.Tx.Serializable(ctx, func(tx *repository.Repository) error {
		verdicts = verdicts[:0]

		result, err := tx.Result.FindByID(ctx, resultID)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("result %s: %w", resultID, ErrNotFound)
		}
		if result.Status != entity.ResultStatusPending {
			return ErrResultClosed
		}
		resultAnalysis = result.AnalysisName

		patient, err = tx.Patient.FindByID(ctx, result.PatientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return fmt.Errorf("patient %s: %w", result.PatientID, ErrNotFound)
		}
		age := float64(AgeInYears(patient.BirthDate, now))

		components, err := tx.Result.FindComponents(ctx, result.ID, result.PatientAnalysisID)
		if err != nil {
			return err
		}

		if err := checkCompleteSubmission(components, values); err != nil {
			return err
		}

		bandsByComponent := make(map[uuid.UUID][]*entity.ReferenceBand)
		for _, c := range components {
			value, ok := values[c.ID]
			if !ok {
				continue
			}

			bands, cached := bandsByComponent[c.ComponentID]
			if !cached {
				bands, err = tx.Band.FindByComponentID(ctx, c.ComponentID)
				if err != nil {
					return err
				}
				bandsByComponent[c.ComponentID] = bands
			}

			verdict := Classify(value, bands, patient.Sex, age)
			if err := tx.Result.UpdateComponent(ctx, c.ID, value, string(verdict)); err != nil {
				return err
			}
			verdicts = append(verdicts, verdict)
		}

		return tx.Result.Complete(ctx, result.ID, result.PatientAnalysisID)
	})
	if err != nil {
		return nil, err
	}

	for _, v := range verdicts {
		metrics.Verdicts.WithLabelValues(string(v)).Inc()
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityResult,
		Description: "Resultado actualizado",
		Comment:     fmt.Sprintf("Paciente: %s %s - Análisis: %s", patient.FirstName, patient.LastName, resultAnalysis),
		EntityID:    resultID,
		Action:      entity.AuditActionUpdate,
		EmployeeID:  employeeID,
	}, now)

	s.log.Info("Result recorded",
		zap.String("result_id", resultID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Int("components", len(verdicts)))

	return s.loadDetail(ctx, s.repo, resultID)
}

// checkCompleteSubmission rejects ids that are not components of the result
// and leaves no component without a value once the submission is applied.
func checkCompleteSubmission(components []*entity.ResultComponent, values map[uuid.UUID]float64) error {
	known := make(map[uuid.UUID]bool, len(components))
	for _, c := range components {
		known[c.ID] = true
	}
	for id := range values {
		if !known[id] {
			return fmt.Errorf("%w: result_component_id %s does not belong to the result", ErrValidation, id)
		}
	}

	var missing []string
	for _, c := range components {
		if _, ok := values[c.ID]; !ok && c.Value == nil {
			missing = append(missing, c.ComponentName)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: all values are required before saving, missing %s",
			ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func (s *resultService) loadDetail(ctx context.Context, repo *repository.Repository, resultID uuid.UUID) (*response.ResultDetailResponse, error) {
	result, err := repo.Result.FindByID(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("result %s: %w", resultID, ErrNotFound)
	}

	patient, err := repo.Patient.FindByID(ctx, result.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, fmt.Errorf("patient %s: %w", result.PatientID, ErrNotFound)
	}

	components, err := repo.Result.FindComponents(ctx, result.ID, result.PatientAnalysisID)
	if err != nil {
		return nil, err
	}

	age := AgeInYears(patient.BirthDate, s.now())
	detail := &response.ResultDetailResponse{
		ID:           result.ID.String(),
		AnalysisName: result.AnalysisName,
		Status:       result.Status,
		RegisteredOn: result.RegisteredOn,
		PatientName:  patient.FirstName + " " + patient.LastName,
		PatientDNI:   patient.DNI,
		PatientSex:   string(patient.Sex),
		PatientAge:   age,
		Components:   make([]response.ResultComponentResponse, 0, len(components)),
	}

	for _, c := range components {
		bands, err := repo.Band.FindByComponentID(ctx, c.ComponentID)
		if err != nil {
			return nil, err
		}

		item := response.ResultComponentResponse{
			ID:            c.ID.String(),
			ComponentID:   c.ComponentID.String(),
			ComponentName: c.ComponentName,
			Value:         c.Value,
			Verdict:       c.Verdict,
			References:    response.BandsToResponse(ApplicableBands(bands, patient.Sex, float64(age))),
		}
		if c.Verdict != "" {
			item.InterpretationCode = Verdict(c.Verdict).InterpretationCode()
		}
		detail.Components = append(detail.Components, item)
	}

	return detail, nil
}
