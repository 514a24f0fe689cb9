package repository

import (
	"context"
	"errors"
	"fmt"

	"omylab/internal/data/entity"
	"omylab/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ResultRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Result, error)
	FindComponents(ctx context.Context, resultID, patientAnalysisID uuid.UUID) ([]*entity.ResultComponent, error)
	UpdateComponent(ctx context.Context, componentRowID uuid.UUID, value float64, verdict string) error
	// Complete sets the result and its patient analysis to completado.
	Complete(ctx context.Context, resultID, patientAnalysisID uuid.UUID) error
}

type resultRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewResultRepository(db database.DBTX, log *zap.Logger) ResultRepository {
	return &resultRepository{
		db:  db,
		log: log.With(zap.String("repository", "result")),
	}
}

func (r *resultRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Result, error) {
	query := `
		SELECT r.id, r.patient_id, r.analysis_id, a.name, r.patient_analysis_id,
		       r.status, r.registered_on, r.created_at, r.updated_at
		FROM results r
		JOIN analyses a ON a.id = r.analysis_id
		WHERE r.id = $1
	`

	var res entity.Result
	err := r.db.QueryRow(ctx, query, id).Scan(
		&res.ID,
		&res.PatientID,
		&res.AnalysisID,
		&res.AnalysisName,
		&res.PatientAnalysisID,
		&res.Status,
		&res.RegisteredOn,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find result",
			zap.Error(err),
			zap.String("result_id", id.String()),
		)
		return nil, fmt.Errorf("find result %s: %w", id.String(), err)
	}

	return &res, nil
}

func (r *resultRepository) FindComponents(ctx context.Context, resultID, patientAnalysisID uuid.UUID) ([]*entity.ResultComponent, error) {
	query := `
		SELECT rc.id, rc.result_id, rc.patient_analysis_id, rc.component_id,
		       c.name, rc.value, COALESCE(rc.verdict, '')
		FROM result_components rc
		JOIN components c ON c.id = rc.component_id
		WHERE rc.result_id = $1 AND rc.patient_analysis_id = $2
		ORDER BY c.name ASC
	`

	rows, err := r.db.Query(ctx, query, resultID, patientAnalysisID)
	if err != nil {
		r.log.Error("Failed to list result components",
			zap.Error(err),
			zap.String("result_id", resultID.String()),
		)
		return nil, fmt.Errorf("list components of result %s: %w", resultID.String(), err)
	}
	defer rows.Close()

	var components []*entity.ResultComponent
	for rows.Next() {
		var c entity.ResultComponent
		if err := rows.Scan(
			&c.ID,
			&c.ResultID,
			&c.PatientAnalysisID,
			&c.ComponentID,
			&c.ComponentName,
			&c.Value,
			&c.Verdict,
		); err != nil {
			r.log.Error("Failed to scan result component row", zap.Error(err))
			return nil, fmt.Errorf("scan result component row: %w", err)
		}
		components = append(components, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result component rows: %w", err)
	}

	return components, nil
}

func (r *resultRepository) UpdateComponent(ctx context.Context, componentRowID uuid.UUID, value float64, verdict string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE result_components SET value = $2, verdict = $3 WHERE id = $1`,
		componentRowID, value, verdict,
	)
	if err != nil {
		r.log.Error("Failed to update result component",
			zap.Error(err),
			zap.String("component_row_id", componentRowID.String()),
		)
		return fmt.Errorf("update result component %s: %w", componentRowID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("result component %s: %w", componentRowID.String(), ErrNotFound)
	}

	return nil
}

func (r *resultRepository) Complete(ctx context.Context, resultID, patientAnalysisID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`UPDATE results SET status = $2, updated_at = NOW() WHERE id = $1`,
		resultID, entity.ResultStatusCompleted,
	)
	if err != nil {
		r.log.Error("Failed to complete result",
			zap.Error(err),
			zap.String("result_id", resultID.String()),
		)
		return fmt.Errorf("complete result %s: %w", resultID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("result %s: %w", resultID.String(), ErrNotFound)
	}

	// the patient analysis row may be gone; the result itself is what matters
	if _, err := r.db.Exec(ctx,
		`UPDATE patient_analyses SET status = $2 WHERE id = $1`,
		patientAnalysisID, entity.ResultStatusCompleted,
	); err != nil {
		r.log.Error("Failed to complete patient analysis",
			zap.Error(err),
			zap.String("patient_analysis_id", patientAnalysisID.String()),
		)
		return fmt.Errorf("complete patient analysis %s: %w", patientAnalysisID.String(), err)
	}

	return nil
}
