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

type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
}

type patientRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewPatientRepository(db database.DBTX, log *zap.Logger) PatientRepository {
	return &patientRepository{
		db:  db,
		log: log.With(zap.String("repository", "patient")),
	}
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	query := `
		SELECT id, first_name, last_name, dni, birth_date, sex, created_at, updated_at
		FROM patients
		WHERE id = $1
	`

	var p entity.Patient
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DNI,
		&p.BirthDate,
		&p.Sex,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find patient",
			zap.Error(err),
			zap.String("patient_id", id.String()),
		)
		return nil, fmt.Errorf("find patient %s: %w", id.String(), err)
	}

	return &p, nil
}
