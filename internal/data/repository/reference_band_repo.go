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

type ReferenceBandRepository interface {
	// FindByComponentID returns bands in position order, then creation order.
	// Result interpretation relies on this order to pick the first applicable band.
	FindByComponentID(ctx context.Context, componentID uuid.UUID) ([]*entity.ReferenceBand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ReferenceBand, error)
	ComponentExists(ctx context.Context, componentID uuid.UUID) (bool, error)
	// Create appends the band after the existing ones and sets band.Position.
	Create(ctx context.Context, band *entity.ReferenceBand) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type referenceBandRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewReferenceBandRepository(db database.DBTX, log *zap.Logger) ReferenceBandRepository {
	return &referenceBandRepository{
		db:  db,
		log: log.With(zap.String("repository", "reference_band")),
	}
}

const bandColumns = `
	id, component_id, min_value, max_value, unit, sex,
	age_min, age_max, position, created_at, updated_at`

func scanBand(row pgx.Row) (*entity.ReferenceBand, error) {
	var b entity.ReferenceBand
	err := row.Scan(
		&b.ID,
		&b.ComponentID,
		&b.MinValue,
		&b.MaxValue,
		&b.Unit,
		&b.Sex,
		&b.AgeMin,
		&b.AgeMax,
		&b.Position,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *referenceBandRepository) FindByComponentID(ctx context.Context, componentID uuid.UUID) ([]*entity.ReferenceBand, error) {
	query := `SELECT` + bandColumns + `
		FROM reference_bands
		WHERE component_id = $1
		ORDER BY position ASC, created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, componentID)
	if err != nil {
		r.log.Error("Failed to list reference bands",
			zap.Error(err),
			zap.String("component_id", componentID.String()),
		)
		return nil, fmt.Errorf("list reference bands for component %s: %w", componentID.String(), err)
	}
	defer rows.Close()

	var bands []*entity.ReferenceBand
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			r.log.Error("Failed to scan reference band row", zap.Error(err))
			return nil, fmt.Errorf("scan reference band row: %w", err)
		}
		bands = append(bands, band)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference band rows: %w", err)
	}

	return bands, nil
}

func (r *referenceBandRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReferenceBand, error) {
	query := `SELECT` + bandColumns + `
		FROM reference_bands
		WHERE id = $1
	`

	band, err := scanBand(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reference band",
			zap.Error(err),
			zap.String("band_id", id.String()),
		)
		return nil, fmt.Errorf("find reference band %s: %w", id.String(), err)
	}

	return band, nil
}

func (r *referenceBandRepository) ComponentExists(ctx context.Context, componentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM components WHERE id = $1)`, componentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check component %s: %w", componentID.String(), err)
	}
	return exists, nil
}

func (r *referenceBandRepository) Create(ctx context.Context, band *entity.ReferenceBand) error {
	query := `
		INSERT INTO reference_bands (id, component_id, min_value, max_value, unit, sex,
		                             age_min, age_max, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		        (SELECT COALESCE(MAX(position), 0) + 1 FROM reference_bands WHERE component_id = $2),
		        $9, $10)
		RETURNING position
	`

	err := r.db.QueryRow(ctx, query,
		band.ID,
		band.ComponentID,
		band.MinValue,
		band.MaxValue,
		band.Unit,
		band.Sex,
		band.AgeMin,
		band.AgeMax,
		band.CreatedAt,
		band.UpdatedAt,
	).Scan(&band.Position)

	if err != nil {
		r.log.Error("Failed to create reference band",
			zap.Error(err),
			zap.String("component_id", band.ComponentID.String()),
		)
		return fmt.Errorf("create reference band for component %s: %w", band.ComponentID.String(), err)
	}

	return nil
}

func (r *referenceBandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reference_bands WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete reference band",
			zap.Error(err),
			zap.String("band_id", id.String()),
		)
		return fmt.Errorf("delete reference band %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reference band %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
