package repository

import (
	"context"
	"fmt"

	"omylab/internal/data/entity"
	"omylab/pkg/database"

	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.AuditEntry, error)
	CountAll(ctx context.Context) (int64, error)
}

type auditRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewAuditRepository(db database.DBTX, log *zap.Logger) AuditRepository {
	return &auditRepository{
		db:  db,
		log: log.With(zap.String("repository", "audit")),
	}
}

func (r *auditRepository) Create(ctx context.Context, entry *entity.AuditEntry) error {
	query := `
		INSERT INTO audit_entries (id, activity, description, comment, entity_id,
		                           action, employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		entry.ID,
		entry.Activity,
		entry.Description,
		entry.Comment,
		entry.EntityID,
		entry.Action,
		entry.EmployeeID,
		entry.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to append audit entry",
			zap.Error(err),
			zap.String("action", entry.Action),
			zap.String("employee_id", entry.EmployeeID.String()),
		)
		return fmt.Errorf("append audit entry %s: %w", entry.Action, err)
	}

	return nil
}

// FindAll lists entries newest first together with the acting employee's name
func (r *auditRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT a.id, a.activity, a.description, a.comment, a.entity_id,
		       a.action, a.employee_id, a.created_at,
		       COALESCE(e.first_name || ' ' || e.last_name, '')
		FROM audit_entries a
		LEFT JOIN employees e ON e.id = a.employee_id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list audit entries",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list audit entries limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var entries []*entity.AuditEntry
	for rows.Next() {
		var entry entity.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Activity,
			&entry.Description,
			&entry.Comment,
			&entry.EntityID,
			&entry.Action,
			&entry.EmployeeID,
			&entry.CreatedAt,
			&entry.EmployeeName,
		); err != nil {
			r.log.Error("Failed to scan audit row", zap.Error(err))
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate audit rows: %w", err)
	}

	return entries, nil
}

func (r *auditRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_entries`).Scan(&count); err != nil {
		r.log.Error("Database error counting audit entries", zap.Error(err))
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return count, nil
}
