package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"omylab/internal/data/entity"
	"omylab/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EmployeeRepository interface {
	// FindActiveByCredentials matches username and password exactly and
	// only returns employees whose status is Activo.
	FindActiveByCredentials(ctx context.Context, username, password string) (*entity.Employee, error)
	FindActiveByUsername(ctx context.Context, username string) (*entity.Employee, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	// LockForUpdate takes a row lock on the employee for the current transaction.
	LockForUpdate(ctx context.Context, id uuid.UUID) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, employee *entity.Employee) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EmployeeStatus, updatedAt time.Time) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Employee, error)
	CountAll(ctx context.Context) (int64, error)
}

type employeeRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewEmployeeRepository(db database.DBTX, log *zap.Logger) EmployeeRepository {
	return &employeeRepository{
		db:  db,
		log: log.With(zap.String("repository", "employee")),
	}
}

const employeeColumns = `
	id, first_name, last_name, dni, email, username, password,
	role, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.DNI,
		&e.Email,
		&e.Username,
		&e.Password,
		&e.Role,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) FindActiveByCredentials(ctx context.Context, username, password string) (*entity.Employee, error) {
	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE username = $1 AND password = $2 AND status = $3
		LIMIT 1
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, username, password, entity.StatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find employee by credentials",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find employee by credentials %s: %w", username, err)
	}

	return employee, nil
}

func (r *employeeRepository) FindActiveByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE username = $1 AND status = $2
		LIMIT 1
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, username, entity.StatusActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find employee by username",
			zap.Error(err),
			zap.String("username", username),
		)
		return nil, fmt.Errorf("find employee by username %s: %w", username, err)
	}

	return employee, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error) {
	query := `SELECT` + employeeColumns + `
		FROM employees
		WHERE id = $1
	`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find employee by ID",
			zap.Error(err),
			zap.String("employee_id", id.String()),
		)
		return nil, fmt.Errorf("find employee by ID %s: %w", id.String(), err)
	}

	return employee, nil
}

func (r *employeeRepository) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("employee %s: %w", id.String(), ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lock employee %s: %w", id.String(), err)
	}
	return nil
}

func (r *employeeRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username %s: %w", username, err)
	}
	return exists, nil
}

func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	query := `
		INSERT INTO employees (id, first_name, last_name, dni, email, username,
		                       password, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.DNI,
		employee.Email,
		employee.Username,
		employee.Password,
		employee.Role,
		employee.Status,
		employee.CreatedAt,
		employee.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create employee",
			zap.Error(err),
			zap.String("username", employee.Username),
		)
		return fmt.Errorf("create employee %s: %w", employee.Username, err)
	}

	return nil
}

func (r *employeeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.EmployeeStatus, updatedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE employees SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, updatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update employee status",
			zap.Error(err),
			zap.String("employee_id", id.String()),
		)
		return fmt.Errorf("update employee status %s: %w", id.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("employee %s: %w", id.String(), ErrNotFound)
	}
	return nil
}

func (r *employeeRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Employee, error) {
	query := `SELECT` + employeeColumns + `
		FROM employees
		ORDER BY last_name, first_name, id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to list employees", zap.Error(err))
		return nil, fmt.Errorf("list employees limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		r.log.Error("Database error counting employees", zap.Error(err))
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return count, nil
}
