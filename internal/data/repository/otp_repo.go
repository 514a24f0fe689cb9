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

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindLatestUnused(ctx context.Context, employeeID uuid.UUID) (*entity.OTP, error)
	MarkAsUsed(ctx context.Context, otpID uuid.UUID) error
	Delete(ctx context.Context, otpID uuid.UUID) error
	DeleteAllForEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error)
	DeleteUsedForEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error)
}

type otpRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewOTPRepository(db database.DBTX, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	query := `
		INSERT INTO employee_otps (id, employee_id, code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		otp.ID,
		otp.EmployeeID,
		otp.Code,
		otp.ExpiresAt,
		otp.Used,
		otp.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("employee_id", otp.EmployeeID.String()),
		)
		return fmt.Errorf("create OTP for employee %s: %w", otp.EmployeeID.String(), err)
	}

	return nil
}

// FindLatestUnused returns the unused code with the furthest expiry, nil when none.
func (r *otpRepository) FindLatestUnused(ctx context.Context, employeeID uuid.UUID) (*entity.OTP, error) {
	query := `
		SELECT id, employee_id, code, expires_at, used, created_at
		FROM employee_otps
		WHERE employee_id = $1
		  AND used = false
		ORDER BY expires_at DESC, created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.QueryRow(ctx, query, employeeID).Scan(
		&otp.ID,
		&otp.EmployeeID,
		&otp.Code,
		&otp.ExpiresAt,
		&otp.Used,
		&otp.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find unused OTP",
			zap.Error(err),
			zap.String("employee_id", employeeID.String()),
		)
		return nil, fmt.Errorf("find unused OTP for employee %s: %w", employeeID.String(), err)
	}

	return &otp, nil
}

func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID uuid.UUID) error {
	query := `
		UPDATE employee_otps
		SET used = true
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to mark OTP as used",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("mark OTP %s as used: %w", otpID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s: %w", otpID.String(), ErrNotFound)
	}

	return nil
}

func (r *otpRepository) Delete(ctx context.Context, otpID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM employee_otps WHERE id = $1`, otpID)
	if err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("otp_id", otpID.String()),
		)
		return fmt.Errorf("delete OTP %s: %w", otpID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP %s: %w", otpID.String(), ErrNotFound)
	}

	return nil
}

func (r *otpRepository) DeleteAllForEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM employee_otps WHERE employee_id = $1`, employeeID)
	if err != nil {
		r.log.Error("Failed to delete OTPs",
			zap.Error(err),
			zap.String("employee_id", employeeID.String()),
		)
		return 0, fmt.Errorf("delete OTPs for employee %s: %w", employeeID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *otpRepository) DeleteUsedForEmployee(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM employee_otps WHERE employee_id = $1 AND used = true`, employeeID)
	if err != nil {
		r.log.Error("Failed to delete used OTPs",
			zap.Error(err),
			zap.String("employee_id", employeeID.String()),
		)
		return 0, fmt.Errorf("delete used OTPs for employee %s: %w", employeeID.String(), err)
	}

	return result.RowsAffected(), nil
}
