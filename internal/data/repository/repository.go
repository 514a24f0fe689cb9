package repository

import (
	"context"
	"errors"

	"omylab/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is wrapped by writes that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	Employee EmployeeRepository
	OTP      OTPRepository
	Session  SessionRepository
	Audit    AuditRepository
	Band     ReferenceBandRepository
	Patient  PatientRepository
	Result   ResultRepository

	// Tx is nil on a Repository that is already bound to a transaction.
	Tx Transactor
}

// Transactor runs fn with repositories bound to a single SERIALIZABLE
// transaction. Returning an error from fn rolls everything back.
type Transactor interface {
	Serializable(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := bind(db, log)
	repo.Tx = &pgTransactor{db: db, log: log}
	return repo
}

func bind(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		Employee: NewEmployeeRepository(db, log),
		OTP:      NewOTPRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Audit:    NewAuditRepository(db, log),
		Band:     NewReferenceBandRepository(db, log),
		Patient:  NewPatientRepository(db, log),
		Result:   NewResultRepository(db, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgTransactor) Serializable(ctx context.Context, fn func(tx *Repository) error) error {
	return database.RunSerializable(ctx, t.db, func(tx database.DBTX) error {
		return fn(bind(tx, t.log))
	})
}
