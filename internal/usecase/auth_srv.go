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
	"omylab/pkg/metrics"
	"omylab/pkg/notifier"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const otpEmailSubject = "Código de Verificación OMYLAB"

// PendingLoginStore holds the handle between the credential and passcode steps.
type PendingLoginStore interface {
	Save(ctx context.Context, token string, employeeID uuid.UUID, ttl time.Duration) error
	Find(ctx context.Context, token string) (uuid.UUID, bool, error)
}

type AuthService interface {
	// IssueCode checks credentials and emails a fresh passcode. Any credential
	// failure returns ErrCredentialsInvalid and leaves no trace.
	IssueCode(ctx context.Context, req *request.LoginRequest) (*entity.PendingLogin, error)
	// ValidateCode consumes the passcode owed by the pending login handle.
	// The handle lives until its TTL, so replaying it yields ErrNoActiveCode.
	ValidateCode(ctx context.Context, pendingToken string, req *request.VerifyOTPRequest, meta request.ClientMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string, employeeID uuid.UUID) error
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	repo     *repository.Repository
	pending  PendingLoginStore
	notifier notifier.Sender
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	pending PendingLoginStore,
	sender notifier.Sender,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		pending:  pending,
		notifier: sender,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

func (s *authService) IssueCode(ctx context.Context, req *request.LoginRequest) (*entity.PendingLogin, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 2. Credential check
	employee, err := s.findActiveEmployee(ctx, req.Username, req.Password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.StepIssue, "error").Inc()
		return nil, fmt.Errorf("credential lookup: %w", err)
	}
	if employee == nil {
		metrics.LoginAttempts.WithLabelValues(metrics.StepIssue, "invalid").Inc()
		s.log.Warn("Rejected login", zap.String("username", req.Username))
		return nil, ErrCredentialsInvalid
	}

	// 3. Replace any previous code with a new one
	code, err := utils.GenerateOTP(utils.OTPLength)
	if err != nil {
		return nil, err
	}

	now := s.now()
	otp := &entity.OTP{
		BaseSimple: entity.NewBaseSimple(now),
		EmployeeID: employee.ID,
		Code:       code,
		ExpiresAt:  now.Add(s.config.OTP.Expiry()),
		Used:       false,
	}

	err = s.repo.Tx.Serializable(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.LockForUpdate(ctx, employee.ID); err != nil {
			return err
		}
		if _, err := tx.OTP.DeleteAllForEmployee(ctx, employee.ID); err != nil {
			return err
		}
		return tx.OTP.Create(ctx, otp)
	})
	if err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.StepIssue, "error").Inc()
		return nil, fmt.Errorf("issue code: %w", err)
	}

	s.log.Debug("OTP generated",
		zap.String("employee_id", employee.ID.String()),
		zap.String("otp_code", code),
		zap.Time("expires_at", otp.ExpiresAt),
	)

	// 4. Deliver synchronously; a code the employee never receives is withdrawn
	if err := s.notifier.Send(ctx, employee.Email, otpEmailSubject, otpEmailBody(employee, code, s.config.OTP.ExpiryMinutes, now)); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.StepIssue, "notification_failed").Inc()
		s.log.Error("Failed to send OTP email",
			zap.Error(err),
			zap.String("employee_id", employee.ID.String()),
			zap.String("email", employee.Email),
		)
		s.withdrawCode(ctx, otp)
		return nil, fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}

	// 5. Hand out the pending login handle
	ttl := s.config.Auth.PendingLoginTTL()
	pending := &entity.PendingLogin{
		Token:      utils.GenerateToken().String(),
		EmployeeID: employee.ID,
		ExpiresAt:  now.Add(ttl),
	}
	if err := s.pending.Save(ctx, pending.Token, employee.ID, ttl); err != nil {
		s.log.Error("Failed to store pending login", zap.Error(err), zap.String("employee_id", employee.ID.String()))
		return nil, fmt.Errorf("store pending login: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.StepIssue, "issued").Inc()
	s.log.Info("OTP issued",
		zap.String("employee_id", employee.ID.String()),
		zap.String("username", employee.Username))

	return pending, nil
}

func (s *authService) ValidateCode(ctx context.Context, pendingToken string, req *request.VerifyOTPRequest, meta request.ClientMeta) (*response.AuthResponse, error) {
	// 1. Resolve the pending login
	if pendingToken == "" {
		return nil, s.rejectCode(ErrSessionExpired, uuid.Nil)
	}
	employeeID, ok, err := s.pending.Find(ctx, pendingToken)
	if err != nil {
		return nil, fmt.Errorf("resolve pending login: %w", err)
	}
	if !ok {
		return nil, s.rejectCode(ErrSessionExpired, uuid.Nil)
	}

	// 2. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify OTP validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	// 3. Check and consume the code
	now := s.now()
	err = s.repo.Tx.Serializable(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.LockForUpdate(ctx, employeeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSessionExpired
			}
			return err
		}

		otp, err := tx.OTP.FindLatestUnused(ctx, employeeID)
		if err != nil {
			return err
		}
		if otp == nil {
			return ErrNoActiveCode
		}
		// expired and wrong codes stay in place for a distinguishable retry
		if otp.ExpiredAt(now) {
			return ErrCodeExpired
		}
		if otp.Code != req.Code {
			return ErrCodeIncorrect
		}

		if err := tx.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
			return err
		}
		_, err = tx.OTP.DeleteUsedForEmployee(ctx, employeeID)
		return err
	})
	if err != nil {
		if isLoginError(err) {
			return nil, s.rejectCode(err, employeeID)
		}
		metrics.LoginAttempts.WithLabelValues(metrics.StepValidate, "error").Inc()
		return nil, fmt.Errorf("validate code: %w", err)
	}

	// 4. Establish the session
	employee, err := s.repo.Employee.FindByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	if employee == nil {
		return nil, s.rejectCode(ErrSessionExpired, employeeID)
	}

	session, err := s.createSession(ctx, employee.ID, meta, now)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("employee_id", employee.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityAccess,
		Description: entity.AuditActionLogin,
		Comment:     employeeComment(employee),
		EntityID:    employee.ID,
		Action:      entity.AuditActionLogin,
		EmployeeID:  employee.ID,
	}, now)

	metrics.LoginAttempts.WithLabelValues(metrics.StepValidate, "authenticated").Inc()
	s.log.Info("Employee logged in",
		zap.String("employee_id", employee.ID.String()),
		zap.String("username", employee.Username),
		zap.String("role", string(employee.Role)))

	resp := response.AuthToResponse(employee, session, s.config.Auth.PostLoginRedirect)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string, employeeID uuid.UUID) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return ErrSessionExpired
	}

	if err := s.repo.Session.Revoke(ctx, tokenUUID.String()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionExpired
		}
		s.log.Error("Failed to revoke session", zap.Error(err), zap.String("employee_id", employeeID.String()))
		return fmt.Errorf("logout: %w", err)
	}

	employee, err := s.repo.Employee.FindByID(ctx, employeeID)
	if err != nil {
		s.log.Warn("Failed to load employee for logout audit", zap.Error(err))
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityAccess,
		Description: entity.AuditActionLogout,
		Comment:     employeeComment(employee),
		EntityID:    employeeID,
		Action:      entity.AuditActionLogout,
		EmployeeID:  employeeID,
	}, s.now())

	s.log.Info("Employee logged out", zap.String("employee_id", employeeID.String()))
	return nil
}

func (s *authService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Purged expired sessions", zap.Int64("count", n))
	}
	return n, nil
}

// ==================== HELPER METHODS ====================

// findActiveEmployee compares the password as stored unless hashing is
// switched on in the auth config.
func (s *authService) findActiveEmployee(ctx context.Context, username, password string) (*entity.Employee, error) {
	if !s.config.Auth.PasswordHashing {
		return s.repo.Employee.FindActiveByCredentials(ctx, username, password)
	}

	employee, err := s.repo.Employee.FindActiveByUsername(ctx, username)
	if err != nil || employee == nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, employee.Password) {
		return nil, nil
	}
	return employee, nil
}

func (s *authService) withdrawCode(ctx context.Context, otp *entity.OTP) {
	err := s.repo.Tx.Serializable(ctx, func(tx *repository.Repository) error {
		return tx.OTP.Delete(ctx, otp.ID)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("Failed to withdraw undelivered OTP",
			zap.Error(err),
			zap.String("employee_id", otp.EmployeeID.String()))
	}
}

func (s *authService) createSession(ctx context.Context, employeeID uuid.UUID, meta request.ClientMeta, now time.Time) (*entity.Session, error) {
	session := &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		EmployeeID: employeeID,
		Token:      utils.GenerateToken(),
		UserAgent:  optional(meta.UserAgent),
		IPAddress:  optional(meta.IPAddress),
		ExpiresAt:  now.Add(s.config.Auth.SessionTTL()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *authService) rejectCode(err error, employeeID uuid.UUID) error {
	outcome := "rejected"
	switch {
	case errors.Is(err, ErrSessionExpired):
		outcome = "session_expired"
	case errors.Is(err, ErrNoActiveCode):
		outcome = "no_active_code"
	case errors.Is(err, ErrCodeExpired):
		outcome = "code_expired"
	case errors.Is(err, ErrCodeIncorrect):
		outcome = "code_incorrect"
	}
	metrics.LoginAttempts.WithLabelValues(metrics.StepValidate, outcome).Inc()
	s.log.Warn("OTP rejected", zap.String("reason", outcome), zap.String("employee_id", employeeID.String()))
	return err
}

func isLoginError(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrNoActiveCode) ||
		errors.Is(err, ErrCodeExpired) ||
		errors.Is(err, ErrCodeIncorrect)
}

func employeeComment(e *entity.Employee) string {
	if e == nil {
		return "Nombre: , DNI: "
	}
	return fmt.Sprintf("Nombre: %s %s, DNI: %s", e.FirstName, e.LastName, e.DNI)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func otpEmailBody(e *entity.Employee, code string, expiryMinutes int, now time.Time) string {
	return fmt.Sprintf(`
<div style='font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;'>
    <h2 style='color: #8B0000;'>Código de Verificación</h2>
    <p>Hola <strong>%s</strong>,</p>
    <p>Tu código de verificación es:</p>
    <div style='background: #f8f9fa; padding: 20px; text-align: center; border-radius: 8px; margin: 20px 0;'>
        <h1 style='color: #8B0000; font-size: 36px; letter-spacing: 8px; margin: 0;'>%s</h1>
    </div>
    <p>Este código expira en <strong>%d minutos</strong>.</p>
    <p style='color: #6c757d; font-size: 12px;'>Si no solicitaste este código, ignora este mensaje.</p>
    <hr>
    <p style='color: #6c757d; font-size: 12px;'>© %d Laboratorio Clínico OMYLAB</p>
</div>`, e.FirstName, code, expiryMinutes, now.Year())
}
