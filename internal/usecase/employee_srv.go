package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"omylab/internal/data/entity"
	"omylab/internal/data/repository"
	"omylab/internal/dto/request"
	"omylab/internal/dto/response"
	"omylab/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EmployeeService interface {
	List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.EmployeeResponse], error)
	// Create registers an employee with a generated username. The initial
	// password is the DNI, hashed when password hashing is on.
	Create(ctx context.Context, actorID uuid.UUID, req *request.CreateEmployeeRequest) (*response.EmployeeResponse, error)
	// UpdateStatus activates or deactivates an employee. Inactive employees
	// cannot log in and their open sessions stop resolving.
	UpdateStatus(ctx context.Context, actorID, employeeID uuid.UUID, req *request.UpdateEmployeeStatusRequest) (*response.EmployeeResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewEmployeeService(repo *repository.Repository, config *utils.Config, log *zap.Logger) EmployeeService {
	return &employeeService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "employee")),
		now:    time.Now,
	}
}

func (s *employeeService) List(ctx context.Context, req request.PaginatedRequest) (*response.PaginatedResponse[response.EmployeeResponse], error) {
	req = req.Normalize()

	employees, err := s.repo.Employee.FindAll(ctx, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Employee.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	data := make([]response.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		data = append(data, response.EmployeeToResponse(e))
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *employeeService) Create(ctx context.Context, actorID uuid.UUID, req *request.CreateEmployeeRequest) (*response.EmployeeResponse, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Employee validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	password := req.DNI
	if s.config.Auth.PasswordHashing {
		hashed, err := utils.HashPassword(req.DNI)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		password = hashed
	}

	status := entity.StatusActive
	if req.Status != "" {
		status = entity.EmployeeStatus(req.Status)
	}

	now := s.now()
	employee := &entity.Employee{
		Base:      entity.NewBase(now),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Email:     req.Email,
		Password:  password,
		Role:      entity.EmployeeRole(req.Role),
		Status:    status,
	}

	err := s.repo.Tx.Serializable(ctx, func(tx *repository.Repository) error {
		username, err := generateUsername(req.FirstName, req.LastName, func(candidate string) (bool, error) {
			return tx.Employee.UsernameExists(ctx, candidate)
		})
		if err != nil {
			return err
		}
		employee.Username = username
		return tx.Employee.Create(ctx, employee)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityEmployee,
		Description: "Empleado registrado",
		Comment:     employeeRecordComment(employee),
		EntityID:    employee.ID,
		Action:      entity.AuditActionCreate,
		EmployeeID:  actorID,
	}, now)

	s.log.Info("Employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("username", employee.Username),
		zap.String("role", string(employee.Role)))

	resp := response.EmployeeToResponse(employee)
	return &resp, nil
}

func (s *employeeService) UpdateStatus(ctx context.Context, actorID, employeeID uuid.UUID, req *request.UpdateEmployeeStatusRequest) (*response.EmployeeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	status := entity.EmployeeStatus(req.Status)
	if actorID == employeeID && status == entity.StatusInactive {
		return nil, fmt.Errorf("%w: employees cannot deactivate themselves", ErrValidation)
	}

	now := s.now()
	if err := s.repo.Employee.UpdateStatus(ctx, employeeID, status, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("employee %s: %w", employeeID, ErrNotFound)
		}
		return nil, err
	}

	employee, err := s.repo.Employee.FindByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("employee %s: %w", employeeID, ErrNotFound)
	}

	recordAudit(ctx, s.repo.Audit, s.log, &entity.AuditEntry{
		Activity:    entity.AuditActivityEmployee,
		Description: "Empleado actualizado",
		Comment:     employeeRecordComment(employee) + ", Estado: " + string(employee.Status),
		EntityID:    employee.ID,
		Action:      entity.AuditActionUpdate,
		EmployeeID:  actorID,
	}, now)

	s.log.Info("Employee status updated",
		zap.String("employee_id", employee.ID.String()),
		zap.String("status", string(employee.Status)))

	resp := response.EmployeeToResponse(employee)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func employeeRecordComment(e *entity.Employee) string {
	return fmt.Sprintf("Nombre: %s %s, DNI: %s, Usuario: %s", e.FirstName, e.LastName, e.DNI, e.Username)
}

// generateUsername builds the initial of the first name plus the first last
// name. On a clash it appends letters of the second last name one at a time,
// then the whole second last name and a counter.
func generateUsername(firstName, lastName string, taken func(string) (bool, error)) (string, error) {
	names := strings.Fields(strings.ToLower(firstName))
	surnames := strings.Fields(strings.ToLower(lastName))
	if len(names) == 0 || len(surnames) == 0 {
		return "", fmt.Errorf("%w: first and last name are required", ErrValidation)
	}

	base := string([]rune(names[0])[:1]) + surnames[0]
	var second []rune
	if len(surnames) > 1 {
		second = []rune(surnames[1])
	}

	candidate := base
	extra, counter := 0, 1
	for {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}

		if extra < len(second) {
			extra++
			candidate = base + string(second[:extra])
		} else {
			candidate = base + string(second) + strconv.Itoa(counter)
			counter++
		}
	}
}
