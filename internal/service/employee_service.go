package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
)

type employeeStore interface {
	Create(ctx context.Context, emp *models.Employee) error
	Update(ctx context.Context, emp *models.Employee) error
	FindByID(ctx context.Context, id string) (*models.Employee, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	Deactivate(ctx context.Context, id string) error
}

// EmployeeService manages the roster.
type EmployeeService struct {
	repo      employeeStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEmployeeService builds an EmployeeService.
func NewEmployeeService(repo employeeStore, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, validator: validate, logger: logger}
}

// Create adds an employee, enforcing email uniqueness.
func (s *EmployeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "check employee email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	emp := &models.Employee{
		Name:               req.Name,
		Email:              req.Email,
		Mode:               models.EligibilityMode(req.Mode),
		TargetHours:        req.TargetHours,
		MaxHours:           req.MaxHours,
		BlackoutDays:       req.BlackoutDays,
		MinRestHours:       req.MinRestHours,
		MaxConsecutiveDays: req.MaxConsecutiveDays,
		Active:             true,
	}
	if emp.MinRestHours <= 0 {
		emp.MinRestHours = 10
	}
	if emp.MaxConsecutiveDays <= 0 {
		emp.MaxConsecutiveDays = 5
	}
	if err := s.repo.Create(ctx, emp); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create employee")
	}
	s.logger.Info("employee created", zap.String("employee_id", emp.ID))
	return emp, nil
}

// Update applies a partial update to an employee row.
func (s *EmployeeService) Update(ctx context.Context, id string, req dto.UpdateEmployeeRequest) (*models.Employee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load employee")
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil && *req.Email != emp.Email {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "check employee email")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
		emp.Email = *req.Email
	}
	if req.Mode != nil {
		emp.Mode = models.EligibilityMode(*req.Mode)
	}
	if req.TargetHours != nil {
		emp.TargetHours = *req.TargetHours
	}
	if req.MaxHours != nil {
		emp.MaxHours = *req.MaxHours
	}
	if req.BlackoutDays != nil {
		emp.BlackoutDays = *req.BlackoutDays
	}
	if req.MinRestHours != nil {
		emp.MinRestHours = *req.MinRestHours
	}
	if req.MaxConsecutiveDays != nil {
		emp.MaxConsecutiveDays = *req.MaxConsecutiveDays
	}
	if req.Active != nil {
		emp.Active = *req.Active
	}
	if emp.MaxHours < emp.TargetHours {
		return nil, appErrors.Clone(appErrors.ErrValidation, "maxHours must not be below targetHours")
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update employee")
	}
	return emp, nil
}

// Get returns one employee.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load employee")
	}
	return emp, nil
}

// List pages through the roster.
func (s *EmployeeService) List(ctx context.Context, query dto.EmployeeQuery) ([]models.Employee, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee query")
	}
	limit, offset := pageBounds(query.Page, query.PageSize)
	list, total, err := s.repo.List(ctx, models.EmployeeFilter{
		Active: query.Active,
		Mode:   models.EligibilityMode(query.Mode),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list employees")
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	return list, &models.Pagination{Page: page, PageSize: limit, TotalCount: total}, nil
}

// Deactivate soft-removes an employee from future generation runs.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "deactivate employee")
	}
	s.logger.Info("employee deactivated", zap.String("employee_id", id))
	return nil
}
