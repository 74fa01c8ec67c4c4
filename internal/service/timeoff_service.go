package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
)

type timeOffStore interface {
	Create(ctx context.Context, req *models.TimeOffRequest) error
	FindByID(ctx context.Context, id string) (*models.TimeOffRequest, error)
	UpdateStatus(ctx context.Context, id string, status models.TimeOffStatus, decidedAt time.Time) error
	List(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRequest, int, error)
}

type employeeReader interface {
	FindByID(ctx context.Context, id string) (*models.Employee, error)
}

// TimeOffService manages the absence request lifecycle.
type TimeOffService struct {
	repo      timeOffStore
	employees employeeReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeOffService builds a TimeOffService.
func NewTimeOffService(repo timeOffStore, employees employeeReader, validate *validator.Validate, logger *zap.Logger) *TimeOffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeOffService{repo: repo, employees: employees, validator: validate, logger: logger}
}

// Create records a pending absence request for an existing employee.
func (s *TimeOffService) Create(ctx context.Context, req dto.CreateTimeOffRequest) (*models.TimeOffRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time off request")
	}
	start, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}

	emp, err := s.employees.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load employee")
	}
	if !emp.Active {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee is inactive")
	}

	record := &models.TimeOffRequest{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Scope:      models.AbsenceScope(req.Scope),
		Status:     models.TimeOffPending,
		Reason:     req.Reason,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create time off request")
	}
	record.EmployeeName = emp.Name
	return record, nil
}

// Decide transitions a pending request to approved or denied.
func (s *TimeOffService) Decide(ctx context.Context, id string, req dto.DecideTimeOffRequest) (*models.TimeOffRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load time off request")
	}
	if record.Status != models.TimeOffPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request already decided")
	}

	status := models.TimeOffStatus(req.Status)
	decidedAt := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, status, decidedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update time off status")
	}
	record.Status = status
	record.ApprovedAt = &decidedAt
	s.logger.Info("time off decided", zap.String("request_id", id), zap.String("status", req.Status))
	return record, nil
}

// List returns absence requests matching the query with a pagination total.
func (s *TimeOffService) List(ctx context.Context, query dto.TimeOffQuery) ([]models.TimeOffRequest, int, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time off query")
	}
	limit, offset := pageBounds(query.Page, query.PageSize)
	list, total, err := s.repo.List(ctx, models.TimeOffFilter{
		EmployeeID: query.EmployeeID,
		Status:     models.TimeOffStatus(query.Status),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list time off requests")
	}
	return list, total, nil
}
