package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	appErrors "github.com/calloway-health/pbx-rota-api/pkg/errors"
)

type tradeStore interface {
	Create(ctx context.Context, trade *models.ShiftTrade) error
	FindByID(ctx context.Context, id string) (*models.ShiftTrade, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TradeStatus, decidedAt time.Time) error
	List(ctx context.Context, filter models.TradeFilter) ([]models.ShiftTrade, int, error)
}

type tradeAssignmentStore interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ReassignEmployee(ctx context.Context, exec sqlx.ExtContext, assignmentID, employeeID string) error
}

// TradeService manages shift trade proposals and executes approved swaps.
type TradeService struct {
	db          txBeginner
	trades      tradeStore
	assignments tradeAssignmentStore
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewTradeService builds a TradeService.
func NewTradeService(db txBeginner, trades tradeStore, assignments tradeAssignmentStore, validate *validator.Validate, logger *zap.Logger) *TradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradeService{
		db:          db,
		trades:      trades,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Propose validates ownership and timing, then records a pending trade.
func (s *TradeService) Propose(ctx context.Context, req dto.CreateTradeRequest) (*models.ShiftTrade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trade request")
	}
	requested, target, err := s.loadPair(ctx, req.RequestedAssignmentID, req.TargetAssignmentID)
	if err != nil {
		return nil, err
	}
	if requested.EmployeeID != req.RequestingEmployeeID || target.EmployeeID != req.TargetEmployeeID {
		return nil, appErrors.ErrOwnershipMismatch
	}
	if err := s.checkNotPast(requested, target); err != nil {
		return nil, err
	}

	trade := &models.ShiftTrade{
		RequestingEmployeeID:  req.RequestingEmployeeID,
		TargetEmployeeID:      req.TargetEmployeeID,
		RequestedAssignmentID: req.RequestedAssignmentID,
		TargetAssignmentID:    req.TargetAssignmentID,
		Reason:                req.Reason,
		Status:                models.TradePending,
	}
	if err := s.trades.Create(ctx, trade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create shift trade")
	}
	s.logger.Info("shift trade proposed",
		zap.String("trade_id", trade.ID),
		zap.String("requesting_employee", trade.RequestingEmployeeID),
		zap.String("target_employee", trade.TargetEmployeeID))
	return trade, nil
}

// Decide resolves a pending trade. An approval swaps both assignments and
// flips the status in one transaction, so the rota never shows a half-done
// trade.
func (s *TradeService) Decide(ctx context.Context, id string, req dto.DecideTradeRequest) (*models.ShiftTrade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trade decision")
	}
	trade, err := s.trades.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load shift trade")
	}
	if trade.Status != models.TradePending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "trade already decided")
	}
	decidedAt := s.now()

	if req.Status == string(models.TradeDenied) {
		if err := s.trades.UpdateStatus(ctx, nil, id, models.TradeDenied, decidedAt); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "deny shift trade")
		}
		trade.Status = models.TradeDenied
		trade.ApprovedAt = &decidedAt
		return trade, nil
	}

	requested, target, err := s.loadPair(ctx, trade.RequestedAssignmentID, trade.TargetAssignmentID)
	if err != nil {
		return nil, err
	}
	// Ownership can have drifted since the proposal, e.g. through another
	// approved trade or a regeneration of the window.
	if requested.EmployeeID != trade.RequestingEmployeeID || target.EmployeeID != trade.TargetEmployeeID {
		return nil, appErrors.ErrOwnershipMismatch
	}
	if err := s.checkNotPast(requested, target); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "begin trade transaction")
	}
	if err := s.assignments.ReassignEmployee(ctx, tx, requested.ID, trade.TargetEmployeeID); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "swap requested assignment")
	}
	if err := s.assignments.ReassignEmployee(ctx, tx, target.ID, trade.RequestingEmployeeID); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "swap target assignment")
	}
	if err := s.trades.UpdateStatus(ctx, tx, id, models.TradeApproved, decidedAt); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "approve shift trade")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "commit trade transaction")
	}

	trade.Status = models.TradeApproved
	trade.ApprovedAt = &decidedAt
	s.logger.Info("shift trade approved", zap.String("trade_id", trade.ID))
	return trade, nil
}

// List returns trades matching the filter with a pagination total.
func (s *TradeService) List(ctx context.Context, query dto.TradeQuery) ([]models.ShiftTrade, int, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trade query")
	}
	limit, offset := pageBounds(query.Page, query.PageSize)
	list, total, err := s.trades.List(ctx, models.TradeFilter{
		EmployeeID: query.EmployeeID,
		Status:     models.TradeStatus(query.Status),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list shift trades")
	}
	return list, total, nil
}

func (s *TradeService) loadPair(ctx context.Context, requestedID, targetID string) (*models.Assignment, *models.Assignment, error) {
	requested, err := s.assignments.FindByID(ctx, requestedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "requested assignment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load requested assignment")
	}
	target, err := s.assignments.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "target assignment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load target assignment")
	}
	return requested, target, nil
}

func (s *TradeService) checkNotPast(assignments ...*models.Assignment) error {
	today := s.now().Truncate(24 * time.Hour)
	for _, a := range assignments {
		if a.Date.Before(today) {
			return appErrors.ErrShiftInPast
		}
	}
	return nil
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = 50
	}
	if page <= 0 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
