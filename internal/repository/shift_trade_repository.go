package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

const tradeColumns = `id, requesting_employee_id, target_employee_id, requested_assignment_id,
       target_assignment_id, reason, status, approved_at, created_at`

// ShiftTradeRepository persists trade proposals.
type ShiftTradeRepository struct {
	db *sqlx.DB
}

// NewShiftTradeRepository constructs the repository.
func NewShiftTradeRepository(db *sqlx.DB) *ShiftTradeRepository {
	return &ShiftTradeRepository{db: db}
}

func (r *ShiftTradeRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a pending trade.
func (r *ShiftTradeRepository) Create(ctx context.Context, trade *models.ShiftTrade) error {
	if trade.ID == "" {
		trade.ID = uuid.NewString()
	}
	if trade.Status == "" {
		trade.Status = models.TradePending
	}
	if trade.CreatedAt.IsZero() {
		trade.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO shift_trades
	(id, requesting_employee_id, target_employee_id, requested_assignment_id, target_assignment_id, reason, status, approved_at, created_at)
	VALUES (:id, :requesting_employee_id, :target_employee_id, :requested_assignment_id, :target_assignment_id, :reason, :status, :approved_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, trade); err != nil {
		return fmt.Errorf("create shift trade: %w", err)
	}
	return nil
}

// FindByID returns one trade row.
func (r *ShiftTradeRepository) FindByID(ctx context.Context, id string) (*models.ShiftTrade, error) {
	query := `SELECT ` + tradeColumns + ` FROM shift_trades WHERE id = $1`
	var trade models.ShiftTrade
	if err := r.db.GetContext(ctx, &trade, query, id); err != nil {
		return nil, err
	}
	return &trade, nil
}

// UpdateStatus transitions a trade inside the caller's transaction when the
// decision also mutates assignments.
func (r *ShiftTradeRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id string, status models.TradeStatus, decidedAt time.Time) error {
	const query = `UPDATE shift_trades SET status = $2, approved_at = $3 WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query, id, status, decidedAt)
	if err != nil {
		return fmt.Errorf("update shift trade status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check shift trade update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns trades involving either side of the filter employee.
func (r *ShiftTradeRepository) List(ctx context.Context, filter models.TradeFilter) ([]models.ShiftTrade, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("(requesting_employee_id = $%d OR target_employee_id = $%d)", len(args), len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + tradeColumns + ` FROM shift_trades` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", limit, offset)
	var list []models.ShiftTrade
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list shift trades: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM shift_trades"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count shift trades: %w", err)
	}
	return list, total, nil
}
