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

const timeOffColumns = `t.id, t.employee_id, e.name AS employee_name, t.start_date, t.end_date,
       t.scope, t.status, t.reason, t.approved_at, t.created_at`

// TimeOffRepository persists absence requests.
type TimeOffRepository struct {
	db *sqlx.DB
}

// NewTimeOffRepository constructs the repository.
func NewTimeOffRepository(db *sqlx.DB) *TimeOffRepository {
	return &TimeOffRepository{db: db}
}

// Create inserts a pending request.
func (r *TimeOffRepository) Create(ctx context.Context, req *models.TimeOffRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Status == "" {
		req.Status = models.TimeOffPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO time_off_requests (id, employee_id, start_date, end_date, scope, status, reason, approved_at, created_at)
	VALUES (:id, :employee_id, :start_date, :end_date, :scope, :status, :reason, :approved_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create time off request: %w", err)
	}
	return nil
}

// FindByID returns one request with the employee name resolved.
func (r *TimeOffRepository) FindByID(ctx context.Context, id string) (*models.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests t
	JOIN employees e ON e.id = t.employee_id WHERE t.id = $1`
	var req models.TimeOffRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// UpdateStatus transitions a request, stamping the decision time.
func (r *TimeOffRepository) UpdateStatus(ctx context.Context, id string, status models.TimeOffStatus, decidedAt time.Time) error {
	const query = `UPDATE time_off_requests SET status = $2, approved_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, decidedAt)
	if err != nil {
		return fmt.Errorf("update time off status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check time off update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns requests matching the filter with a pagination total.
func (r *TimeOffRepository) List(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRequest, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("t.employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
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

	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests t
	JOIN employees e ON e.id = t.employee_id` + where +
		fmt.Sprintf(" ORDER BY t.start_date DESC LIMIT %d OFFSET %d", limit, offset)
	var list []models.TimeOffRequest
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list time off requests: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM time_off_requests t"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count time off requests: %w", err)
	}
	return list, total, nil
}

// ListApprovedOverlapping returns approved requests whose inclusive range
// touches [start, end]; rota generation treats them as hard blocks.
func (r *TimeOffRepository) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]models.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + ` FROM time_off_requests t
	JOIN employees e ON e.id = t.employee_id
	WHERE t.status = $1 AND t.start_date <= $2 AND t.end_date >= $3
	ORDER BY t.start_date ASC`
	var list []models.TimeOffRequest
	if err := r.db.SelectContext(ctx, &list, query, models.TimeOffApproved, end, start); err != nil {
		return nil, fmt.Errorf("list approved time off: %w", err)
	}
	return list, nil
}
