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

const assignmentColumns = `a.id, a.employee_id, e.name AS employee_name, a.shift_date, a.period, a.role,
       a.start_time, a.end_time, a.hours, a.is_overtime, a.is_coverage_fallback, a.created_at`

// AssignmentRepository persists published rota assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteRange removes every assignment dated inside [start, end] so a
// regeneration replaces the window atomically with its inserts.
func (r *AssignmentRepository) DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time) error {
	const query = `DELETE FROM assignments WHERE shift_date >= $1 AND shift_date <= $2`
	if _, err := r.exec(exec).ExecContext(ctx, query, start, end); err != nil {
		return fmt.Errorf("delete assignment range: %w", err)
	}
	return nil
}

// BulkCreate inserts generated assignments, assigning ids and timestamps.
func (r *AssignmentRepository) BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range assignments {
		if assignments[i].ID == "" {
			assignments[i].ID = uuid.NewString()
		}
		if assignments[i].CreatedAt.IsZero() {
			assignments[i].CreatedAt = now
		}
	}
	const query = `INSERT INTO assignments
	(id, employee_id, shift_date, period, role, start_time, end_time, hours, is_overtime, is_coverage_fallback, created_at)
	VALUES (:id, :employee_id, :shift_date, :period, :role, :start_time, :end_time, :hours, :is_overtime, :is_coverage_fallback, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, assignments); err != nil {
		return fmt.Errorf("insert assignments: %w", err)
	}
	return nil
}

// FindByID retrieves one assignment with the employee name resolved.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments a
	JOIN employees e ON e.id = a.employee_id WHERE a.id = $1`
	var a models.Assignment
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns assignments matching the filter, ordered for stable display.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conditions = append(conditions, fmt.Sprintf("a.shift_date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conditions = append(conditions, fmt.Sprintf("a.shift_date <= $%d", len(args)))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}

	query := `SELECT ` + assignmentColumns + ` FROM assignments a
	JOIN employees e ON e.id = a.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.shift_date ASC, a.start_time ASC, a.role ASC"

	var list []models.Assignment
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return list, nil
}

// ListBetween returns assignments dated inside [start, end], used to seed the
// hours ledger from earlier-in-week publications.
func (r *AssignmentRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.Assignment, error) {
	startPtr, endPtr := start, end
	return r.List(ctx, models.AssignmentFilter{StartDate: &startPtr, EndDate: &endPtr})
}

// ReassignEmployee points an assignment at a different employee. Used by
// approved shift trades inside their transaction.
func (r *AssignmentRepository) ReassignEmployee(ctx context.Context, exec sqlx.ExtContext, assignmentID, employeeID string) error {
	const query = `UPDATE assignments SET employee_id = $2 WHERE id = $1`
	res, err := r.exec(exec).ExecContext(ctx, query, assignmentID, employeeID)
	if err != nil {
		return fmt.Errorf("reassign assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check reassign rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
