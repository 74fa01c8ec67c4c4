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

const employeeColumns = `id, name, email, eligibility_mode, target_hours, max_hours, blackout_days,
       min_rest_hours, max_consecutive_days, active, created_at, updated_at`

// EmployeeRepository handles roster persistence.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new roster row with generated defaults.
func (r *EmployeeRepository) Create(ctx context.Context, emp *models.Employee) error {
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now
	const query = `INSERT INTO employees
	(id, name, email, eligibility_mode, target_hours, max_hours, blackout_days, min_rest_hours, max_consecutive_days, active, created_at, updated_at)
	VALUES (:id, :name, :email, :eligibility_mode, :target_hours, :max_hours, :blackout_days, :min_rest_hours, :max_consecutive_days, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// Update persists the full employee row.
func (r *EmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	emp.UpdatedAt = time.Now().UTC()
	const query = `UPDATE employees SET
	name = :name, email = :email, eligibility_mode = :eligibility_mode,
	target_hours = :target_hours, max_hours = :max_hours, blackout_days = :blackout_days,
	min_rest_hours = :min_rest_hours, max_consecutive_days = :max_consecutive_days,
	active = :active, updated_at = :updated_at
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, emp)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check employee update rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindByID retrieves one employee row.
func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ExistsByEmail reports whether an employee already uses the address.
func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM employees WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, query, email)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check employee email: %w", err)
	}
	return true, nil
}

// List returns employees applying filters plus a total count for pagination.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)

	if filter.Active != nil {
		args = append(args, *filter.Active)
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)))
	}
	if filter.Mode != "" {
		args = append(args, filter.Mode)
		conditions = append(conditions, fmt.Sprintf("eligibility_mode = $%d", len(args)))
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

	query := `SELECT ` + employeeColumns + ` FROM employees` + where +
		fmt.Sprintf(" ORDER BY name ASC LIMIT %d OFFSET %d", limit, offset)
	var list []models.Employee
	if err := r.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM employees"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return list, total, nil
}

// ListActive returns the full active roster used by rota generation.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE active = TRUE ORDER BY name ASC`
	var list []models.Employee
	if err := r.db.SelectContext(ctx, &list, query); err != nil {
		return nil, fmt.Errorf("list active employees: %w", err)
	}
	return list, nil
}

// Deactivate soft-removes an employee from future rota runs.
func (r *EmployeeRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE employees SET active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check employee deactivate rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
