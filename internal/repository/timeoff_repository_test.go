package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

func timeOffRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "employee_id", "employee_name", "start_date", "end_date",
		"scope", "status", "reason", "approved_at", "created_at",
	}).AddRow("r1", "e1", "Ada", time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 9, 0, 0, 0, 0, time.UTC), "BOTH", "APPROVED", "leave", time.Now(), time.Now())
}

func TestTimeOffRepositoryCreateDefaultsPending(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeOffRepository(db)

	mock.ExpectExec("INSERT INTO time_off_requests").
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := &models.TimeOffRequest{EmployeeID: "e1", StartDate: time.Now(), EndDate: time.Now(), Scope: models.ScopeBoth}
	require.NoError(t, repo.Create(context.Background(), req))
	assert.Equal(t, models.TimeOffPending, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeOffRepositoryListApprovedOverlapping(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeOffRepository(db)

	start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	mock.ExpectQuery("SELECT (.+) FROM time_off_requests t").
		WithArgs(models.TimeOffApproved, end, start).
		WillReturnRows(timeOffRows())

	list, err := repo.ListApprovedOverlapping(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.TimeOffApproved, list[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeOffRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimeOffRepository(db)

	mock.ExpectExec("UPDATE time_off_requests SET status").
		WithArgs("ghost", models.TimeOffDenied, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.Error(t, repo.UpdateStatus(context.Background(), "ghost", models.TimeOffDenied, time.Now()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
