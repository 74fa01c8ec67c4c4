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

func TestShiftTradeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftTradeRepository(db)

	mock.ExpectExec("INSERT INTO shift_trades").
		WillReturnResult(sqlmock.NewResult(1, 1))

	trade := &models.ShiftTrade{
		RequestingEmployeeID:  "e1",
		TargetEmployeeID:      "e2",
		RequestedAssignmentID: "a1",
		TargetAssignmentID:    "a2",
	}
	require.NoError(t, repo.Create(context.Background(), trade))
	assert.Equal(t, models.TradePending, trade.Status)
	assert.NotEmpty(t, trade.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftTradeRepositoryApproveInTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftTradeRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE shift_trades SET status").
		WithArgs("t1", models.TradeApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(context.Background(), tx, "t1", models.TradeApproved, time.Now()))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftTradeRepositoryListByEmployee(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewShiftTradeRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "requesting_employee_id", "target_employee_id", "requested_assignment_id",
		"target_assignment_id", "reason", "status", "approved_at", "created_at",
	}).AddRow("t1", "e1", "e2", "a1", "a2", "", "PENDING", nil, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM shift_trades").
		WithArgs("e1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT(.+) FROM shift_trades").
		WithArgs("e1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TradeFilter{EmployeeID: "e1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
