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

func TestExportJobRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	mock.ExpectExec("INSERT INTO export_jobs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	job := &models.ExportJob{Params: models.ExportJobParams{StartDate: "2025-10-06", EndDate: "2025-10-12", Format: models.ExportFormatXLSX}}
	require.NoError(t, repo.Create(context.Background(), job))
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	rows := sqlmock.NewRows([]string{"id", "params", "status", "progress", "result_url", "created_at", "finished_at", "error_message"}).
		AddRow(job.ID, []byte(`{"startDate":"2025-10-06","endDate":"2025-10-12","format":"xlsx"}`), "QUEUED", 0, nil, time.Now(), nil, nil)
	mock.ExpectQuery("SELECT (.+) FROM export_jobs WHERE id").
		WithArgs(job.ID).
		WillReturnRows(rows)

	loaded, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFormatXLSX, loaded.Params.Format)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	status := models.ExportStatusFinished
	url := "/exports/rota.xlsx"
	finished := time.Now().UTC()
	mock.ExpectExec("UPDATE export_jobs SET").
		WithArgs(status, url, finished, "j1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "j1", UpdateExportJobParams{Status: &status, ResultURL: &url, FinishedAt: &finished})
	require.NoError(t, err)

	require.NoError(t, repo.Update(context.Background(), "j1", UpdateExportJobParams{}), "no fields means no round trip")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExportJobRepositoryPrune(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewExportJobRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec("DELETE FROM export_jobs WHERE status IN").
		WithArgs(models.ExportStatusFinished, models.ExportStatusFailed, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	pruned, err := repo.DeleteFinishedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.EqualValues(t, 3, pruned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
