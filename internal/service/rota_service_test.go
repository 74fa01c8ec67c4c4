package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/internal/scheduling"
)

func newTxMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

type rosterStub struct {
	roster []models.Employee
	err    error
}

func (s *rosterStub) ListActive(ctx context.Context) ([]models.Employee, error) {
	return s.roster, s.err
}

type assignmentStoreStub struct {
	deleted   bool
	created   []models.Assignment
	published []models.Assignment
	listed    []models.Assignment
}

func (s *assignmentStoreStub) DeleteRange(ctx context.Context, exec sqlx.ExtContext, start, end time.Time) error {
	s.deleted = true
	return nil
}

func (s *assignmentStoreStub) BulkCreate(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	s.created = assignments
	return nil
}

func (s *assignmentStoreStub) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	return s.listed, nil
}

func (s *assignmentStoreStub) ListBetween(ctx context.Context, start, end time.Time) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range append(append([]models.Assignment{}, s.published...), s.created...) {
		if a.Date.Before(start) || a.Date.After(end) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type absenceStub struct {
	records []models.TimeOffRequest
}

func (s *absenceStub) ListApprovedOverlapping(ctx context.Context, start, end time.Time) ([]models.TimeOffRequest, error) {
	return s.records, nil
}

func rotaRoster(n int) []models.Employee {
	roster := make([]models.Employee, 0, n)
	for i := 0; i < n; i++ {
		roster = append(roster, models.Employee{
			ID:                 string(rune('a' + i)),
			Name:               string(rune('A' + i)),
			Mode:               models.EligibilityEither,
			TargetHours:        40,
			MaxHours:           60,
			MinRestHours:       8,
			MaxConsecutiveDays: 7,
			Active:             true,
		})
	}
	return roster
}

func newTestRotaService(t *testing.T, db *sqlx.DB, store *assignmentStoreStub) *RotaService {
	return NewRotaService(
		db,
		&rosterStub{roster: rotaRoster(14)},
		store,
		&absenceStub{},
		scheduling.NewEngine(zap.NewNop()),
		nil,
		nil,
		nil,
		zap.NewNop(),
		RotaServiceConfig{MaxWeeks: 4},
	)
}

func TestRotaServiceGeneratePublishesAtomically(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()
	store := &assignmentStoreStub{}
	svc := newTestRotaService(t, db, store)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "2025-10-06", Weeks: 1})
	require.NoError(t, err)

	assert.True(t, store.deleted, "previous window cleared in the same transaction")
	assert.Len(t, store.created, 5*9+2*7)
	assert.Empty(t, resp.Unfilled)
	assert.NotEmpty(t, resp.Violations, "staggered night templates leave thin windows")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotaServiceGenerateIgnoresAbsencesOffRoster(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()
	store := &assignmentStoreStub{}
	absences := &absenceStub{records: []models.TimeOffRequest{{
		ID:         "t1",
		EmployeeID: "deactivated-emp",
		StartDate:  time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
		Scope:      models.ScopeBoth,
		Status:     models.TimeOffApproved,
	}}}
	svc := NewRotaService(
		db,
		&rosterStub{roster: rotaRoster(14)},
		store,
		absences,
		scheduling.NewEngine(zap.NewNop()),
		nil,
		nil,
		nil,
		zap.NewNop(),
		RotaServiceConfig{MaxWeeks: 4},
	)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "2025-10-06", Weeks: 1})
	require.NoError(t, err, "approved leave for a deactivated employee must not abort the run")
	assert.Len(t, resp.Assignments, 5*9+2*7)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotaServiceGenerateAuditsAcrossWindowBoundary(t *testing.T) {
	db, mock, cleanup := newTxMock(t)
	defer cleanup()
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	store := &assignmentStoreStub{published: []models.Assignment{
		{ID: "n1", EmployeeID: "l", Date: monday, Role: "N1", StartTime: "19:00", EndTime: "05:30", Hours: 10.5, Period: models.PeriodNight},
		{ID: "n2", EmployeeID: "m", Date: monday, Role: "N2", StartTime: "21:30", EndTime: "08:00", Hours: 10.5, Period: models.PeriodNight},
		{ID: "n3", EmployeeID: "n", Date: monday, Role: "N3", StartTime: "19:00", EndTime: "07:00", Hours: 12, Period: models.PeriodNight},
	}}
	svc := newTestRotaService(t, db, store)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "2025-10-07", Weeks: 1})
	require.NoError(t, err)

	// Monday's published night crew covers Tuesday until 05:30; the report
	// must not flag those early samples.
	sawThinWindow := false
	for _, v := range resp.Violations {
		if !v.Date.Equal(tuesday) {
			continue
		}
		assert.GreaterOrEqual(t, v.Time, "05:30", "covered early morning flagged as a gap")
		if v.Time == "05:30" {
			sawThinWindow = true
		}
	}
	assert.True(t, sawThinWindow, "audit still reports the staffed-but-thin 05:30 window")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotaServiceGenerateValidation(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()
	svc := newTestRotaService(t, db, &assignmentStoreStub{})

	_, err := svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "not-a-date", Weeks: 1})
	assert.Error(t, err)

	_, err = svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "2025-10-06", Weeks: 0})
	assert.Error(t, err)

	_, err = svc.Generate(context.Background(), dto.GenerateRotaRequest{StartDate: "2025-10-06", Weeks: 9})
	assert.Error(t, err, "horizon above the configured cap")
}

func TestRotaServiceListAssignments(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()
	store := &assignmentStoreStub{listed: []models.Assignment{{ID: "a1"}}}
	svc := newTestRotaService(t, db, store)

	list, err := svc.ListAssignments(context.Background(), dto.AssignmentQuery{StartDate: "2025-10-06"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.ListAssignments(context.Background(), dto.AssignmentQuery{StartDate: "06/10/2025"})
	assert.Error(t, err)
}

func TestRotaServiceCoverageReport(t *testing.T) {
	db, _, cleanup := newTxMock(t)
	defer cleanup()
	date := time.Date(2025, 10, 7, 0, 0, 0, 0, time.UTC)
	store := &assignmentStoreStub{published: []models.Assignment{
		{ID: "d1", EmployeeID: "e1", Date: date, Role: "D1", StartTime: "07:00", EndTime: "19:00", Period: models.PeriodDay},
	}}
	svc := newTestRotaService(t, db, store)

	resp, err := svc.CoverageReport(context.Background(), dto.CoverageReportQuery{StartDate: "2025-10-07", Days: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Days)
	assert.NotEmpty(t, resp.Violations, "single operator cannot meet headcount")
}
