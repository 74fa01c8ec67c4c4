package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/dto"
	"github.com/calloway-health/pbx-rota-api/internal/models"
)

type timeOffStoreStub struct {
	records map[string]*models.TimeOffRequest
}

func newTimeOffStoreStub() *timeOffStoreStub {
	return &timeOffStoreStub{records: map[string]*models.TimeOffRequest{}}
}

func (s *timeOffStoreStub) Create(ctx context.Context, req *models.TimeOffRequest) error {
	if req.ID == "" {
		req.ID = "r1"
	}
	if req.Status == "" {
		req.Status = models.TimeOffPending
	}
	s.records[req.ID] = req
	return nil
}

func (s *timeOffStoreStub) FindByID(ctx context.Context, id string) (*models.TimeOffRequest, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *rec
	return &copied, nil
}

func (s *timeOffStoreStub) UpdateStatus(ctx context.Context, id string, status models.TimeOffStatus, decidedAt time.Time) error {
	rec, ok := s.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	rec.Status = status
	rec.ApprovedAt = &decidedAt
	return nil
}

func (s *timeOffStoreStub) List(ctx context.Context, filter models.TimeOffFilter) ([]models.TimeOffRequest, int, error) {
	var out []models.TimeOffRequest
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	return out, len(out), nil
}

type employeeReaderStub struct {
	employees map[string]*models.Employee
}

func (s *employeeReaderStub) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	emp, ok := s.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return emp, nil
}

const timeOffEmployeeID = "2a7b7f60-47cc-4b19-b0b4-5a1c1e6f9201"

func newTimeOffFixture(active bool) (*TimeOffService, *timeOffStoreStub) {
	store := newTimeOffStoreStub()
	employees := &employeeReaderStub{employees: map[string]*models.Employee{
		timeOffEmployeeID: {ID: timeOffEmployeeID, Name: "Ada", Active: active},
	}}
	return NewTimeOffService(store, employees, nil, zap.NewNop()), store
}

func TestTimeOffServiceCreate(t *testing.T) {
	svc, _ := newTimeOffFixture(true)

	rec, err := svc.Create(context.Background(), dto.CreateTimeOffRequest{
		EmployeeID: timeOffEmployeeID,
		StartDate:  "2025-10-08",
		EndDate:    "2025-10-09",
		Scope:      "BOTH",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TimeOffPending, rec.Status)
	assert.Equal(t, "Ada", rec.EmployeeName)
}

func TestTimeOffServiceCreateRejections(t *testing.T) {
	svc, _ := newTimeOffFixture(true)

	_, err := svc.Create(context.Background(), dto.CreateTimeOffRequest{
		EmployeeID: timeOffEmployeeID, StartDate: "2025-10-09", EndDate: "2025-10-08", Scope: "DAY",
	})
	assert.Error(t, err, "inverted range")

	_, err = svc.Create(context.Background(), dto.CreateTimeOffRequest{
		EmployeeID: "2a7b7f60-47cc-4b19-b0b4-5a1c1e6f9999", StartDate: "2025-10-08", EndDate: "2025-10-09", Scope: "DAY",
	})
	assert.Error(t, err, "unknown employee")

	inactive, _ := newTimeOffFixture(false)
	_, err = inactive.Create(context.Background(), dto.CreateTimeOffRequest{
		EmployeeID: timeOffEmployeeID, StartDate: "2025-10-08", EndDate: "2025-10-09", Scope: "DAY",
	})
	assert.Error(t, err, "inactive employee")
}

func TestTimeOffServiceDecide(t *testing.T) {
	svc, _ := newTimeOffFixture(true)

	rec, err := svc.Create(context.Background(), dto.CreateTimeOffRequest{
		EmployeeID: timeOffEmployeeID, StartDate: "2025-10-08", EndDate: "2025-10-09", Scope: "NIGHT",
	})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), rec.ID, dto.DecideTimeOffRequest{Status: "APPROVED"})
	require.NoError(t, err)
	assert.Equal(t, models.TimeOffApproved, decided.Status)
	require.NotNil(t, decided.ApprovedAt)

	_, err = svc.Decide(context.Background(), rec.ID, dto.DecideTimeOffRequest{Status: "DENIED"})
	assert.Error(t, err, "already decided")
}
