package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

// fullRoster is large enough to satisfy rest and streak constraints for a
// whole week of day and night coverage.
func fullRoster(n int) []models.Employee {
	roster := make([]models.Employee, 0, n)
	for i := 0; i < n; i++ {
		emp := testEmployee(fmt.Sprintf("e%02d", i), fmt.Sprintf("Operator %02d", i))
		emp.MinRestHours = 8
		emp.MaxConsecutiveDays = 7
		emp.MaxHours = 60
		roster = append(roster, emp)
	}
	return roster
}

func TestGenerateFillsFullWeek(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(zap.NewNop())

	result, err := engine.Generate(Request{Roster: fullRoster(14), Start: monday, Weeks: 1})
	require.NoError(t, err)

	// Five weekdays carry nine slots, the weekend seven each.
	assert.Empty(t, result.Unfilled)
	assert.Len(t, result.Assignments, 5*9+2*7)

	seen := make(map[string]bool)
	for _, a := range result.Assignments {
		key := a.EmployeeID + a.Date.Format("2006-01-02")
		assert.False(t, seen[key], "employee %s double-booked on %s", a.EmployeeID, a.Date)
		seen[key] = true
	}
}

func TestGenerateSundayStartWeek(t *testing.T) {
	sunday := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(zap.NewNop())

	roster := fullRoster(14)
	roster[0].Mode = models.EligibilityNightOnly
	roster[1].Mode = models.EligibilityDayOnly

	result, err := engine.Generate(Request{Roster: roster, Start: sunday, Weeks: 1})
	require.NoError(t, err)

	// Sunday and Saturday carry seven slots, the five weekdays nine each,
	// even though the horizon opens in the prior ISO week.
	assert.Len(t, result.Assignments, 5*9+2*7)
	assert.Empty(t, result.Unfilled)

	for _, a := range result.Assignments {
		switch a.EmployeeID {
		case roster[0].ID:
			assert.Equal(t, models.PeriodNight, a.Period, "night-only operator placed in a day slot on %s", a.Date)
		case roster[1].ID:
			assert.Equal(t, models.PeriodDay, a.Period, "day-only operator placed in a night slot on %s", a.Date)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(nil)
	roster := fullRoster(14)

	reversed := make([]models.Employee, len(roster))
	for i, emp := range roster {
		reversed[len(roster)-1-i] = emp
	}

	first, err := engine.Generate(Request{Roster: roster, Start: monday, Weeks: 2})
	require.NoError(t, err)
	second, err := engine.Generate(Request{Roster: reversed, Start: monday, Weeks: 2})
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments, "roster order must not affect the rota")
}

func TestGenerateValidation(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(nil)

	_, err := engine.Generate(Request{Roster: fullRoster(2), Weeks: 1})
	assert.Error(t, err, "zero start date")

	_, err = engine.Generate(Request{Roster: fullRoster(2), Start: monday, Weeks: 0})
	assert.Error(t, err, "non-positive horizon")

	_, err = engine.Generate(Request{
		Roster: fullRoster(2),
		Start:  monday,
		Weeks:  1,
		Absences: []models.TimeOffRequest{
			{EmployeeID: "ghost", StartDate: monday, EndDate: monday, Scope: models.ScopeBoth, Status: models.TimeOffApproved},
		},
	})
	assert.Error(t, err, "absence for unknown employee")
}

func TestGenerateReportsUnfilledSlots(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(nil)

	dayOnly := testEmployee("e1", "Ada")
	dayOnly.Mode = models.EligibilityDayOnly
	dayOnly.MaxConsecutiveDays = 7

	result, err := engine.Generate(Request{Roster: []models.Employee{dayOnly}, Start: monday, Weeks: 1})
	require.NoError(t, err)

	assert.Len(t, result.Assignments, 7, "one day slot per date")
	assert.Len(t, result.Unfilled, 5*9+2*7-7)
	for _, a := range result.Assignments {
		assert.Equal(t, models.PeriodDay, a.Period, "day-only staff never land on nights")
	}
	for _, gap := range result.Unfilled {
		assert.Equal(t, "no eligible candidate", gap.Reason)
	}
}

func TestGenerateOvertimeFlag(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(nil)

	nightOwl := testEmployee("e1", "Ada")
	nightOwl.Mode = models.EligibilityNightOnly
	nightOwl.MinRestHours = 8
	nightOwl.MaxConsecutiveDays = 7
	nightOwl.MaxHours = 30

	result, err := engine.Generate(Request{Roster: []models.Employee{nightOwl}, Start: monday, Weeks: 1})
	require.NoError(t, err)
	require.Len(t, result.Assignments, 7)

	// 10.5h nights: the third pushes the week past the 30h cap.
	for i, a := range result.Assignments {
		assert.Equal(t, "N1", a.Role, "first night slot wins every date")
		assert.Equal(t, i >= 2, a.IsOvertime, "night %d", i+1)
	}
}

func TestGenerateSeedsLedgerFromPublished(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	engine := NewEngine(nil)

	nightOwl := testEmployee("e1", "Ada")
	nightOwl.Mode = models.EligibilityNightOnly
	nightOwl.MinRestHours = 8
	nightOwl.MaxConsecutiveDays = 7
	nightOwl.MaxHours = 20

	published := []models.Assignment{
		{ID: "a1", EmployeeID: "e1", Date: monday, Role: "N3", Period: models.PeriodNight, StartTime: "19:00", EndTime: "07:00"},
	}

	result, err := engine.Generate(Request{
		Roster:    []models.Employee{nightOwl},
		Start:     tuesday,
		Weeks:     1,
		Published: published,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Assignments)

	first := result.Assignments[0]
	assert.True(t, first.Date.Equal(tuesday))
	assert.True(t, first.IsOvertime, "12h already on the books plus 10.5h crosses the 20h cap")
}

func TestGenerateRespectsBlackoutsAndAbsences(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	engine := NewEngine(nil)

	roster := fullRoster(14)
	roster[0].BlackoutDays = []string{"MONDAY"}
	wednesday := monday.AddDate(0, 0, 2)
	absences := []models.TimeOffRequest{
		{EmployeeID: roster[1].ID, StartDate: wednesday, EndDate: wednesday.AddDate(0, 0, 1), Scope: models.ScopeBoth, Status: models.TimeOffApproved},
	}

	result, err := engine.Generate(Request{Roster: roster, Start: monday, Weeks: 1, Absences: absences})
	require.NoError(t, err)

	for _, a := range result.Assignments {
		if a.EmployeeID == roster[0].ID {
			assert.NotEqual(t, time.Monday, a.Date.Weekday())
		}
		if a.EmployeeID == roster[1].ID {
			assert.False(t, a.Date.Equal(wednesday) || a.Date.Equal(wednesday.AddDate(0, 0, 1)))
		}
	}
}
