package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

func testEmployee(id, name string) models.Employee {
	return models.Employee{
		ID:                 id,
		Name:               name,
		Mode:               models.EligibilityEither,
		TargetHours:        40,
		MaxHours:           48,
		MinRestHours:       10,
		MaxConsecutiveDays: 5,
		Active:             true,
	}
}

func TestEligibleHardConstraints(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	empty := BuildAbsenceCalendar(nil)

	tests := []struct {
		name string
		mut  func(*models.Employee)
		slot SlotTemplate
		date time.Time
		want bool
	}{
		{"active both-mode works day", func(e *models.Employee) {}, daySlot, monday, true},
		{"inactive is never eligible", func(e *models.Employee) { e.Active = false }, daySlot, monday, false},
		{"day-only cannot take nights", func(e *models.Employee) { e.Mode = models.EligibilityDayOnly }, nightSlot, monday, false},
		{"night-only cannot take days", func(e *models.Employee) { e.Mode = models.EligibilityNightOnly }, daySlot, monday, false},
		{"blackout weekday excludes", func(e *models.Employee) { e.BlackoutDays = []string{"MONDAY"} }, daySlot, monday, false},
		{"blackout on other weekday does not", func(e *models.Employee) { e.BlackoutDays = []string{"TUESDAY"} }, daySlot, monday, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emp := testEmployee("e1", "Ada")
			tt.mut(&emp)
			assert.Equal(t, tt.want, eligible(emp, tt.date, tt.slot, NewLedger(), empty))
		})
	}
}

func TestEligibleAbsenceScopes(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	emp := testEmployee("e1", "Ada")

	cal := BuildAbsenceCalendar([]models.TimeOffRequest{
		{EmployeeID: "e1", StartDate: monday, EndDate: monday, Scope: models.ScopeDay, Status: models.TimeOffApproved},
		{EmployeeID: "e1", StartDate: monday.AddDate(0, 0, 1), EndDate: monday.AddDate(0, 0, 2), Scope: models.ScopeBoth, Status: models.TimeOffApproved},
		{EmployeeID: "e1", StartDate: monday.AddDate(0, 0, 3), EndDate: monday.AddDate(0, 0, 3), Scope: models.ScopeNight, Status: models.TimeOffPending},
	})

	assert.False(t, eligible(emp, monday, daySlot, NewLedger(), cal), "day scope blocks day")
	assert.True(t, eligible(emp, monday, nightSlot, NewLedger(), cal), "day scope leaves nights open")
	assert.False(t, eligible(emp, monday.AddDate(0, 0, 2), daySlot, NewLedger(), cal), "both scope blocks the whole range")
	assert.True(t, eligible(emp, monday.AddDate(0, 0, 3), nightSlot, NewLedger(), cal), "pending requests do not block")
}

func TestEligibleRestWindow(t *testing.T) {
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	emp := testEmployee("e1", "Ada")

	l := NewLedger()
	require.NoError(t, l.Record("e1", monday, nightSlot)) // ends Tuesday 07:00

	assert.False(t, eligible(emp, tuesday, daySlot, l, BuildAbsenceCalendar(nil)),
		"07:00 start is inside the 10h rest window after a 07:00 finish")
	assert.True(t, eligible(emp, tuesday, nightSlot, l, BuildAbsenceCalendar(nil)),
		"19:00 start clears 07:00+10h")
}

func TestEligibleConsecutiveDayCap(t *testing.T) {
	start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	emp := testEmployee("e1", "Ada")
	emp.MinRestHours = 1 // isolate the streak constraint

	l := NewLedger()
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record("e1", start.AddDate(0, 0, i), daySlot))
	}

	sixth := start.AddDate(0, 0, 5)
	assert.False(t, eligible(emp, sixth, daySlot, l, BuildAbsenceCalendar(nil)), "sixth straight day exceeds the cap")
	assert.True(t, eligible(emp, start.AddDate(0, 0, 6), daySlot, l, BuildAbsenceCalendar(nil)), "a day off resets the streak")
}
