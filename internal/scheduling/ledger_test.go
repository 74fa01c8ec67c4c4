package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

var (
	daySlot   = SlotTemplate{Role: "D1", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)}
	nightSlot = SlotTemplate{Role: "N3", Period: models.PeriodNight, Start: clock(19, 0), End: clock(7, 0)}
)

func TestLedgerWeekBuckets(t *testing.T) {
	l := NewLedger()
	sunday := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	monday := sunday.AddDate(0, 0, 1)

	require.NoError(t, l.Record("e1", sunday, daySlot))
	require.NoError(t, l.Record("e1", monday, daySlot))

	assert.Equal(t, 12.0, l.WeekHours("e1", WeekKey(sunday)))
	assert.Equal(t, 12.0, l.WeekHours("e1", WeekKey(monday)))
	assert.NotEqual(t, WeekKey(sunday), WeekKey(monday))
	assert.Equal(t, 0.0, l.WeekHours("e2", WeekKey(sunday)), "unknown employee has zero hours")
}

func TestLedgerLastShiftEndWraps(t *testing.T) {
	l := NewLedger()
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

	_, ok := l.LastShiftEnd("e1")
	assert.False(t, ok)

	require.NoError(t, l.Record("e1", monday, nightSlot))
	end, ok := l.LastShiftEnd("e1")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 7, 7, 0, 0, 0, time.UTC), end)
}

func TestLedgerStreak(t *testing.T) {
	l := NewLedger()
	start := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, l.streakIfWorked("e1", start), "no history starts a streak of one")

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Record("e1", start.AddDate(0, 0, i), daySlot))
	}
	assert.Equal(t, 4, l.streakIfWorked("e1", start.AddDate(0, 0, 3)), "next day extends")
	assert.Equal(t, 3, l.streakIfWorked("e1", start.AddDate(0, 0, 2)), "same day keeps")
	assert.Equal(t, 1, l.streakIfWorked("e1", start.AddDate(0, 0, 4)), "a full day off resets")
}

func TestLedgerRejectsOutOfOrder(t *testing.T) {
	l := NewLedger()
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)

	require.NoError(t, l.Record("e1", monday.AddDate(0, 0, 1), daySlot))
	assert.Error(t, l.Record("e1", monday, daySlot), "earlier date after later date")
}

func TestLedgerSeed(t *testing.T) {
	l := NewLedger()
	monday := time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)
	prior := []models.Assignment{
		{ID: "a2", EmployeeID: "e1", Date: monday.AddDate(0, 0, 1), Role: "D1", Period: models.PeriodDay, StartTime: "07:00", EndTime: "19:00"},
		{ID: "a1", EmployeeID: "e1", Date: monday, Role: "N3", Period: models.PeriodNight, StartTime: "19:00", EndTime: "07:00"},
	}

	require.NoError(t, l.Seed(prior), "seed sorts by date before replaying")
	assert.Equal(t, 24.0, l.WeekHours("e1", WeekKey(monday)))
	assert.Equal(t, 2, l.streakIfWorked("e1", monday.AddDate(0, 0, 1)))

	bad := []models.Assignment{{ID: "a3", EmployeeID: "e1", Date: monday, StartTime: "bogus", EndTime: "19:00"}}
	assert.Error(t, NewLedger().Seed(bad))
}
