package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

// Ledger tracks the running per-employee state the engine consults while it
// fills slots: hours worked per ISO week, the end of the most recent shift,
// and the current consecutive-day streak.
type Ledger struct {
	entries map[string]*ledgerEntry
}

type ledgerEntry struct {
	weekHours  map[string]float64
	lastEnd    time.Time
	hasLastEnd bool
	streak     int
	streakDate time.Time
	hasStreak  bool
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]*ledgerEntry)}
}

func (l *Ledger) entry(employeeID string) *ledgerEntry {
	e, ok := l.entries[employeeID]
	if !ok {
		e = &ledgerEntry{weekHours: make(map[string]float64)}
		l.entries[employeeID] = e
	}
	return e
}

// WeekHours returns the hours recorded for an employee in the given ISO week.
func (l *Ledger) WeekHours(employeeID, weekKey string) float64 {
	if e, ok := l.entries[employeeID]; ok {
		return e.weekHours[weekKey]
	}
	return 0
}

// LastShiftEnd returns the end instant of the employee's most recent recorded
// shift, if any.
func (l *Ledger) LastShiftEnd(employeeID string) (time.Time, bool) {
	if e, ok := l.entries[employeeID]; ok && e.hasLastEnd {
		return e.lastEnd, true
	}
	return time.Time{}, false
}

// streakIfWorked returns the consecutive-day count the employee would reach
// by working on date: a one-day gap extends the streak, anything larger
// resets it to one.
func (l *Ledger) streakIfWorked(employeeID string, date time.Time) int {
	e, ok := l.entries[employeeID]
	if !ok || !e.hasStreak {
		return 1
	}
	switch daysBetween(e.streakDate, date) {
	case 0:
		return e.streak
	case 1:
		return e.streak + 1
	default:
		return 1
	}
}

// Record books a filled slot against the employee's week bucket, streak and
// rest tracking. Dates must be recorded in non-decreasing order per employee;
// violations indicate an engine defect and are returned as errors.
func (l *Ledger) Record(employeeID string, date time.Time, slot SlotTemplate) error {
	hours := slot.Hours()
	if hours <= 0 {
		return fmt.Errorf("ledger: non-positive duration %.2fh for slot %s on %s", hours, slot.Role, date.Format("2006-01-02"))
	}
	date = dateOnly(date)
	e := l.entry(employeeID)
	if e.hasStreak && date.Before(e.streakDate) {
		return fmt.Errorf("ledger: assignment for %s on %s recorded out of date order", employeeID, date.Format("2006-01-02"))
	}

	e.weekHours[WeekKey(date)] += hours

	end := slot.EndAt(date)
	if !e.hasLastEnd || end.After(e.lastEnd) {
		e.lastEnd = end
		e.hasLastEnd = true
	}

	next := l.streakIfWorked(employeeID, date)
	if !e.hasStreak || daysBetween(e.streakDate, date) != 0 {
		e.streak = next
		e.streakDate = date
		e.hasStreak = true
	}
	return nil
}

// Seed replays previously published assignments into the ledger so a run that
// starts mid ISO week accounts for hours already committed.
func (l *Ledger) Seed(prior []models.Assignment) error {
	sorted := make([]models.Assignment, len(prior))
	copy(sorted, prior)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].StartTime < sorted[j].StartTime
	})
	for _, a := range sorted {
		start, err := parseClock(a.StartTime)
		if err != nil {
			return fmt.Errorf("ledger: seed assignment %s: %w", a.ID, err)
		}
		end, err := parseClock(a.EndTime)
		if err != nil {
			return fmt.Errorf("ledger: seed assignment %s: %w", a.ID, err)
		}
		slot := SlotTemplate{Role: a.Role, Period: a.Period, Start: start, End: end}
		if err := l.Record(a.EmployeeID, a.Date, slot); err != nil {
			return err
		}
	}
	return nil
}

func daysBetween(earlier, later time.Time) int {
	return int(dateOnly(later).Sub(dateOnly(earlier)).Hours() / 24)
}
