package scheduling

import (
	"time"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

type absenceKey struct {
	employeeID string
	date       int64
}

// AbsenceCalendar indexes approved time off by employee and date for O(1)
// lookup during slot resolution.
type AbsenceCalendar struct {
	entries map[absenceKey][]models.AbsenceScope
}

// BuildAbsenceCalendar expands approved requests into per-day blocks.
// Non-approved requests are ignored.
func BuildAbsenceCalendar(requests []models.TimeOffRequest) AbsenceCalendar {
	cal := AbsenceCalendar{entries: make(map[absenceKey][]models.AbsenceScope)}
	for _, req := range requests {
		if req.Status != models.TimeOffApproved {
			continue
		}
		for d := dateOnly(req.StartDate); !d.After(dateOnly(req.EndDate)); d = d.AddDate(0, 0, 1) {
			key := absenceKey{employeeID: req.EmployeeID, date: d.Unix()}
			cal.entries[key] = append(cal.entries[key], req.Scope)
		}
	}
	return cal
}

// Blocks reports whether approved time off rules the employee out of the
// given period on the given date.
func (c AbsenceCalendar) Blocks(employeeID string, date time.Time, period models.ShiftPeriod) bool {
	scopes, ok := c.entries[absenceKey{employeeID: employeeID, date: dateOnly(date).Unix()}]
	if !ok {
		return false
	}
	for _, scope := range scopes {
		switch scope {
		case models.ScopeBoth:
			return true
		case models.ScopeDay:
			if period == models.PeriodDay {
				return true
			}
		case models.ScopeNight:
			if period == models.PeriodNight {
				return true
			}
		}
	}
	return false
}

// eligible applies every hard constraint that can rule an employee out of a
// slot: active flag, eligibility mode, blackout weekday, approved absence,
// minimum rest since the last shift, and the consecutive-day cap.
func eligible(emp models.Employee, date time.Time, slot SlotTemplate, ledger *Ledger, absences AbsenceCalendar) bool {
	if !emp.Active {
		return false
	}
	if !emp.CanWork(slot.Period) {
		return false
	}
	if emp.BlackoutWeekdays()[date.Weekday()] {
		return false
	}
	if absences.Blocks(emp.ID, date, slot.Period) {
		return false
	}
	if lastEnd, ok := ledger.LastShiftEnd(emp.ID); ok {
		rest := time.Duration(emp.MinRestHours) * time.Hour
		if slot.StartAt(date).Before(lastEnd.Add(rest)) {
			return false
		}
	}
	if ledger.streakIfWorked(emp.ID, date) > emp.MaxConsecutiveDays {
		return false
	}
	return true
}
