package models

import (
	"time"

	"github.com/lib/pq"
)

// EligibilityMode restricts which shift periods an employee may occupy.
type EligibilityMode string

const (
	EligibilityDayOnly   EligibilityMode = "DAY"
	EligibilityNightOnly EligibilityMode = "NIGHT"
	EligibilityEither    EligibilityMode = "BOTH"
)

// Employee represents a PBX operator on the roster.
type Employee struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Email              string          `db:"email" json:"email"`
	Mode               EligibilityMode `db:"eligibility_mode" json:"eligibility_mode"`
	TargetHours        float64         `db:"target_hours" json:"target_hours"`
	MaxHours           float64         `db:"max_hours" json:"max_hours"`
	BlackoutDays       pq.StringArray  `db:"blackout_days" json:"blackout_days"`
	MinRestHours       int             `db:"min_rest_hours" json:"min_rest_hours"`
	MaxConsecutiveDays int             `db:"max_consecutive_days" json:"max_consecutive_days"`
	Active             bool            `db:"active" json:"active"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// CanWork reports whether the employee's mode permits the given period.
func (e Employee) CanWork(period ShiftPeriod) bool {
	switch e.Mode {
	case EligibilityDayOnly:
		return period == PeriodDay
	case EligibilityNightOnly:
		return period == PeriodNight
	default:
		return true
	}
}

var weekdayByName = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// BlackoutWeekdays resolves the stored weekday names into a lookup set.
// Unknown names are ignored rather than treated as blackouts.
func (e Employee) BlackoutWeekdays() map[time.Weekday]bool {
	if len(e.BlackoutDays) == 0 {
		return nil
	}
	set := make(map[time.Weekday]bool, len(e.BlackoutDays))
	for _, name := range e.BlackoutDays {
		if wd, ok := weekdayByName[name]; ok {
			set[wd] = true
		}
	}
	return set
}

// EmployeeFilter describes roster listing parameters.
type EmployeeFilter struct {
	Active *bool
	Mode   EligibilityMode
	Limit  int
	Offset int
}
