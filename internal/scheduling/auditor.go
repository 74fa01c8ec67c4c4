package scheduling

import (
	"time"

	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/pkg/errors"
)

// AuditCoverage samples every date in the range at the given interval and
// reports each sample where the number of on-duty staff falls below the
// required headcount. The audit only verifies; it never mutates assignments.
func AuditCoverage(assignments []models.Assignment, start time.Time, days int, interval time.Duration) ([]models.CoverageViolation, error) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	step := int(interval / time.Minute)
	if step <= 0 || minutesPerDay%step != 0 {
		return nil, errors.Clone(errors.ErrValidation, "audit interval must divide the day evenly")
	}

	type window struct {
		start int
		end   int
	}
	byDate := make(map[int64][]window)
	for _, a := range assignments {
		s, err := parseClock(a.StartTime)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "audit assignment "+a.ID)
		}
		e, err := parseClock(a.EndTime)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "audit assignment "+a.ID)
		}
		key := dateOnly(a.Date).Unix()
		byDate[key] = append(byDate[key], window{start: s, end: e})
		// A wrapping shift also covers the early hours of the next date.
		if e <= s && e > 0 {
			next := dateOnly(a.Date).AddDate(0, 0, 1).Unix()
			byDate[next] = append(byDate[next], window{start: 0, end: e})
		}
	}

	var violations []models.CoverageViolation
	first := dateOnly(start)
	for offset := 0; offset < days; offset++ {
		date := first.AddDate(0, 0, offset)
		windows := byDate[date.Unix()]
		for minute := 0; minute < minutesPerDay; minute += step {
			actual := 0
			for _, w := range windows {
				if coversMinute(w.start, w.end, minute) {
					actual++
				}
			}
			if required := RequiredHeadcount(minute); actual < required {
				violations = append(violations, models.CoverageViolation{
					Date:     date,
					Time:     formatClock(minute),
					Required: required,
					Actual:   actual,
				})
			}
		}
	}
	return violations, nil
}

func coversMinute(start, end, minute int) bool {
	if end <= start {
		// Wrapping windows were split at midnight before sampling, so only
		// the same-date portion counts here.
		return minute >= start
	}
	return minute >= start && minute < end
}
