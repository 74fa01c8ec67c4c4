package scheduling

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// clock converts a wall-clock hour/minute pair into minutes from midnight.
func clock(hour, minute int) int {
	return hour*60 + minute
}

// durationHours returns the wrap-aware span between two clock values in hours.
// An end at or before the start means the interval crosses midnight.
func durationHours(start, end int) float64 {
	if end <= start {
		end += minutesPerDay
	}
	return float64(end-start) / 60.0
}

func formatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

func parseClock(raw string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(raw, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", raw)
	}
	return clock(hour, minute), nil
}

// dateOnly truncates a timestamp to midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// instantAt anchors a clock value onto a calendar date.
func instantAt(date time.Time, minuteOfDay int) time.Time {
	return dateOnly(date).Add(time.Duration(minuteOfDay) * time.Minute)
}

// WeekKey buckets a date into its ISO week, e.g. "2025-W41".
func WeekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
