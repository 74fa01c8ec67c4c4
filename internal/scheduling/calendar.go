package scheduling

import (
	"time"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

// SlotTemplate is a named, time-bounded shift to fill on a given date.
// Start and End are minutes from midnight; End at or before Start means the
// shift runs into the next calendar day.
type SlotTemplate struct {
	Role   string
	Period models.ShiftPeriod
	Start  int
	End    int
}

// Hours returns the slot duration, accounting for midnight wrap.
func (s SlotTemplate) Hours() float64 {
	return durationHours(s.Start, s.End)
}

// StartAt anchors the slot start on a calendar date.
func (s SlotTemplate) StartAt(date time.Time) time.Time {
	return instantAt(date, s.Start)
}

// EndAt anchors the slot end, rolling into the next day on wrap.
func (s SlotTemplate) EndAt(date time.Time) time.Time {
	end := instantAt(date, s.End)
	if s.End <= s.Start {
		end = end.AddDate(0, 0, 1)
	}
	return end
}

// Contains reports whether the slot covers the given minute of day,
// evaluated on the [start, end) half-open interval with wrap.
func (s SlotTemplate) Contains(minuteOfDay int) bool {
	if s.End <= s.Start {
		return minuteOfDay >= s.Start || minuteOfDay < s.End
	}
	return minuteOfDay >= s.Start && minuteOfDay < s.End
}

// Weekday day coverage: three 12-hour generalists, an 8-hour lead, and two
// bridge slots that lift the 07:00-08:00 and 16:00-19:00 windows to four heads.
var weekdayDaySlots = []SlotTemplate{
	{Role: "LEAD", Period: models.PeriodDay, Start: clock(8, 0), End: clock(16, 0)},
	{Role: "D1", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "D2", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "D3", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "B1", Period: models.PeriodDay, Start: clock(7, 0), End: clock(8, 0)},
	{Role: "B2", Period: models.PeriodDay, Start: clock(16, 0), End: clock(19, 0)},
}

var weekendDaySlots = []SlotTemplate{
	{Role: "D1", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "D2", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "D3", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
	{Role: "D4", Period: models.PeriodDay, Start: clock(7, 0), End: clock(19, 0)},
}

// Night coverage does not vary by weekday.
var nightSlots = []SlotTemplate{
	{Role: "N1", Period: models.PeriodNight, Start: clock(19, 0), End: clock(5, 30)},
	{Role: "N2", Period: models.PeriodNight, Start: clock(21, 30), End: clock(8, 0)},
	{Role: "N3", Period: models.PeriodNight, Start: clock(19, 0), End: clock(7, 0)},
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DaySlots returns the day-period slots for a date in resolution order:
// on weekdays the lead slot comes first.
func DaySlots(date time.Time) []SlotTemplate {
	if isWeekend(date) {
		return weekendDaySlots
	}
	return weekdayDaySlots
}

// NightSlots returns the night-period slots for any date.
func NightSlots() []SlotTemplate {
	return nightSlots
}

// SlotsFor returns every slot to fill on a date, in the order the engine
// resolves them: nights first, then day slots.
func SlotsFor(date time.Time) []SlotTemplate {
	day := DaySlots(date)
	out := make([]SlotTemplate, 0, len(nightSlots)+len(day))
	out = append(out, nightSlots...)
	out = append(out, day...)
	return out
}

// RequiredHeadcount returns the minimum simultaneous staffing at a minute of
// day: four during the 07:00-19:00 day window, three overnight.
func RequiredHeadcount(minuteOfDay int) int {
	if minuteOfDay >= clock(7, 0) && minuteOfDay < clock(19, 0) {
		return 4
	}
	return 3
}
