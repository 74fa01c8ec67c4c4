package scheduling

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/calloway-health/pbx-rota-api/internal/models"
	"github.com/calloway-health/pbx-rota-api/pkg/errors"
)

const (
	defaultMinRestHours       = 10
	defaultMaxConsecutiveDays = 5
)

// Request carries the full input of one generation run.
type Request struct {
	Roster   []models.Employee
	Absences []models.TimeOffRequest
	Start    time.Time
	Weeks    int
	// Published seeds the ledger with assignments already committed earlier
	// in the same ISO week as Start.
	Published []models.Assignment
}

// Result is the engine's output: the assignments it placed and the slots it
// could not fill, with the reason.
type Result struct {
	Assignments []models.Assignment
	Unfilled    []models.UnfilledSlot
}

// Engine fills every slot in a date range greedily, one day at a time, in a
// fixed slot order, so identical inputs always produce identical rotas.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Generate runs the greedy assignment pass over Weeks*7 days from Start.
// A slot with no eligible candidate is reported as unfilled, never forced.
func (e *Engine) Generate(req Request) (*Result, error) {
	if req.Start.IsZero() {
		return nil, errors.Clone(errors.ErrValidation, "start date is required")
	}
	if req.Weeks <= 0 {
		return nil, errors.Clone(errors.ErrValidation, "horizon must be at least one week")
	}
	known := make(map[string]bool, len(req.Roster))
	for _, emp := range req.Roster {
		known[emp.ID] = true
	}
	for _, rec := range req.Absences {
		if !known[rec.EmployeeID] {
			return nil, errors.Clone(errors.ErrValidation, "absence references unknown employee "+rec.EmployeeID)
		}
	}

	roster := normalizeRoster(req.Roster)
	ledger := NewLedger()
	if err := ledger.Seed(req.Published); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "seed hours ledger")
	}
	absences := BuildAbsenceCalendar(req.Absences)

	start := dateOnly(req.Start)
	result := &Result{}
	for offset := 0; offset < req.Weeks*7; offset++ {
		date := start.AddDate(0, 0, offset)
		weekKey := WeekKey(date)
		assignedToday := make(map[string]bool)

		for _, slot := range SlotsFor(date) {
			var candidates []models.Employee
			for _, emp := range roster {
				if assignedToday[emp.ID] {
					continue
				}
				if eligible(emp, date, slot, ledger, absences) {
					candidates = append(candidates, emp)
				}
			}
			if len(candidates) == 0 {
				result.Unfilled = append(result.Unfilled, models.UnfilledSlot{
					Date:   date,
					Period: slot.Period,
					Role:   slot.Role,
					Reason: "no eligible candidate",
				})
				e.logger.Debug("slot left unfilled",
					zap.String("date", date.Format("2006-01-02")),
					zap.String("role", slot.Role))
				continue
			}

			pick := rankCandidates(candidates, ledger, weekKey, slot.Hours())[0]
			if err := ledger.Record(pick.ID, date, slot); err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal.Code, errors.ErrInternal.Status, "record assignment")
			}
			assignedToday[pick.ID] = true
			result.Assignments = append(result.Assignments, models.Assignment{
				EmployeeID:   pick.ID,
				EmployeeName: pick.Name,
				Date:         date,
				Period:       slot.Period,
				Role:         slot.Role,
				StartTime:    formatClock(slot.Start),
				EndTime:      formatClock(slot.End),
				Hours:        slot.Hours(),
				IsOvertime:   ledger.WeekHours(pick.ID, weekKey) > pick.MaxHours,
			})
		}
	}

	e.logger.Info("rota generated",
		zap.Time("start", start),
		zap.Int("weeks", req.Weeks),
		zap.Int("assignments", len(result.Assignments)),
		zap.Int("unfilled", len(result.Unfilled)))
	return result, nil
}

// normalizeRoster copies the roster, applies policy defaults to unset limits
// and fixes the iteration order so ranking ties resolve identically across
// runs.
func normalizeRoster(roster []models.Employee) []models.Employee {
	out := make([]models.Employee, len(roster))
	copy(out, roster)
	for i := range out {
		if out[i].MinRestHours <= 0 {
			out[i].MinRestHours = defaultMinRestHours
		}
		if out[i].MaxConsecutiveDays <= 0 {
			out[i].MaxConsecutiveDays = defaultMaxConsecutiveDays
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
