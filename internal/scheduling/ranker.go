package scheduling

import (
	"sort"

	"github.com/calloway-health/pbx-rota-api/internal/models"
)

// rankCandidates orders eligible employees for a slot. Employees still short
// of their weekly target come first; ties break on the overtime the slot
// would project past the weekly cap, then current week hours, then name.
// The sort is stable so equal keys preserve input order, but the final name
// tiebreak makes the result independent of roster order anyway.
func rankCandidates(candidates []models.Employee, ledger *Ledger, weekKey string, slotHours float64) []models.Employee {
	ranked := make([]models.Employee, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		a := rankKeyFor(ranked[i], ledger, weekKey, slotHours)
		b := rankKeyFor(ranked[j], ledger, weekKey, slotHours)
		if a.overTarget != b.overTarget {
			return a.overTarget < b.overTarget
		}
		if a.projectedOvertime != b.projectedOvertime {
			return a.projectedOvertime < b.projectedOvertime
		}
		if a.weekHours != b.weekHours {
			return a.weekHours < b.weekHours
		}
		return a.name < b.name
	})
	return ranked
}

type rankKey struct {
	overTarget        int
	projectedOvertime float64
	weekHours         float64
	name              string
}

func rankKeyFor(emp models.Employee, ledger *Ledger, weekKey string, slotHours float64) rankKey {
	hours := ledger.WeekHours(emp.ID, weekKey)
	key := rankKey{weekHours: hours, name: emp.Name}
	if hours >= emp.TargetHours {
		key.overTarget = 1
	}
	if projected := hours + slotHours - emp.MaxHours; projected > 0 {
		key.projectedOvertime = projected
	}
	return key
}
