package progression

import "github.com/noah-isme/sinau-go-api/internal/models"

// DefaultPassThreshold is the canonical numeric gate threshold.
const DefaultPassThreshold = 70.0

// IsLocked reports whether the module at moduleIndex may not be entered.
// Module 0 is always open. Any later module requires the previous module's
// best outcome to exist, be marked passed, and score at or above the numeric
// threshold. The stored Passed flag alone is not trusted: grading may set it
// under a different rule, so the score check is enforced independently.
//
// Callers must evaluate this fresh on every gating decision; a new submission
// changes the verdict immediately and there is no invalidation signal.
func IsLocked(moduleIndex int, modules []models.Module, outcomesByModuleID map[uint]ModuleOutcome, passThreshold float64) bool {
	if moduleIndex <= 0 {
		return false
	}
	if moduleIndex >= len(modules) {
		return true
	}

	previous := modules[moduleIndex-1]
	outcome, ok := outcomesByModuleID[previous.ID]
	if !ok {
		return true
	}

	return !outcome.Passed || outcome.Score < passThreshold
}
