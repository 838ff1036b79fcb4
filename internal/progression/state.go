package progression

import "github.com/noah-isme/sinau-go-api/internal/models"

// StateKind enumerates the per-student, per-course progression states.
type StateKind string

const (
	StateLocked         StateKind = "locked"
	StateUnlocked       StateKind = "unlocked"
	StateInProgress     StateKind = "in_progress"
	StateAwaitingExam   StateKind = "awaiting_exam"
	StateModuleComplete StateKind = "module_complete"
	StateCourseComplete StateKind = "course_complete"
)

// State is the resolved position of a student within a course.
type State struct {
	Kind        StateKind `json:"kind"`
	ModuleIndex int       `json:"module_index"`
	LessonIndex int       `json:"lesson_index"`
}

// ResolveState walks the course front to back and returns where the student
// currently stands. Fully completed modules with a qualifying exam outcome
// are traversed; the first module with remaining work determines the state.
//
// A fully completed module without any exam resolves to ModuleComplete rather
// than unlocking its successor: the gate requires a qualifying outcome and an
// exam-less module can never produce one.
func ResolveState(modules []models.Module, records map[uint]models.LessonProgress, outcomesByModuleID map[uint]ModuleOutcome, passThreshold float64) State {
	if len(modules) == 0 {
		return State{Kind: StateCourseComplete}
	}

	for m, module := range modules {
		touched := false
		firstIncomplete := -1

		for l, lesson := range module.Lessons {
			record, ok := records[lesson.ID]
			if ok {
				touched = true
			}
			if (!ok || !record.Completed) && firstIncomplete < 0 {
				firstIncomplete = l
			}
		}

		if firstIncomplete >= 0 {
			if !touched {
				return State{Kind: StateUnlocked, ModuleIndex: m}
			}
			return State{Kind: StateInProgress, ModuleIndex: m, LessonIndex: firstIncomplete}
		}

		last := m == len(modules)-1

		if len(module.Exams) > 0 {
			outcome, ok := outcomesByModuleID[module.ID]
			if !Qualifies(outcome, ok, passThreshold) {
				return State{Kind: StateAwaitingExam, ModuleIndex: m}
			}
			if last {
				return State{Kind: StateCourseComplete, ModuleIndex: m}
			}
			continue
		}

		if last {
			return State{Kind: StateCourseComplete, ModuleIndex: m}
		}

		return State{Kind: StateModuleComplete, ModuleIndex: m}
	}

	return State{Kind: StateCourseComplete, ModuleIndex: len(modules) - 1}
}
