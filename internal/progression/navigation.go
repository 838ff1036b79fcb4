package progression

import "github.com/noah-isme/sinau-go-api/internal/models"

// LessonRef addresses a lesson by its module and lesson order indices.
type LessonRef struct {
	ModuleIndex int `json:"module_index"`
	LessonIndex int `json:"lesson_index"`
}

// NavStatus describes the result of a navigation attempt.
type NavStatus string

const (
	NavOK           NavStatus = "ok"
	NavAwaitingExam NavStatus = "awaiting_exam"
	NavModuleLocked NavStatus = "module_locked"
	NavCourseStart  NavStatus = "course_start"
	NavCourseEnd    NavStatus = "course_end"
)

// Qualifies reports whether an outcome opens the gate: it must exist, be
// marked passed, and score at or above the threshold.
func Qualifies(outcome ModuleOutcome, ok bool, passThreshold float64) bool {
	return ok && outcome.Passed && outcome.Score >= passThreshold
}

// NextLesson advances from current to the next navigable lesson. Within a
// module it simply steps forward. At the module boundary the student is held
// back by an unpassed module exam (NavAwaitingExam) or a locked next module
// (NavModuleLocked); on the last module it reports NavCourseEnd.
func NextLesson(current LessonRef, modules []models.Module, outcomesByModuleID map[uint]ModuleOutcome, passThreshold float64) (LessonRef, NavStatus) {
	if current.ModuleIndex < 0 || current.ModuleIndex >= len(modules) {
		return LessonRef{}, NavCourseEnd
	}

	module := modules[current.ModuleIndex]
	if current.LessonIndex+1 < len(module.Lessons) {
		return LessonRef{ModuleIndex: current.ModuleIndex, LessonIndex: current.LessonIndex + 1}, NavOK
	}

	if current.ModuleIndex+1 >= len(modules) {
		return LessonRef{}, NavCourseEnd
	}

	if len(module.Exams) > 0 {
		outcome, ok := outcomesByModuleID[module.ID]
		if !Qualifies(outcome, ok, passThreshold) {
			return LessonRef{}, NavAwaitingExam
		}
	}

	if IsLocked(current.ModuleIndex+1, modules, outcomesByModuleID, passThreshold) {
		return LessonRef{}, NavModuleLocked
	}

	return LessonRef{ModuleIndex: current.ModuleIndex + 1, LessonIndex: 0}, NavOK
}

// PreviousLesson steps backward through lesson indices, crossing module
// boundaries into the last lesson of the previous module. Backward navigation
// is never gated: already-unlocked content stays reviewable.
func PreviousLesson(current LessonRef, modules []models.Module) (LessonRef, NavStatus) {
	if current.ModuleIndex < 0 || current.ModuleIndex >= len(modules) {
		return LessonRef{}, NavCourseStart
	}

	if current.LessonIndex > 0 {
		return LessonRef{ModuleIndex: current.ModuleIndex, LessonIndex: current.LessonIndex - 1}, NavOK
	}

	for m := current.ModuleIndex - 1; m >= 0; m-- {
		if count := len(modules[m].Lessons); count > 0 {
			return LessonRef{ModuleIndex: m, LessonIndex: count - 1}, NavOK
		}
	}

	return LessonRef{}, NavCourseStart
}
