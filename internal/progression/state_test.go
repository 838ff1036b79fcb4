package progression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

func recordsFor(records ...models.LessonProgress) map[uint]models.LessonProgress {
	byLesson := make(map[uint]models.LessonProgress, len(records))
	for _, record := range records {
		byLesson[record.LessonID] = record
	}
	return byLesson
}

func TestResolveStateFreshStudent(t *testing.T) {
	modules := gatedCourse()

	state := ResolveState(modules, nil, nil, DefaultPassThreshold)
	require.Equal(t, StateUnlocked, state.Kind)
	require.Equal(t, 0, state.ModuleIndex)
}

func TestResolveStateInProgress(t *testing.T) {
	modules := gatedCourse()
	records := recordsFor(models.LessonProgress{LessonID: 1, Completed: true})

	state := ResolveState(modules, records, nil, DefaultPassThreshold)
	require.Equal(t, StateInProgress, state.Kind)
	require.Equal(t, 0, state.ModuleIndex)
	require.Equal(t, 1, state.LessonIndex)
}

func TestResolveStateWatchTimeAloneMeansInProgress(t *testing.T) {
	modules := gatedCourse()
	records := recordsFor(models.LessonProgress{LessonID: 1, WatchedSeconds: 120})

	state := ResolveState(modules, records, nil, DefaultPassThreshold)
	require.Equal(t, StateInProgress, state.Kind)
	require.Equal(t, 0, state.LessonIndex)
}

func TestResolveStateAwaitingExam(t *testing.T) {
	modules := gatedCourse()
	records := recordsFor(
		models.LessonProgress{LessonID: 1, Completed: true},
		models.LessonProgress{LessonID: 2, Completed: true},
	)

	state := ResolveState(modules, records, nil, DefaultPassThreshold)
	require.Equal(t, StateAwaitingExam, state.Kind)
	require.Equal(t, 0, state.ModuleIndex)

	// Sub-threshold attempt keeps the student waiting.
	outcomes := map[uint]ModuleOutcome{10: {Score: 65, Passed: false}}
	state = ResolveState(modules, records, outcomes, DefaultPassThreshold)
	require.Equal(t, StateAwaitingExam, state.Kind)
}

func TestResolveStateAdvancesPastQualifiedModule(t *testing.T) {
	modules := gatedCourse()
	records := recordsFor(
		models.LessonProgress{LessonID: 1, Completed: true},
		models.LessonProgress{LessonID: 2, Completed: true},
	)
	outcomes := map[uint]ModuleOutcome{10: {Score: 75, Passed: true}}

	state := ResolveState(modules, records, outcomes, DefaultPassThreshold)
	require.Equal(t, StateUnlocked, state.Kind)
	require.Equal(t, 1, state.ModuleIndex)
}

func TestResolveStateCourseComplete(t *testing.T) {
	modules := gatedCourse()
	records := recordsFor(
		models.LessonProgress{LessonID: 1, Completed: true},
		models.LessonProgress{LessonID: 2, Completed: true},
		models.LessonProgress{LessonID: 3, Completed: true},
	)
	outcomes := map[uint]ModuleOutcome{10: {Score: 75, Passed: true}}

	state := ResolveState(modules, records, outcomes, DefaultPassThreshold)
	require.Equal(t, StateCourseComplete, state.Kind)
}

func TestResolveStateModuleCompleteDeadEnd(t *testing.T) {
	// A fully completed exam-less module cannot unlock its successor.
	modules := []models.Module{
		{ID: 10, Lessons: []models.Lesson{{ID: 1}}},
		{ID: 20, Lessons: []models.Lesson{{ID: 2}}},
	}
	records := recordsFor(models.LessonProgress{LessonID: 1, Completed: true})

	state := ResolveState(modules, records, nil, DefaultPassThreshold)
	require.Equal(t, StateModuleComplete, state.Kind)
	require.Equal(t, 0, state.ModuleIndex)
}

func TestResolveStateEmptyCourse(t *testing.T) {
	state := ResolveState(nil, nil, nil, DefaultPassThreshold)
	require.Equal(t, StateCourseComplete, state.Kind)
}
