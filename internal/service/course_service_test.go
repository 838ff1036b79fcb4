package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/repository"
	"gorm.io/gorm"
)

func newCourseFixture(t *testing.T, dbName string) (CourseService, ExamService, ProgressService, *gorm.DB, models.Course, models.Student) {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := newTestDB(t, dbName)
	course := seedTwoModuleCourse(t, db)
	student := seedStudent(t, db, "Putri", "putri@example.com")

	validate := newTestValidator()
	logger := zerolog.Nop()

	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewLessonProgressRepository(db)
	submissionRepo := repository.NewExamSubmissionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)

	dispatcher := NewCompletionDispatcher(
		NewCertificateService(certificateRepo, nil, "", logger),
		NewGamificationService(gamificationRepo, logger),
		logger,
	)

	courses := NewCourseService(courseRepo, progressRepo, submissionRepo, redisClient, time.Minute, validate, 70, logger)
	exams := NewExamService(submissionRepo, courseRepo, validate, 70, logger)
	progress := NewProgressService(progressRepo, courseRepo, submissionRepo, dispatcher, validate, 70, logger)

	return courses, exams, progress, db, course, student
}

func TestGetOutlineReflectsGateAndProgress(t *testing.T) {
	courses, exams, progress, _, course, student := newCourseFixture(t, "course_outline")
	ctx := context.Background()

	outline, err := courses.GetOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, outline.Modules, 2)
	require.False(t, outline.Modules[0].Locked)
	require.True(t, outline.Modules[1].Locked)
	require.Equal(t, 0, outline.Progress.Percent)
	require.Equal(t, progression.StateUnlocked, outline.State.Kind)

	for _, lesson := range course.Modules[0].Lessons {
		_, err := progress.MarkCompleted(ctx, student.ID, dto.CompleteLessonRequest{LessonID: lesson.ID})
		require.NoError(t, err)
	}

	outline, err = courses.GetOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, 67, outline.Progress.Percent)
	require.True(t, outline.Modules[0].AwaitingExam)
	require.True(t, outline.Modules[1].Locked)
	require.Equal(t, progression.StateAwaitingExam, outline.State.Kind)

	// A qualifying submission must flip the verdict with no cache invalidation.
	_, err = exams.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: course.Modules[0].Exams[0].ID, Score: 82})
	require.NoError(t, err)

	outline, err = courses.GetOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.False(t, outline.Modules[0].AwaitingExam)
	require.False(t, outline.Modules[1].Locked)
	require.NotNil(t, outline.Modules[0].BestOutcome)
	require.True(t, outline.Modules[0].BestOutcome.Qualifies)
	require.True(t, outline.Modules[0].Lessons[0].Completed)
}

func TestGetOutlineServesStructureFromCache(t *testing.T) {
	courses, _, _, db, course, student := newCourseFixture(t, "course_cache")
	ctx := context.Background()

	first, err := courses.GetOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)

	// Structure edits behind the cache are not visible until the TTL expires.
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).Update("title", "Renamed").Error)

	second, err := courses.GetOutline(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Equal(t, first.Title, second.Title)
}

func TestCreateCourseAssignsPositions(t *testing.T) {
	courses, _, _, _, _, _ := newCourseFixture(t, "course_create")
	ctx := context.Background()

	created, err := courses.Create(ctx, dto.CourseCreateRequest{
		Title: "Concurrency Patterns",
		Modules: []dto.ModuleCreateRequest{
			{
				Title:   "Goroutines",
				Lessons: []dto.LessonCreateRequest{{Title: "Spawning"}, {Title: "Waiting"}},
				Exams:   []dto.ExamCreateRequest{{Title: "Checkpoint"}},
			},
			{
				Title:   "Channels",
				Lessons: []dto.LessonCreateRequest{{Title: "Buffering"}},
			},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	list, err := courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	student := uint(1)
	outline, err := courses.GetOutline(ctx, student, created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, outline.Modules[0].Position)
	require.Equal(t, 1, outline.Modules[1].Position)
	// An omitted passing score defaults to the gate threshold.
	require.InDelta(t, 70, outline.Modules[0].Exams[0].PassingScore, 0.001)

	_, err = courses.Create(ctx, dto.CourseCreateRequest{Title: "x"})
	require.Error(t, err)
}

func TestNavigationHonorsGate(t *testing.T) {
	courses, exams, progress, _, course, student := newCourseFixture(t, "course_navigation")
	ctx := context.Background()

	// Within module 0 navigation is free.
	response, err := courses.NextLesson(ctx, student.ID, course.ID, progression.LessonRef{ModuleIndex: 0, LessonIndex: 0})
	require.NoError(t, err)
	require.Equal(t, progression.NavOK, response.Status)
	require.Equal(t, 1, response.Ref.LessonIndex)
	require.NotNil(t, response.Lesson)

	// Crossing the boundary without a qualifying outcome reports the exam.
	response, err = courses.NextLesson(ctx, student.ID, course.ID, progression.LessonRef{ModuleIndex: 0, LessonIndex: 1})
	require.NoError(t, err)
	require.Equal(t, progression.NavAwaitingExam, response.Status)
	require.Nil(t, response.Lesson)

	_, err = exams.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: course.Modules[0].Exams[0].ID, Score: 90})
	require.NoError(t, err)

	response, err = courses.NextLesson(ctx, student.ID, course.ID, progression.LessonRef{ModuleIndex: 0, LessonIndex: 1})
	require.NoError(t, err)
	require.Equal(t, progression.NavOK, response.Status)
	require.Equal(t, 1, response.Ref.ModuleIndex)
	require.Equal(t, 0, response.Ref.LessonIndex)

	// Previous is never gated and carries recorded progress.
	_, err = progress.MarkCompleted(ctx, student.ID, dto.CompleteLessonRequest{LessonID: course.Modules[0].Lessons[1].ID})
	require.NoError(t, err)

	response, err = courses.PreviousLesson(ctx, student.ID, course.ID, progression.LessonRef{ModuleIndex: 1, LessonIndex: 0})
	require.NoError(t, err)
	require.Equal(t, progression.NavOK, response.Status)
	require.Equal(t, 0, response.Ref.ModuleIndex)
	require.Equal(t, 1, response.Ref.LessonIndex)
	require.True(t, response.Lesson.Completed)

	response, err = courses.NextLesson(ctx, student.ID, course.ID, progression.LessonRef{ModuleIndex: 1, LessonIndex: 0})
	require.NoError(t, err)
	require.Equal(t, progression.NavCourseEnd, response.Status)

	_, err = courses.NextLesson(ctx, student.ID, 4242, progression.LessonRef{})
	require.ErrorIs(t, err, ErrCourseNotFound)
}
