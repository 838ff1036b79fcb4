package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/observability"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// ProgressService is the write path of the progression engine: watch-time
// updates and lesson completion, gate-checked before any store write.
type ProgressService interface {
	RecordWatchTime(ctx context.Context, studentID uint, payload dto.WatchTimeRequest) (dto.LessonProgressResponse, error)
	MarkCompleted(ctx context.Context, studentID uint, payload dto.CompleteLessonRequest) (dto.CompletionResult, error)
}

type progressService struct {
	progress      repository.LessonProgressRepository
	courses       repository.CourseRepository
	submissions   repository.ExamSubmissionRepository
	dispatcher    CompletionDispatcher
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	passThreshold float64
}

// NewProgressService builds the progress write path.
func NewProgressService(progress repository.LessonProgressRepository, courses repository.CourseRepository, submissions repository.ExamSubmissionRepository, dispatcher CompletionDispatcher, validate *validator.Validate, passThreshold float64, logger zerolog.Logger) ProgressService {
	if passThreshold <= 0 {
		passThreshold = progression.DefaultPassThreshold
	}

	return &progressService{
		progress:      progress,
		courses:       courses,
		submissions:   submissions,
		dispatcher:    dispatcher,
		validator:     validate,
		logger:        logger.With().Str("component", "progress_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/sinau-go-api/internal/service/progress"),
		passThreshold: passThreshold,
	}
}

// RecordWatchTime upserts playback position for a lesson. It never sets the
// completed flag and is rejected for lessons in locked modules.
func (s *progressService) RecordWatchTime(ctx context.Context, studentID uint, payload dto.WatchTimeRequest) (dto.LessonProgressResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LessonProgressResponse{}, err
	}

	cctx, moduleIndex, _, err := s.loadLessonContext(ctx, studentID, payload.LessonID)
	if err != nil {
		return dto.LessonProgressResponse{}, err
	}

	if progression.IsLocked(moduleIndex, cctx.course.Modules, cctx.outcomes, s.passThreshold) {
		return dto.LessonProgressResponse{}, ErrModuleLocked
	}

	record, err := s.progress.UpsertWatchTime(ctx, studentID, payload.LessonID, payload.WatchedSeconds, payload.LastPosition)
	if err != nil {
		return dto.LessonProgressResponse{}, err
	}

	return dto.NewLessonProgressResponse(record), nil
}

// MarkCompleted flags a lesson as finished and, once the write is confirmed,
// recomputes course progress from a fresh read and dispatches completion side
// effects. A failed upsert propagates before any side effect can fire.
func (s *progressService) MarkCompleted(ctx context.Context, studentID uint, payload dto.CompleteLessonRequest) (dto.CompletionResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CompletionResult{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "progress.mark_completed", trace.WithAttributes(
		attribute.Int("lesson.id", int(payload.LessonID)),
	))
	defer span.End()

	cctx, moduleIndex, _, err := s.loadLessonContext(spanCtx, studentID, payload.LessonID)
	if err != nil {
		span.RecordError(err)
		return dto.CompletionResult{}, err
	}

	// Gate violation is a precondition check, not a post-hoc rollback.
	if progression.IsLocked(moduleIndex, cctx.course.Modules, cctx.outcomes, s.passThreshold) {
		return dto.CompletionResult{}, ErrModuleLocked
	}

	alreadyCompleted := false
	if prior, err := s.progress.GetByStudentAndLesson(spanCtx, studentID, payload.LessonID); err == nil {
		alreadyCompleted = prior.Completed
	} else if !repository.IsNotFound(err) {
		span.RecordError(err)
		return dto.CompletionResult{}, err
	}

	record, err := s.progress.MarkCompleted(spanCtx, studentID, payload.LessonID, payload.WatchedSeconds)
	if err != nil {
		span.RecordError(err)
		return dto.CompletionResult{}, err
	}

	if !alreadyCompleted {
		observability.LessonsCompletedTotal().Inc()
	}

	// Fresh read after the confirmed write; cached state is advisory only.
	records, err := s.progress.ListByStudentForLessons(spanCtx, studentID, cctx.lessonIDs())
	if err != nil {
		span.RecordError(err)
		return dto.CompletionResult{}, err
	}

	result := dto.CompletionResult{
		CourseID: cctx.course.ID,
		Lesson:   dto.NewLessonProgressResponse(record),
		Progress: progression.ComputeProgress(cctx.lessons, records),
		State:    progression.ResolveState(cctx.course.Modules, progressByLesson(records), cctx.outcomes, s.passThreshold),
	}

	report := s.dispatcher.Dispatch(spanCtx, CompletionEvent{
		StudentID:      studentID,
		CourseID:       cctx.course.ID,
		LessonID:       payload.LessonID,
		Percent:        result.Progress.Percent,
		NewlyCompleted: !alreadyCompleted,
	})
	result.SideEffects = report.Results
	result.Certificate = report.Certificate

	return result, nil
}

func (s *progressService) loadLessonContext(ctx context.Context, studentID, lessonID uint) (courseContext, int, int, error) {
	lesson, err := s.courses.GetLesson(ctx, lessonID)
	if err != nil {
		if repository.IsNotFound(err) {
			return courseContext{}, 0, 0, ErrLessonNotFound
		}
		return courseContext{}, 0, 0, err
	}

	courseID, err := s.courses.CourseIDForModule(ctx, lesson.ModuleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return courseContext{}, 0, 0, ErrModuleNotFound
		}
		return courseContext{}, 0, 0, err
	}

	cctx, err := loadCourseContext(ctx, s.courses, s.submissions, studentID, courseID)
	if err != nil {
		return courseContext{}, 0, 0, err
	}

	moduleIndex, lessonIndex, ok := cctx.locateLesson(lessonID)
	if !ok {
		return courseContext{}, 0, 0, ErrLessonNotFound
	}

	return cctx, moduleIndex, lessonIndex, nil
}
