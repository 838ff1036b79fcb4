package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// CourseService serves the catalog and the per-student course outline with
// gate state, navigation and overall progress.
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	GetOutline(ctx context.Context, studentID, courseID uint) (dto.CourseOutlineResponse, error)
	NextLesson(ctx context.Context, studentID, courseID uint, current progression.LessonRef) (dto.NavigationResponse, error)
	PreviousLesson(ctx context.Context, studentID, courseID uint, current progression.LessonRef) (dto.NavigationResponse, error)
}

type courseService struct {
	courses       repository.CourseRepository
	progress      repository.LessonProgressRepository
	submissions   repository.ExamSubmissionRepository
	cache         *redis.Client
	cacheTTL      time.Duration
	validator     *validator.Validate
	logger        zerolog.Logger
	passThreshold float64
}

// NewCourseService builds the course read model. cache may be nil.
//
// Only the static course structure is ever cached. Gate verdicts, outcomes
// and percentages are recomputed from fresh reads on every call: a new exam
// submission must flip the verdict with no other invalidation signal.
func NewCourseService(courses repository.CourseRepository, progress repository.LessonProgressRepository, submissions repository.ExamSubmissionRepository, cache *redis.Client, cacheTTL time.Duration, validate *validator.Validate, passThreshold float64, logger zerolog.Logger) CourseService {
	if passThreshold <= 0 {
		passThreshold = progression.DefaultPassThreshold
	}

	return &courseService{
		courses:       courses,
		progress:      progress,
		submissions:   submissions,
		cache:         cache,
		cacheTTL:      cacheTTL,
		validator:     validate,
		logger:        logger.With().Str("component", "course_service").Logger(),
		passThreshold: passThreshold,
	}
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.NewCourseResponse(course))
	}

	return responses, nil
}

// Create seeds a course with its modules, lessons and exams. Order indices
// are assigned from slice order.
func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:           payload.Title,
		Description:     payload.Description,
		DurationMinutes: payload.DurationMinutes,
	}

	for m, modulePayload := range payload.Modules {
		module := models.Module{
			Position: m,
			Title:    modulePayload.Title,
		}
		for l, lessonPayload := range modulePayload.Lessons {
			module.Lessons = append(module.Lessons, models.Lesson{
				Position:        l,
				Title:           lessonPayload.Title,
				DurationSeconds: lessonPayload.DurationSeconds,
				MaterialURL:     lessonPayload.MaterialURL,
			})
		}
		for _, examPayload := range modulePayload.Exams {
			passingScore := examPayload.PassingScore
			if passingScore == 0 {
				passingScore = progression.DefaultPassThreshold
			}
			module.Exams = append(module.Exams, models.Exam{
				Title:        examPayload.Title,
				PassingScore: passingScore,
			})
		}
		course.Modules = append(course.Modules, module)
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.invalidateStructure(ctx, course.ID)

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) GetOutline(ctx context.Context, studentID, courseID uint) (dto.CourseOutlineResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.CourseOutlineResponse{}, err
	}

	cctx, err := buildCourseContext(ctx, s.submissions, studentID, course)
	if err != nil {
		return dto.CourseOutlineResponse{}, err
	}

	records, err := s.progress.ListByStudentForLessons(ctx, studentID, cctx.lessonIDs())
	if err != nil {
		return dto.CourseOutlineResponse{}, err
	}
	byLesson := progressByLesson(records)

	outline := dto.CourseOutlineResponse{
		CourseID: course.ID,
		Title:    course.Title,
		Progress: progression.ComputeProgress(cctx.lessons, records),
		State:    progression.ResolveState(course.Modules, byLesson, cctx.outcomes, s.passThreshold),
	}

	for m, module := range course.Modules {
		moduleOutline := dto.ModuleOutline{
			ID:       module.ID,
			Position: module.Position,
			Title:    module.Title,
			Locked:   progression.IsLocked(m, course.Modules, cctx.outcomes, s.passThreshold),
		}

		allCompleted := len(module.Lessons) > 0
		for _, lesson := range module.Lessons {
			record := byLesson[lesson.ID]
			if !record.Completed {
				allCompleted = false
			}
			moduleOutline.Lessons = append(moduleOutline.Lessons, dto.LessonOutline{
				ID:              lesson.ID,
				Position:        lesson.Position,
				Title:           lesson.Title,
				DurationSeconds: lesson.DurationSeconds,
				MaterialURL:     lesson.MaterialURL,
				Completed:       record.Completed,
				WatchedSeconds:  record.WatchedSeconds,
				LastPosition:    record.LastPosition,
			})
		}

		for _, exam := range module.Exams {
			moduleOutline.Exams = append(moduleOutline.Exams, dto.ExamOutline{
				ID:           exam.ID,
				Title:        exam.Title,
				PassingScore: exam.PassingScore,
			})
		}

		if outcome, ok := cctx.outcomes[module.ID]; ok {
			moduleOutline.BestOutcome = newModuleOutcomeResponse(module.ID, outcome, s.passThreshold)
		}

		qualified := progression.Qualifies(cctx.outcomes[module.ID], moduleOutline.BestOutcome != nil, s.passThreshold)
		moduleOutline.AwaitingExam = !moduleOutline.Locked && allCompleted && len(module.Exams) > 0 && !qualified

		outline.Modules = append(outline.Modules, moduleOutline)
	}

	return outline, nil
}

func (s *courseService) NextLesson(ctx context.Context, studentID, courseID uint, current progression.LessonRef) (dto.NavigationResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.NavigationResponse{}, err
	}

	cctx, err := buildCourseContext(ctx, s.submissions, studentID, course)
	if err != nil {
		return dto.NavigationResponse{}, err
	}

	ref, status := progression.NextLesson(current, course.Modules, cctx.outcomes, s.passThreshold)
	return s.navigationResponse(ctx, studentID, course, ref, status)
}

func (s *courseService) PreviousLesson(ctx context.Context, studentID, courseID uint, current progression.LessonRef) (dto.NavigationResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.NavigationResponse{}, err
	}

	ref, status := progression.PreviousLesson(current, course.Modules)
	return s.navigationResponse(ctx, studentID, course, ref, status)
}

func (s *courseService) navigationResponse(ctx context.Context, studentID uint, course models.Course, ref progression.LessonRef, status progression.NavStatus) (dto.NavigationResponse, error) {
	response := dto.NavigationResponse{Status: status}
	if status != progression.NavOK {
		return response, nil
	}

	response.Ref = &ref
	lesson := course.Modules[ref.ModuleIndex].Lessons[ref.LessonIndex]

	outline := dto.LessonOutline{
		ID:              lesson.ID,
		Position:        lesson.Position,
		Title:           lesson.Title,
		DurationSeconds: lesson.DurationSeconds,
		MaterialURL:     lesson.MaterialURL,
	}

	record, err := s.progress.GetByStudentAndLesson(ctx, studentID, lesson.ID)
	if err == nil {
		outline.Completed = record.Completed
		outline.WatchedSeconds = record.WatchedSeconds
		outline.LastPosition = record.LastPosition
	} else if !repository.IsNotFound(err) {
		return dto.NavigationResponse{}, err
	}

	response.Lesson = &outline
	return response, nil
}

// loadCourse reads the course structure through the redis cache. Structure
// changes only through authoring, so a short TTL is safe; nothing derived
// from student activity is stored here.
func (s *courseService) loadCourse(ctx context.Context, courseID uint) (models.Course, error) {
	cacheKey := s.structureKey(courseID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var course models.Course
			if unmarshalErr := json.Unmarshal([]byte(cached), &course); unmarshalErr == nil {
				s.logger.Debug().Uint("course_id", courseID).Msg("course structure cache hit")
				return course, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read course structure cache")
		}
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(course); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store course structure cache")
			}
		}
	}

	return course, nil
}

func (s *courseService) invalidateStructure(ctx context.Context, courseID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.structureKey(courseID)).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate course structure cache")
	}
}

func (s *courseService) structureKey(courseID uint) string {
	return fmt.Sprintf("course:structure:%d", courseID)
}
