package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/observability"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// ExamService stores graded exam attempts and reports module verdicts.
type ExamService interface {
	Submit(ctx context.Context, studentID uint, payload dto.ExamSubmissionRequest) (dto.ExamSubmissionResponse, error)
	ModuleOutcome(ctx context.Context, studentID, moduleID uint) (dto.ModuleOutcomeResponse, bool, error)
	ListAttempts(ctx context.Context, studentID, examID uint) ([]dto.ExamSubmissionResponse, error)
}

type examService struct {
	submissions   repository.ExamSubmissionRepository
	courses       repository.CourseRepository
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
	passThreshold float64
}

// NewExamService constructs the exam submission service.
func NewExamService(submissions repository.ExamSubmissionRepository, courses repository.CourseRepository, validate *validator.Validate, passThreshold float64, logger zerolog.Logger) ExamService {
	if passThreshold <= 0 {
		passThreshold = progression.DefaultPassThreshold
	}

	return &examService{
		submissions:   submissions,
		courses:       courses,
		validator:     validate,
		logger:        logger.With().Str("component", "exam_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/sinau-go-api/internal/service/exam"),
		passThreshold: passThreshold,
	}
}

// Submit inserts one immutable attempt. Passed is graded against the exam's
// own passing score, which may sit below the gate threshold; the gate always
// re-checks the numeric threshold itself. The module verdict and downstream
// lock state are re-derived fresh from the full history after the insert.
func (s *examService) Submit(ctx context.Context, studentID uint, payload dto.ExamSubmissionRequest) (dto.ExamSubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ExamSubmissionResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "exams.submit", trace.WithAttributes(
		attribute.Int("exam.id", int(payload.ExamID)),
		attribute.Float64("exam.score", payload.Score),
	))
	defer span.End()

	exam, err := s.courses.GetExam(spanCtx, payload.ExamID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ExamSubmissionResponse{}, ErrExamNotFound
		}
		span.RecordError(err)
		return dto.ExamSubmissionResponse{}, err
	}

	courseID, err := s.courses.CourseIDForModule(spanCtx, exam.ModuleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ExamSubmissionResponse{}, ErrModuleNotFound
		}
		span.RecordError(err)
		return dto.ExamSubmissionResponse{}, err
	}

	cctx, err := loadCourseContext(spanCtx, s.courses, s.submissions, studentID, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.ExamSubmissionResponse{}, err
	}

	moduleIndex := moduleIndexByID(cctx.course.Modules, exam.ModuleID)
	if moduleIndex < 0 {
		return dto.ExamSubmissionResponse{}, ErrModuleNotFound
	}

	// Taking an exam in a locked module is a gate violation like any other.
	if progression.IsLocked(moduleIndex, cctx.course.Modules, cctx.outcomes, s.passThreshold) {
		return dto.ExamSubmissionResponse{}, ErrModuleLocked
	}

	submission := models.ExamSubmission{
		ExamID:    exam.ID,
		StudentID: studentID,
		Score:     payload.Score,
		Passed:    payload.Score >= exam.PassingScore,
	}

	if err := s.submissions.Create(spanCtx, &submission); err != nil {
		span.RecordError(err)
		return dto.ExamSubmissionResponse{}, err
	}

	result := "failed"
	if submission.Passed {
		result = "passed"
	}
	observability.ExamSubmissionsTotal().WithLabelValues(result).Inc()

	// Re-aggregate from the store of record, including the new attempt.
	cctx, err = loadCourseContext(spanCtx, s.courses, s.submissions, studentID, courseID)
	if err != nil {
		span.RecordError(err)
		return dto.ExamSubmissionResponse{}, err
	}

	response := dto.NewExamSubmissionResponse(submission)
	if outcome, ok := cctx.outcomes[exam.ModuleID]; ok {
		response.BestOutcome = newModuleOutcomeResponse(exam.ModuleID, outcome, s.passThreshold)
	}
	if moduleIndex+1 < len(cctx.course.Modules) {
		response.NextModuleUnlocked = !progression.IsLocked(moduleIndex+1, cctx.course.Modules, cctx.outcomes, s.passThreshold)
	}

	s.logger.Info().
		Uint("student_id", studentID).
		Uint("exam_id", exam.ID).
		Float64("score", submission.Score).
		Bool("passed", submission.Passed).
		Bool("next_module_unlocked", response.NextModuleUnlocked).
		Msg("exam submission recorded")

	return response, nil
}

// ModuleOutcome returns the current best outcome for a module, derived fresh.
func (s *examService) ModuleOutcome(ctx context.Context, studentID, moduleID uint) (dto.ModuleOutcomeResponse, bool, error) {
	module, err := s.courses.GetModule(ctx, moduleID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ModuleOutcomeResponse{}, false, ErrModuleNotFound
		}
		return dto.ModuleOutcomeResponse{}, false, err
	}

	examIDs := make([]uint, 0, len(module.Exams))
	for _, exam := range module.Exams {
		examIDs = append(examIDs, exam.ID)
	}

	attempts, err := s.submissions.ListByStudentForExams(ctx, studentID, examIDs)
	if err != nil {
		return dto.ModuleOutcomeResponse{}, false, err
	}

	outcome, ok := progression.BestOutcome(module.Exams, attempts)
	if !ok {
		return dto.ModuleOutcomeResponse{}, false, nil
	}

	return *newModuleOutcomeResponse(moduleID, outcome, s.passThreshold), true, nil
}

func (s *examService) ListAttempts(ctx context.Context, studentID, examID uint) ([]dto.ExamSubmissionResponse, error) {
	attempts, err := s.submissions.ListByStudentAndExam(ctx, studentID, examID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ExamSubmissionResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, dto.NewExamSubmissionResponse(attempt))
	}

	return responses, nil
}

func moduleIndexByID(modules []models.Module, moduleID uint) int {
	for i, module := range modules {
		if module.ID == moduleID {
			return i
		}
	}
	return -1
}

func newModuleOutcomeResponse(moduleID uint, outcome progression.ModuleOutcome, passThreshold float64) *dto.ModuleOutcomeResponse {
	return &dto.ModuleOutcomeResponse{
		ModuleID:     moduleID,
		SubmissionID: outcome.SubmissionID,
		ExamID:       outcome.ExamID,
		Score:        outcome.Score,
		Passed:       outcome.Passed,
		Qualifies:    progression.Qualifies(outcome, true, passThreshold),
	}
}
