package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/observability"
)

// Side-effect task names reported by the dispatcher.
const (
	TaskAwardLessonCompletion  = "award_lesson_completion"
	TaskEnsureCertificate      = "ensure_certificate"
	TaskAwardCourseCertificate = "award_course_certificate"
)

// CompletionEvent describes a confirmed markCompleted write. Percent is the
// course percentage recomputed after the write was acknowledged; the
// dispatcher must never run against an unconfirmed write.
type CompletionEvent struct {
	StudentID      uint
	CourseID       uint
	LessonID       uint
	Percent        int
	NewlyCompleted bool
}

// DispatchReport lists every task the dispatcher ran, each independently
// observable, plus the certificate when one exists for the pair.
type DispatchReport struct {
	Results     []dto.SideEffectResult
	Certificate *dto.CertificateResponse
}

// Failed reports whether any non-skipped task failed.
func (r DispatchReport) Failed() bool {
	for _, result := range r.Results {
		if !result.OK && !result.Skipped {
			return true
		}
	}
	return false
}

// CompletionDispatcher fires the downstream effects of lesson completion.
// Each task is executed independently: a gamification failure never blocks
// certificate issuance and vice versa. Failures are logged and counted but
// never propagate; because every task is idempotent, any later dispatch for
// the same student and course re-attempts what previously failed.
type CompletionDispatcher interface {
	Dispatch(ctx context.Context, event CompletionEvent) DispatchReport
}

type completionDispatcher struct {
	certificates CertificateIssuer
	gamification GamificationCollaborator
	logger       zerolog.Logger
	tracer       trace.Tracer
}

type sideEffectTask struct {
	name string
	skip bool
	run  func(ctx context.Context) error
}

// NewCompletionDispatcher constructs the dispatcher.
func NewCompletionDispatcher(certificates CertificateIssuer, gamification GamificationCollaborator, logger zerolog.Logger) CompletionDispatcher {
	return &completionDispatcher{
		certificates: certificates,
		gamification: gamification,
		logger:       logger.With().Str("component", "completion_dispatcher").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/sinau-go-api/internal/service/completion"),
	}
}

func (d *completionDispatcher) Dispatch(ctx context.Context, event CompletionEvent) DispatchReport {
	spanCtx, span := d.tracer.Start(ctx, "completion.dispatch", trace.WithAttributes(
		attribute.Int("completion.percent", event.Percent),
		attribute.Bool("completion.newly_completed", event.NewlyCompleted),
	))
	defer span.End()

	report := DispatchReport{}

	tasks := []sideEffectTask{
		{
			name: TaskAwardLessonCompletion,
			skip: !event.NewlyCompleted,
			run: func(ctx context.Context) error {
				return d.gamification.RecordLessonCompletion(ctx, event.StudentID, event.LessonID)
			},
		},
		{
			name: TaskEnsureCertificate,
			skip: event.Percent != 100,
			run: func(ctx context.Context) error {
				certificate, _, err := d.certificates.EnsureCertificate(ctx, event.StudentID, event.CourseID)
				if err != nil {
					return err
				}
				response := dto.NewCertificateResponse(certificate)
				report.Certificate = &response
				return nil
			},
		},
		{
			name: TaskAwardCourseCertificate,
			skip: event.Percent != 100,
			run: func(ctx context.Context) error {
				return d.gamification.RecordCertificateEarned(ctx, event.StudentID, event.CourseID)
			},
		},
	}

	for _, task := range tasks {
		result := dto.SideEffectResult{Task: task.name}

		if task.skip {
			result.Skipped = true
			report.Results = append(report.Results, result)
			continue
		}

		if err := task.run(spanCtx); err != nil {
			result.Error = err.Error()
			span.RecordError(err)
			observability.SideEffectFailuresTotal().WithLabelValues(task.name).Inc()
			d.logger.Error().Err(err).
				Str("task", task.name).
				Uint("student_id", event.StudentID).
				Uint("course_id", event.CourseID).
				Msg("completion side effect failed")
		} else {
			result.OK = true
		}

		report.Results = append(report.Results, result)
	}

	return report
}
