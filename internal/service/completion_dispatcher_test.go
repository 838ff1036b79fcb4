package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

type stubIssuer struct {
	calls int
	err   error
}

func (s *stubIssuer) EnsureCertificate(_ context.Context, studentID, courseID uint) (models.IssuedCertificate, bool, error) {
	s.calls++
	if s.err != nil {
		return models.IssuedCertificate{}, false, s.err
	}
	return models.IssuedCertificate{StudentID: studentID, CourseID: courseID, SerialNumber: "stub-serial"}, true, nil
}

type stubGamification struct {
	lessonCalls      int
	certificateCalls int
	lessonErr        error
	certificateErr   error
}

func (s *stubGamification) RecordLessonCompletion(context.Context, uint, uint) error {
	s.lessonCalls++
	return s.lessonErr
}

func (s *stubGamification) RecordCertificateEarned(context.Context, uint, uint) error {
	s.certificateCalls++
	return s.certificateErr
}

func resultByTask(t *testing.T, report DispatchReport, task string) (found bool, ok bool, skipped bool) {
	t.Helper()
	for _, result := range report.Results {
		if result.Task == task {
			return true, result.OK, result.Skipped
		}
	}
	return false, false, false
}

func TestDispatchSkipsBelowFullCompletion(t *testing.T) {
	issuer := &stubIssuer{}
	gamification := &stubGamification{}
	dispatcher := NewCompletionDispatcher(issuer, gamification, zerolog.Nop())

	report := dispatcher.Dispatch(context.Background(), CompletionEvent{
		StudentID:      1,
		CourseID:       2,
		LessonID:       3,
		Percent:        67,
		NewlyCompleted: true,
	})

	require.Zero(t, issuer.calls)
	require.Equal(t, 1, gamification.lessonCalls)
	require.Zero(t, gamification.certificateCalls)
	require.Nil(t, report.Certificate)
	require.False(t, report.Failed())

	_, ok, skipped := resultByTask(t, report, TaskEnsureCertificate)
	require.False(t, ok)
	require.True(t, skipped)
}

func TestDispatchSkipsLessonAwardOnRepeat(t *testing.T) {
	issuer := &stubIssuer{}
	gamification := &stubGamification{}
	dispatcher := NewCompletionDispatcher(issuer, gamification, zerolog.Nop())

	report := dispatcher.Dispatch(context.Background(), CompletionEvent{
		StudentID:      1,
		CourseID:       2,
		LessonID:       3,
		Percent:        100,
		NewlyCompleted: false,
	})

	require.Zero(t, gamification.lessonCalls)
	require.Equal(t, 1, issuer.calls)
	require.Equal(t, 1, gamification.certificateCalls)
	require.NotNil(t, report.Certificate)
	require.Equal(t, "stub-serial", report.Certificate.SerialNumber)
}

func TestDispatchTasksFailIndependently(t *testing.T) {
	issuer := &stubIssuer{}
	gamification := &stubGamification{
		lessonErr:      errors.New("gamification down"),
		certificateErr: errors.New("gamification down"),
	}
	dispatcher := NewCompletionDispatcher(issuer, gamification, zerolog.Nop())

	report := dispatcher.Dispatch(context.Background(), CompletionEvent{
		StudentID:      1,
		CourseID:       2,
		LessonID:       3,
		Percent:        100,
		NewlyCompleted: true,
	})

	// The certificate still gets issued around the failing awards.
	require.Equal(t, 1, issuer.calls)
	require.NotNil(t, report.Certificate)
	require.True(t, report.Failed())

	found, ok, skipped := resultByTask(t, report, TaskAwardLessonCompletion)
	require.True(t, found)
	require.False(t, ok)
	require.False(t, skipped)

	found, ok, _ = resultByTask(t, report, TaskEnsureCertificate)
	require.True(t, found)
	require.True(t, ok)
}

func TestDispatchCertificateFailureDoesNotBlockAwards(t *testing.T) {
	issuer := &stubIssuer{err: errors.New("store unavailable")}
	gamification := &stubGamification{}
	dispatcher := NewCompletionDispatcher(issuer, gamification, zerolog.Nop())

	report := dispatcher.Dispatch(context.Background(), CompletionEvent{
		StudentID:      1,
		CourseID:       2,
		LessonID:       3,
		Percent:        100,
		NewlyCompleted: true,
	})

	require.Nil(t, report.Certificate)
	require.True(t, report.Failed())
	require.Equal(t, 1, gamification.lessonCalls)
	require.Equal(t, 1, gamification.certificateCalls)
}
