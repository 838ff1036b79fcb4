package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

func TestAwardsAreOncePerReference(t *testing.T) {
	db := newTestDB(t, "gamification_once")
	student := seedStudent(t, db, "Rina", "rina@example.com")

	svc := NewGamificationService(repository.NewGamificationRepository(db), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.RecordLessonCompletion(ctx, student.ID, 11))
	require.NoError(t, svc.RecordLessonCompletion(ctx, student.ID, 11))
	require.NoError(t, svc.RecordLessonCompletion(ctx, student.ID, 12))
	require.NoError(t, svc.RecordCertificateEarned(ctx, student.ID, 5))
	require.NoError(t, svc.RecordCertificateEarned(ctx, student.ID, 5))

	profile, err := svc.GetProfile(ctx, student.ID)
	require.NoError(t, err)
	require.Equal(t, 2*PointsLessonCompleted+PointsCertificateEarned, profile.Points)
	require.NotNil(t, profile.LastAwardAt)

	var events int64
	require.NoError(t, db.Model(&models.GamificationEvent{}).
		Where("student_id = ?", student.ID).
		Count(&events).Error)
	require.EqualValues(t, 3, events)
}

func TestProfileForUnknownStudentIsEmpty(t *testing.T) {
	db := newTestDB(t, "gamification_empty_profile")

	svc := NewGamificationService(repository.NewGamificationRepository(db), zerolog.Nop())

	profile, err := svc.GetProfile(context.Background(), 777)
	require.NoError(t, err)
	require.EqualValues(t, 777, profile.StudentID)
	require.Zero(t, profile.Points)
	require.Zero(t, profile.StreakDays)
}

func TestRecentEventsAreOrderedAndLimited(t *testing.T) {
	db := newTestDB(t, "gamification_events")
	student := seedStudent(t, db, "Eko", "eko@example.com")

	svc := NewGamificationService(repository.NewGamificationRepository(db), zerolog.Nop())
	ctx := context.Background()

	for lessonID := uint(1); lessonID <= 5; lessonID++ {
		require.NoError(t, svc.RecordLessonCompletion(ctx, student.ID, lessonID))
	}

	events, err := svc.RecentEvents(ctx, student.ID, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, event := range events {
		require.Equal(t, models.AwardReasonLessonCompleted, event.Reason)
		require.Equal(t, PointsLessonCompleted, event.Points)
	}
}
