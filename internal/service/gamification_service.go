package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/observability"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// Points awarded per qualifying event.
const (
	PointsLessonCompleted   = 10
	PointsCertificateEarned = 100
)

// GamificationCollaborator is the boundary the dispatcher fires awards into.
// Both calls are idempotent per (student, reference): repeating one is a
// no-op, which lets the dispatcher re-attempt freely after failures.
type GamificationCollaborator interface {
	RecordLessonCompletion(ctx context.Context, studentID, lessonID uint) error
	RecordCertificateEarned(ctx context.Context, studentID, courseID uint) error
}

// GamificationService is the repo-backed collaborator plus profile queries.
type GamificationService interface {
	GamificationCollaborator
	GetProfile(ctx context.Context, studentID uint) (dto.GamificationProfileResponse, error)
	RecentEvents(ctx context.Context, studentID uint, limit int) ([]dto.GamificationEventResponse, error)
}

type gamificationService struct {
	repo   repository.GamificationRepository
	logger zerolog.Logger
}

// NewGamificationService constructs the gamification collaborator.
func NewGamificationService(repo repository.GamificationRepository, logger zerolog.Logger) GamificationService {
	return &gamificationService{
		repo:   repo,
		logger: logger.With().Str("component", "gamification_service").Logger(),
	}
}

func (s *gamificationService) RecordLessonCompletion(ctx context.Context, studentID, lessonID uint) error {
	return s.awardOnce(ctx, studentID, models.AwardReasonLessonCompleted, lessonID, PointsLessonCompleted, map[string]interface{}{
		"lesson_id": lessonID,
	})
}

func (s *gamificationService) RecordCertificateEarned(ctx context.Context, studentID, courseID uint) error {
	return s.awardOnce(ctx, studentID, models.AwardReasonCertificateEarned, courseID, PointsCertificateEarned, map[string]interface{}{
		"course_id": courseID,
	})
}

func (s *gamificationService) awardOnce(ctx context.Context, studentID uint, reason string, refID uint, points int, metadata map[string]interface{}) error {
	exists, err := s.repo.HasEvent(ctx, studentID, reason, refID)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug().
			Uint("student_id", studentID).
			Str("reason", reason).
			Uint("ref_id", refID).
			Msg("award already recorded, skipping")
		return nil
	}

	if _, err := s.repo.Award(ctx, studentID, reason, refID, points, metadata); err != nil {
		return err
	}

	observability.GamificationAwardsTotal().WithLabelValues(reason).Inc()

	return nil
}

func (s *gamificationService) GetProfile(ctx context.Context, studentID uint) (dto.GamificationProfileResponse, error) {
	profile, err := s.repo.GetProfile(ctx, studentID)
	if err != nil {
		if repository.IsNotFound(err) {
			// A student with no awards yet has an empty profile, not an error.
			return dto.GamificationProfileResponse{StudentID: studentID}, nil
		}
		return dto.GamificationProfileResponse{}, err
	}

	return dto.NewGamificationProfileResponse(profile), nil
}

func (s *gamificationService) RecentEvents(ctx context.Context, studentID uint, limit int) ([]dto.GamificationEventResponse, error) {
	events, err := s.repo.ListEvents(ctx, studentID, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewGamificationEventResponseSlice(events), nil
}
