package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// GamificationRepository feeds the points/streak profile through discrete
// award events. The profile is never recomputed from progression state.
type GamificationRepository interface {
	GetProfile(ctx context.Context, studentID uint) (models.GamificationProfile, error)
	Award(ctx context.Context, studentID uint, reason string, refID uint, points int, metadata map[string]interface{}) (models.GamificationProfile, error)
	HasEvent(ctx context.Context, studentID uint, reason string, refID uint) (bool, error)
	ListEvents(ctx context.Context, studentID uint, limit int) ([]models.GamificationEvent, error)
}

type gamificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGamificationRepository constructs the repository.
func NewGamificationRepository(db *gorm.DB) GamificationRepository {
	return &gamificationRepository{db: db, now: time.Now}
}

func (r *gamificationRepository) GetProfile(ctx context.Context, studentID uint) (models.GamificationProfile, error) {
	var profile models.GamificationProfile
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&profile).Error
	if err != nil {
		return models.GamificationProfile{}, err
	}

	return profile, nil
}

// Award writes the event and updates the profile in one transaction so a
// partial failure never leaves points without an audit trail.
func (r *gamificationRepository) Award(ctx context.Context, studentID uint, reason string, refID uint, points int, metadata map[string]interface{}) (models.GamificationProfile, error) {
	var profile models.GamificationProfile
	now := r.now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := models.GamificationEvent{
			StudentID: studentID,
			Reason:    reason,
			RefID:     refID,
			Points:    points,
			Metadata:  toJSONMap(metadata),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		err := tx.Where("student_id = ?", studentID).First(&profile).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			profile = models.GamificationProfile{StudentID: studentID}
		case err != nil:
			return err
		}

		profile.Points += points
		profile.StreakDays = nextStreak(profile.StreakDays, profile.LastAwardAt, now)
		profile.LastAwardAt = &now

		return tx.Save(&profile).Error
	})
	if err != nil {
		return models.GamificationProfile{}, err
	}

	return profile, nil
}

func (r *gamificationRepository) HasEvent(ctx context.Context, studentID uint, reason string, refID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GamificationEvent{}).
		Where("student_id = ?", studentID).
		Where("reason = ?", reason).
		Where("ref_id = ?", refID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *gamificationRepository) ListEvents(ctx context.Context, studentID uint, limit int) ([]models.GamificationEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	var events []models.GamificationEvent
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func nextStreak(current int, lastAward *time.Time, now time.Time) int {
	if lastAward == nil {
		return 1
	}

	today := now.Truncate(24 * time.Hour)
	lastDay := lastAward.UTC().Truncate(24 * time.Hour)

	switch {
	case lastDay.Equal(today):
		return maxStreak(current, 1)
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return current + 1
	default:
		return 1
	}
}

func maxStreak(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func toJSONMap(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	result := datatypes.JSONMap{}
	for key, value := range metadata {
		result[key] = value
	}
	return result
}
