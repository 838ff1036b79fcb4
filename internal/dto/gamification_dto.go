package dto

import (
	"time"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// GamificationProfileResponse serializes a student's points and streak.
type GamificationProfileResponse struct {
	StudentID   uint       `json:"student_id"`
	Points      int        `json:"points"`
	StreakDays  int        `json:"streak_days"`
	LastAwardAt *time.Time `json:"last_award_at,omitempty"`
}

// NewGamificationProfileResponse converts a profile model into a DTO.
func NewGamificationProfileResponse(model models.GamificationProfile) GamificationProfileResponse {
	return GamificationProfileResponse{
		StudentID:   model.StudentID,
		Points:      model.Points,
		StreakDays:  model.StreakDays,
		LastAwardAt: model.LastAwardAt,
	}
}

// GamificationEventResponse serializes one award event.
type GamificationEventResponse struct {
	ID        uint      `json:"id"`
	Reason    string    `json:"reason"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGamificationEventResponseSlice converts event models into DTOs.
func NewGamificationEventResponseSlice(models []models.GamificationEvent) []GamificationEventResponse {
	responses := make([]GamificationEventResponse, 0, len(models))
	for _, event := range models {
		responses = append(responses, GamificationEventResponse{
			ID:        event.ID,
			Reason:    event.Reason,
			Points:    event.Points,
			CreatedAt: event.CreatedAt,
		})
	}

	return responses
}
