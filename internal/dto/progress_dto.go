package dto

import (
	"time"

	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/progression"
)

// WatchTimeRequest reports playback progress for a lesson.
type WatchTimeRequest struct {
	LessonID       uint `json:"lesson_id" validate:"required,gt=0"`
	WatchedSeconds int  `json:"watched_seconds" validate:"gte=0"`
	LastPosition   int  `json:"last_position" validate:"gte=0"`
}

// CompleteLessonRequest marks a lesson as finished.
type CompleteLessonRequest struct {
	LessonID       uint `json:"lesson_id" validate:"required,gt=0"`
	WatchedSeconds int  `json:"watched_seconds" validate:"gte=0"`
}

// LessonProgressResponse serializes a progress row.
type LessonProgressResponse struct {
	LessonID       uint      `json:"lesson_id"`
	StudentID      uint      `json:"student_id"`
	Completed      bool      `json:"completed"`
	WatchedSeconds int       `json:"watched_seconds"`
	LastPosition   int       `json:"last_position"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewLessonProgressResponse converts a LessonProgress model into a DTO.
func NewLessonProgressResponse(model models.LessonProgress) LessonProgressResponse {
	return LessonProgressResponse{
		LessonID:       model.LessonID,
		StudentID:      model.StudentID,
		Completed:      model.Completed,
		WatchedSeconds: model.WatchedSeconds,
		LastPosition:   model.LastPosition,
		UpdatedAt:      model.UpdatedAt,
	}
}

// CompletionResult is returned after marking a lesson completed: the fresh
// course progress plus the side-effect dispatch report.
type CompletionResult struct {
	CourseID    uint                   `json:"course_id"`
	Lesson      LessonProgressResponse `json:"lesson"`
	Progress    progression.Progress   `json:"progress"`
	State       progression.State      `json:"state"`
	SideEffects []SideEffectResult     `json:"side_effects,omitempty"`
	Certificate *CertificateResponse   `json:"certificate,omitempty"`
}

// SideEffectResult reports the outcome of one dispatched side effect.
type SideEffectResult struct {
	Task    string `json:"task"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}
