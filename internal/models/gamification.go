package models

import (
	"time"

	"gorm.io/datatypes"
)

// Award reasons recorded on gamification events.
const (
	AwardReasonLessonCompleted   = "lesson_completed"
	AwardReasonCertificateEarned = "certificate_earned"
)

// GamificationProfile accumulates points and streaks per student. It is fed
// by discrete award events, never derived from progression state.
type GamificationProfile struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"uniqueIndex;not null" json:"student_id"`
	Points      int        `gorm:"not null;default:0" json:"points"`
	StreakDays  int        `gorm:"not null;default:0" json:"streak_days"`
	LastAwardAt *time.Time `json:"last_award_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// GamificationEvent is the audit trail of individual awards. RefID points at
// the lesson or course that triggered the award and backs the once-per-ref
// idempotency check.
type GamificationEvent struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	StudentID uint              `gorm:"index;not null" json:"student_id"`
	Reason    string            `gorm:"size:64;not null" json:"reason"`
	RefID     uint              `gorm:"index;not null;default:0" json:"ref_id"`
	Points    int               `gorm:"not null" json:"points"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
