package models

import "time"

// LessonProgress tracks one student's state on one lesson. At most one row
// exists per (student, lesson) pair; writes use upsert semantics and rows are
// never deleted by the engine.
type LessonProgress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"uniqueIndex:idx_student_lesson;not null" json:"student_id"`
	LessonID       uint      `gorm:"uniqueIndex:idx_student_lesson;not null" json:"lesson_id"`
	Completed      bool      `gorm:"not null;default:false" json:"completed"`
	WatchedSeconds int       `gorm:"not null;default:0" json:"watched_seconds"`
	LastPosition   int       `gorm:"not null;default:0" json:"last_position"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
