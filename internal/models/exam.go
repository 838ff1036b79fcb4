package models

import "time"

// Exam gates progression out of its module. PassingScore is a percentage.
type Exam struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ModuleID     uint      `gorm:"index;not null" json:"module_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	PassingScore float64   `gorm:"not null;default:70" json:"passing_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ExamSubmission is one graded attempt. Rows are insert-only: re-attempts
// create new rows and nothing is ever mutated or deleted, so the best outcome
// can always be re-derived from the full history.
type ExamSubmission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ExamID    uint      `gorm:"index;not null" json:"exam_id"`
	StudentID uint      `gorm:"index;not null" json:"student_id"`
	Score     float64   `gorm:"not null" json:"score"`
	Passed    bool      `gorm:"not null" json:"passed"`
	CreatedAt time.Time `json:"created_at"`

	Exam    Exam    `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}
