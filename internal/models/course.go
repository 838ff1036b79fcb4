package models

import "time"

// Course is an ordered collection of modules a student can enrol in.
type Course struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Modules         []Module  `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Module is a chapter of a course. Position is the 0-based order index that
// drives sequencing and gating.
type Module struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Position  int       `gorm:"not null" json:"position"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Lessons   []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Exams     []Exam    `gorm:"constraint:OnDelete:CASCADE" json:"exams,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lesson is a single unit of content within a module.
type Lesson struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ModuleID        uint      `gorm:"index;not null" json:"module_id"`
	Position        int       `gorm:"not null" json:"position"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
	MaterialURL     string    `gorm:"size:512" json:"material_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
