package models

import "time"

// IssuedCertificate records a completed course. The unique index on
// (student_id, course_id) is the idempotency record: issuance is
// check-then-act against it and a second request is a no-op.
type IssuedCertificate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"uniqueIndex:idx_student_course;not null" json:"student_id"`
	CourseID     uint      `gorm:"uniqueIndex:idx_student_course;not null" json:"course_id"`
	SerialNumber string    `gorm:"size:64;uniqueIndex;not null" json:"serial_number"`
	IssuedAt     time.Time `gorm:"not null" json:"issued_at"`
	CreatedAt    time.Time `json:"created_at"`

	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Course  Course  `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}
