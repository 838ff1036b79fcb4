package dto

import (
	"time"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// CertificateResponse serializes an issued certificate.
type CertificateResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	CourseTitle  string    `json:"course_title,omitempty"`
	SerialNumber string    `json:"serial_number"`
	IssuedAt     time.Time `json:"issued_at"`
}

// NewCertificateResponse converts an IssuedCertificate model into a DTO.
func NewCertificateResponse(model models.IssuedCertificate) CertificateResponse {
	return CertificateResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		CourseID:     model.CourseID,
		CourseTitle:  model.Course.Title,
		SerialNumber: model.SerialNumber,
		IssuedAt:     model.IssuedAt,
	}
}

// NewCertificateResponseSlice converts certificate models into DTOs.
func NewCertificateResponseSlice(models []models.IssuedCertificate) []CertificateResponse {
	responses := make([]CertificateResponse, 0, len(models))
	for _, certificate := range models {
		responses = append(responses, NewCertificateResponse(certificate))
	}

	return responses
}
