package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// CertificateRepository queries and records issued certificates. The unique
// (student_id, course_id) index backs the issuance idempotency check.
type CertificateRepository interface {
	GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.IssuedCertificate, error)
	Create(ctx context.Context, certificate *models.IssuedCertificate) error
	ListByStudent(ctx context.Context, studentID uint) ([]models.IssuedCertificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository constructs the repository.
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID uint) (models.IssuedCertificate, error) {
	var certificate models.IssuedCertificate
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("course_id = ?", courseID).
		First(&certificate).Error
	if err != nil {
		return models.IssuedCertificate{}, err
	}

	return certificate, nil
}

func (r *certificateRepository) Create(ctx context.Context, certificate *models.IssuedCertificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}

func (r *certificateRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.IssuedCertificate, error) {
	var certificates []models.IssuedCertificate
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("issued_at DESC").
		Find(&certificates).Error
	if err != nil {
		return nil, err
	}

	return certificates, nil
}
