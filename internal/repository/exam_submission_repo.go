package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// ExamSubmissionRepository stores graded attempts. Insert-only: submissions
// are never updated or deleted so aggregation can replay the full history.
type ExamSubmissionRepository interface {
	Create(ctx context.Context, submission *models.ExamSubmission) error
	ListByStudentForExams(ctx context.Context, studentID uint, examIDs []uint) ([]models.ExamSubmission, error)
	ListByStudentAndExam(ctx context.Context, studentID, examID uint) ([]models.ExamSubmission, error)
}

type examSubmissionRepository struct {
	db *gorm.DB
}

// NewExamSubmissionRepository constructs the repository.
func NewExamSubmissionRepository(db *gorm.DB) ExamSubmissionRepository {
	return &examSubmissionRepository{db: db}
}

func (r *examSubmissionRepository) Create(ctx context.Context, submission *models.ExamSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *examSubmissionRepository) ListByStudentForExams(ctx context.Context, studentID uint, examIDs []uint) ([]models.ExamSubmission, error) {
	if len(examIDs) == 0 {
		return nil, nil
	}

	var submissions []models.ExamSubmission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("exam_id IN ?", examIDs).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *examSubmissionRepository) ListByStudentAndExam(ctx context.Context, studentID, examID uint) ([]models.ExamSubmission, error) {
	var submissions []models.ExamSubmission
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("exam_id = ?", examID).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}
