package dto

import (
	"time"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// ExamSubmissionRequest records one graded exam attempt.
type ExamSubmissionRequest struct {
	ExamID uint    `json:"exam_id" validate:"required,gt=0"`
	Score  float64 `json:"score" validate:"gte=0,lte=100"`
}

// ExamSubmissionResponse is returned after a submission is stored, together
// with the freshly aggregated module verdict.
type ExamSubmissionResponse struct {
	ID                 uint                   `json:"id"`
	ExamID             uint                   `json:"exam_id"`
	StudentID          uint                   `json:"student_id"`
	Score              float64                `json:"score"`
	Passed             bool                   `json:"passed"`
	CreatedAt          time.Time              `json:"created_at"`
	BestOutcome        *ModuleOutcomeResponse `json:"best_outcome,omitempty"`
	NextModuleUnlocked bool                   `json:"next_module_unlocked"`
}

// ModuleOutcomeResponse serializes the derived best outcome of a module.
type ModuleOutcomeResponse struct {
	ModuleID     uint    `json:"module_id"`
	SubmissionID uint    `json:"submission_id"`
	ExamID       uint    `json:"exam_id"`
	Score        float64 `json:"score"`
	Passed       bool    `json:"passed"`
	Qualifies    bool    `json:"qualifies"`
}

// NewExamSubmissionResponse converts a submission model into a DTO.
func NewExamSubmissionResponse(model models.ExamSubmission) ExamSubmissionResponse {
	return ExamSubmissionResponse{
		ID:        model.ID,
		ExamID:    model.ExamID,
		StudentID: model.StudentID,
		Score:     model.Score,
		Passed:    model.Passed,
		CreatedAt: model.CreatedAt,
	}
}
