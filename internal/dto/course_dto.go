package dto

import (
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/progression"
)

// CourseCreateRequest seeds a course with its nested modules, lessons and
// exams. Order indices follow slice order.
type CourseCreateRequest struct {
	Title           string                `json:"title" validate:"required,min=3"`
	Description     string                `json:"description"`
	DurationMinutes int                   `json:"duration_minutes" validate:"gte=0"`
	Modules         []ModuleCreateRequest `json:"modules" validate:"dive"`
}

// ModuleCreateRequest describes one module in a course seed payload.
type ModuleCreateRequest struct {
	Title   string                `json:"title" validate:"required,min=3"`
	Lessons []LessonCreateRequest `json:"lessons" validate:"dive"`
	Exams   []ExamCreateRequest   `json:"exams" validate:"dive"`
}

// LessonCreateRequest describes one lesson in a course seed payload.
type LessonCreateRequest struct {
	Title           string `json:"title" validate:"required,min=3"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
	MaterialURL     string `json:"material_url" validate:"omitempty,url"`
}

// ExamCreateRequest describes one exam in a course seed payload.
type ExamCreateRequest struct {
	Title        string  `json:"title" validate:"required,min=3"`
	PassingScore float64 `json:"passing_score" validate:"gte=0,lte=100"`
}

// CourseResponse is the catalog view of a course.
type CourseResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		DurationMinutes: model.DurationMinutes,
	}
}

// CourseOutlineResponse is the per-student view of a course: structure plus
// lock state, completion and overall progress, recomputed fresh per request.
type CourseOutlineResponse struct {
	CourseID uint                 `json:"course_id"`
	Title    string               `json:"title"`
	Progress progression.Progress `json:"progress"`
	State    progression.State    `json:"state"`
	Modules  []ModuleOutline      `json:"modules"`
}

// ModuleOutline annotates one module with the student's gate and exam state.
type ModuleOutline struct {
	ID           uint                   `json:"id"`
	Position     int                    `json:"position"`
	Title        string                 `json:"title"`
	Locked       bool                   `json:"locked"`
	AwaitingExam bool                   `json:"awaiting_exam"`
	BestOutcome  *ModuleOutcomeResponse `json:"best_outcome,omitempty"`
	Lessons      []LessonOutline        `json:"lessons"`
	Exams        []ExamOutline          `json:"exams"`
}

// LessonOutline annotates one lesson with the student's progress.
type LessonOutline struct {
	ID              uint   `json:"id"`
	Position        int    `json:"position"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	MaterialURL     string `json:"material_url,omitempty"`
	Completed       bool   `json:"completed"`
	WatchedSeconds  int    `json:"watched_seconds"`
	LastPosition    int    `json:"last_position"`
}

// ExamOutline summarizes an exam within the outline.
type ExamOutline struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	PassingScore float64 `json:"passing_score"`
}

// NavigationResponse answers a next/previous lesson query.
type NavigationResponse struct {
	Status progression.NavStatus  `json:"status"`
	Ref    *progression.LessonRef `json:"ref,omitempty"`
	Lesson *LessonOutline         `json:"lesson,omitempty"`
}
