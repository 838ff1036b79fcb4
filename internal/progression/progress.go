package progression

import (
	"math"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// Progress summarises lesson completion across a set of lessons.
type Progress struct {
	CompletedCount int `json:"completed_count"`
	TotalCount     int `json:"total_count"`
	Percent        int `json:"percent"`
}

// ComputeProgress counts completed lessons against the full lesson set and
// derives an integer percentage. Lessons in locked modules still count when
// previously completed: completion state is never revoked by a re-locked
// gate. Duplicate progress records for the same lesson count once.
func ComputeProgress(lessons []models.Lesson, records []models.LessonProgress) Progress {
	total := len(lessons)
	if total == 0 {
		return Progress{}
	}

	completedByLesson := make(map[uint]bool, len(records))
	for _, record := range records {
		if record.Completed {
			completedByLesson[record.LessonID] = true
		}
	}

	completed := 0
	for _, lesson := range lessons {
		if completedByLesson[lesson.ID] {
			completed++
		}
	}

	percent := int(math.Round(100 * float64(completed) / float64(total)))

	return Progress{
		CompletedCount: completed,
		TotalCount:     total,
		Percent:        percent,
	}
}
