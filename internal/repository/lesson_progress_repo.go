package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// LessonProgressRepository persists per-student, per-lesson progress rows
// with upsert semantics on the (student_id, lesson_id) pair. Rows are never
// deleted.
type LessonProgressRepository interface {
	UpsertWatchTime(ctx context.Context, studentID, lessonID uint, watchedSeconds, lastPosition int) (models.LessonProgress, error)
	MarkCompleted(ctx context.Context, studentID, lessonID uint, watchedSeconds int) (models.LessonProgress, error)
	GetByStudentAndLesson(ctx context.Context, studentID, lessonID uint) (models.LessonProgress, error)
	ListByStudentForLessons(ctx context.Context, studentID uint, lessonIDs []uint) ([]models.LessonProgress, error)
}

type lessonProgressRepository struct {
	db *gorm.DB
}

// NewLessonProgressRepository constructs the repository.
func NewLessonProgressRepository(db *gorm.DB) LessonProgressRepository {
	return &lessonProgressRepository{db: db}
}

var progressConflictColumns = []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}}

// UpsertWatchTime records playback position without touching the completed
// flag, so a rewatch can never revoke completion.
func (r *lessonProgressRepository) UpsertWatchTime(ctx context.Context, studentID, lessonID uint, watchedSeconds, lastPosition int) (models.LessonProgress, error) {
	record := models.LessonProgress{
		StudentID:      studentID,
		LessonID:       lessonID,
		WatchedSeconds: watchedSeconds,
		LastPosition:   lastPosition,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressConflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{"watched_seconds", "last_position", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return models.LessonProgress{}, err
	}

	return r.GetByStudentAndLesson(ctx, studentID, lessonID)
}

// MarkCompleted upserts with completed=true. Calling it again for an already
// completed lesson refreshes watched seconds only.
func (r *lessonProgressRepository) MarkCompleted(ctx context.Context, studentID, lessonID uint, watchedSeconds int) (models.LessonProgress, error) {
	record := models.LessonProgress{
		StudentID:      studentID,
		LessonID:       lessonID,
		Completed:      true,
		WatchedSeconds: watchedSeconds,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressConflictColumns,
		DoUpdates: clause.AssignmentColumns([]string{"completed", "watched_seconds", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return models.LessonProgress{}, err
	}

	return r.GetByStudentAndLesson(ctx, studentID, lessonID)
}

func (r *lessonProgressRepository) GetByStudentAndLesson(ctx context.Context, studentID, lessonID uint) (models.LessonProgress, error) {
	var record models.LessonProgress
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("lesson_id = ?", lessonID).
		First(&record).Error
	if err != nil {
		return models.LessonProgress{}, err
	}

	return record, nil
}

func (r *lessonProgressRepository) ListByStudentForLessons(ctx context.Context, studentID uint, lessonIDs []uint) ([]models.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}

	var records []models.LessonProgress
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Where("lesson_id IN ?", lessonIDs).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
