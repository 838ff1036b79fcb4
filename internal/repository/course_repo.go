package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// CourseRepository provides access to the course catalog. Modules, lessons
// and exams are always loaded in position order so order indices line up
// with slice indices.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	GetLesson(ctx context.Context, lessonID uint) (models.Lesson, error)
	GetExam(ctx context.Context, examID uint) (models.Exam, error)
	GetModule(ctx context.Context, moduleID uint) (models.Module, error)
	CourseIDForModule(ctx context.Context, moduleID uint) (uint, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Course{}).
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Modules.Exams")
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.baseQuery(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) GetLesson(ctx context.Context, lessonID uint) (models.Lesson, error) {
	var lesson models.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, lessonID).Error; err != nil {
		return models.Lesson{}, err
	}

	return lesson, nil
}

func (r *courseRepository) GetExam(ctx context.Context, examID uint) (models.Exam, error) {
	var exam models.Exam
	if err := r.db.WithContext(ctx).First(&exam, examID).Error; err != nil {
		return models.Exam{}, err
	}

	return exam, nil
}

func (r *courseRepository) GetModule(ctx context.Context, moduleID uint) (models.Module, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Exams").
		First(&module, moduleID).Error; err != nil {
		return models.Module{}, err
	}

	return module, nil
}

func (r *courseRepository) CourseIDForModule(ctx context.Context, moduleID uint) (uint, error) {
	var module models.Module
	if err := r.db.WithContext(ctx).Select("id", "course_id").First(&module, moduleID).Error; err != nil {
		return 0, err
	}

	return module.CourseID, nil
}
