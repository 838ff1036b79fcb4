package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/sinau-go-api/internal/models"
)

// newTestDB opens a named in-memory database so parallel test functions do
// not share state through sqlite's shared cache.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.Exam{},
		&models.ExamSubmission{},
		&models.LessonProgress{},
		&models.IssuedCertificate{},
		&models.GamificationProfile{},
		&models.GamificationEvent{},
	))

	return db
}

func newTestValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func isValidationErr(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// seedTwoModuleCourse creates the canonical gated course: module 0 with two
// lessons and one exam passing at 70, module 1 with a single lesson. The
// returned course is reloaded with ordered associations.
func seedTwoModuleCourse(t *testing.T, db *gorm.DB) models.Course {
	t.Helper()

	course := models.Course{
		Title: "Backend Fundamentals",
		Modules: []models.Module{
			{
				Position: 0,
				Title:    "HTTP Basics",
				Lessons: []models.Lesson{
					{Position: 0, Title: "Requests", DurationSeconds: 300},
					{Position: 1, Title: "Responses", DurationSeconds: 420},
				},
				Exams: []models.Exam{
					{Title: "HTTP Quiz", PassingScore: 70},
				},
			},
			{
				Position: 1,
				Title:    "Routing",
				Lessons: []models.Lesson{
					{Position: 0, Title: "Handlers", DurationSeconds: 360},
				},
			},
		},
	}
	require.NoError(t, db.Create(&course).Error)

	var loaded models.Course
	require.NoError(t, db.
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Modules.Exams").
		First(&loaded, course.ID).Error)

	return loaded
}

func seedStudent(t *testing.T, db *gorm.DB, name, email string) models.Student {
	t.Helper()

	student := models.Student{Name: name, Email: email}
	require.NoError(t, db.Create(&student).Error)
	return student
}
