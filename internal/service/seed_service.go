package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads demo students and courses for development environments.
type SeedService interface {
	SeedStudents(ctx context.Context, token string, students []models.Student) (int, error)
	SeedCourses(ctx context.Context, token string, courses []models.Course) (int, error)
}

type seedService struct {
	studentRepo repository.StudentRepository
	courseRepo  repository.CourseRepository
	enabled     bool
	token       string
	logger      zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(studentRepo repository.StudentRepository, courseRepo repository.CourseRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		studentRepo: studentRepo,
		courseRepo:  courseRepo,
		enabled:     enabled,
		token:       token,
		logger:      logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedStudents(ctx context.Context, token string, students []models.Student) (int, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	created := 0
	for i := range students {
		student := students[i]
		student.Email = strings.ToLower(strings.TrimSpace(student.Email))
		if student.Email == "" || strings.TrimSpace(student.Name) == "" {
			continue
		}
		if _, err := s.studentRepo.GetByEmail(ctx, student.Email); err == nil {
			continue
		} else if !repository.IsNotFound(err) {
			return created, err
		}
		if err := s.studentRepo.Create(ctx, &student); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info().Int("created", created).Msg("students seeded")
	return created, nil
}

func (s *seedService) SeedCourses(ctx context.Context, token string, courses []models.Course) (int, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	created := 0
	for i := range courses {
		course := courses[i]
		if strings.TrimSpace(course.Title) == "" {
			continue
		}
		normalizeCoursePositions(&course)
		if err := s.courseRepo.Create(ctx, &course); err != nil {
			return created, err
		}
		created++
	}

	s.logger.Info().Int("created", created).Msg("courses seeded")
	return created, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) == 1
}

// normalizeCoursePositions rewrites order indices from slice order so seeded
// payloads cannot introduce gaps or duplicates.
func normalizeCoursePositions(course *models.Course) {
	for m := range course.Modules {
		course.Modules[m].Position = m
		for l := range course.Modules[m].Lessons {
			course.Modules[m].Lessons[l].Position = l
		}
	}
}
