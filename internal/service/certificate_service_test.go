package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

func TestEnsureCertificateIsIdempotent(t *testing.T) {
	db := newTestDB(t, "certificate_idempotent")
	course := seedTwoModuleCourse(t, db)
	student := seedStudent(t, db, "Ayu", "ayu@example.com")

	svc := NewCertificateService(repository.NewCertificateRepository(db), nil, "", zerolog.Nop())
	ctx := context.Background()

	first, created, err := svc.EnsureCertificate(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, first.SerialNumber)
	require.False(t, first.IssuedAt.IsZero())

	second, created, err := svc.EnsureCertificate(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.SerialNumber, second.SerialNumber)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.IssuedCertificate{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCertificateQueries(t *testing.T) {
	db := newTestDB(t, "certificate_queries")
	course := seedTwoModuleCourse(t, db)
	student := seedStudent(t, db, "Dewi", "dewi@example.com")

	svc := NewCertificateService(repository.NewCertificateRepository(db), nil, "", zerolog.Nop())
	ctx := context.Background()

	_, found, err := svc.GetForCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.False(t, found)

	issued, _, err := svc.EnsureCertificate(ctx, student.ID, course.ID)
	require.NoError(t, err)

	response, found, err := svc.GetForCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, issued.SerialNumber, response.SerialNumber)

	list, err := svc.ListByStudent(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, course.Title, list[0].CourseTitle)

	list, err = svc.ListByStudent(ctx, student.ID+1)
	require.NoError(t, err)
	require.Empty(t, list)
}
