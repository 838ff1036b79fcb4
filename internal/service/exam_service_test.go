package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sinau-go-api/internal/dto"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/repository"
	"gorm.io/gorm"
)

func newExamFixture(t *testing.T, dbName string) (ExamService, *gorm.DB, models.Course, models.Student) {
	t.Helper()

	db := newTestDB(t, dbName)
	course := seedTwoModuleCourse(t, db)
	student := seedStudent(t, db, "Budi", "budi@example.com")

	svc := NewExamService(
		repository.NewExamSubmissionRepository(db),
		repository.NewCourseRepository(db),
		newTestValidator(),
		70,
		zerolog.Nop(),
	)

	return svc, db, course, student
}

func TestSubmitGradesAgainstExamPassingScore(t *testing.T) {
	svc, db, course, student := newExamFixture(t, "exam_passing_score")
	ctx := context.Background()

	// An exam may pass below the gate threshold; the gate still re-checks 70.
	easyExam := models.Exam{ModuleID: course.Modules[0].ID, Title: "Warmup", PassingScore: 60}
	require.NoError(t, db.Create(&easyExam).Error)

	response, err := svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: easyExam.ID, Score: 65})
	require.NoError(t, err)
	require.True(t, response.Passed)
	require.NotNil(t, response.BestOutcome)
	require.False(t, response.BestOutcome.Qualifies)
	require.False(t, response.NextModuleUnlocked)
}

func TestSubmitHighestScoreWins(t *testing.T) {
	svc, _, course, student := newExamFixture(t, "exam_highest_wins")
	ctx := context.Background()

	exam := course.Modules[0].Exams[0]

	_, err := svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: exam.ID, Score: 40})
	require.NoError(t, err)

	response, err := svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: exam.ID, Score: 85})
	require.NoError(t, err)
	require.NotNil(t, response.BestOutcome)
	require.InDelta(t, 85, response.BestOutcome.Score, 0.001)
	require.True(t, response.BestOutcome.Qualifies)
	require.True(t, response.NextModuleUnlocked)

	// A later worse attempt cannot demote the verdict.
	response, err = svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: exam.ID, Score: 10})
	require.NoError(t, err)
	require.False(t, response.Passed)
	require.InDelta(t, 85, response.BestOutcome.Score, 0.001)
	require.True(t, response.NextModuleUnlocked)

	attempts, err := svc.ListAttempts(ctx, student.ID, exam.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
}

func TestSubmitLockedModuleRejected(t *testing.T) {
	svc, db, course, student := newExamFixture(t, "exam_locked_module")
	ctx := context.Background()

	lockedExam := models.Exam{ModuleID: course.Modules[1].ID, Title: "Routing Quiz", PassingScore: 70}
	require.NoError(t, db.Create(&lockedExam).Error)

	_, err := svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: lockedExam.ID, Score: 95})
	require.ErrorIs(t, err, ErrModuleLocked)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, course, student := newExamFixture(t, "exam_validation")
	ctx := context.Background()

	exam := course.Modules[0].Exams[0]

	_, err := svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: exam.ID, Score: 120})
	require.Error(t, err)
	require.True(t, isValidationErr(err))

	_, err = svc.Submit(ctx, student.ID, dto.ExamSubmissionRequest{ExamID: 4242, Score: 50})
	require.ErrorIs(t, err, ErrExamNotFound)
}

func TestModuleOutcomeWithoutAttempts(t *testing.T) {
	svc, _, course, student := newExamFixture(t, "exam_no_attempts")

	_, found, err := svc.ModuleOutcome(context.Background(), student.ID, course.Modules[0].ID)
	require.NoError(t, err)
	require.False(t, found)

	_, _, err = svc.ModuleOutcome(context.Background(), student.ID, 4242)
	require.ErrorIs(t, err, ErrModuleNotFound)
}
