package service

import (
	"context"

	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/progression"
	"github.com/noah-isme/sinau-go-api/internal/repository"
)

// courseContext bundles everything gating and progress computation need for
// one (student, course) pair, loaded fresh from the store of record. It is
// rebuilt per request and never cached: a new exam submission must change
// gate verdicts immediately.
type courseContext struct {
	course   models.Course
	lessons  []models.Lesson
	outcomes map[uint]progression.ModuleOutcome
}

func loadCourseContext(ctx context.Context, courses repository.CourseRepository, submissions repository.ExamSubmissionRepository, studentID, courseID uint) (courseContext, error) {
	course, err := courses.GetByID(ctx, courseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return courseContext{}, ErrCourseNotFound
		}
		return courseContext{}, err
	}

	return buildCourseContext(ctx, submissions, studentID, course)
}

// buildCourseContext attaches fresh submission-derived outcomes to an
// already loaded course structure.
func buildCourseContext(ctx context.Context, submissions repository.ExamSubmissionRepository, studentID uint, course models.Course) (courseContext, error) {
	examIDs := collectExamIDs(course)
	attempts, err := submissions.ListByStudentForExams(ctx, studentID, examIDs)
	if err != nil {
		return courseContext{}, err
	}

	return courseContext{
		course:   course,
		lessons:  flattenLessons(course),
		outcomes: moduleOutcomes(course, attempts),
	}, nil
}

// locateLesson returns the module and lesson order indices of a lesson
// within the course, or ok=false when the lesson does not belong to it.
func (c courseContext) locateLesson(lessonID uint) (moduleIndex, lessonIndex int, ok bool) {
	for m, module := range c.course.Modules {
		for l, lesson := range module.Lessons {
			if lesson.ID == lessonID {
				return m, l, true
			}
		}
	}
	return 0, 0, false
}

func (c courseContext) lessonIDs() []uint {
	ids := make([]uint, 0, len(c.lessons))
	for _, lesson := range c.lessons {
		ids = append(ids, lesson.ID)
	}
	return ids
}

func flattenLessons(course models.Course) []models.Lesson {
	var lessons []models.Lesson
	for _, module := range course.Modules {
		lessons = append(lessons, module.Lessons...)
	}
	return lessons
}

func collectExamIDs(course models.Course) []uint {
	var ids []uint
	for _, module := range course.Modules {
		for _, exam := range module.Exams {
			ids = append(ids, exam.ID)
		}
	}
	return ids
}

// moduleOutcomes aggregates the best outcome per module from the full
// submission history.
func moduleOutcomes(course models.Course, submissions []models.ExamSubmission) map[uint]progression.ModuleOutcome {
	outcomes := make(map[uint]progression.ModuleOutcome, len(course.Modules))
	for _, module := range course.Modules {
		if outcome, ok := progression.BestOutcome(module.Exams, submissions); ok {
			outcomes[module.ID] = outcome
		}
	}
	return outcomes
}

func progressByLesson(records []models.LessonProgress) map[uint]models.LessonProgress {
	byLesson := make(map[uint]models.LessonProgress, len(records))
	for _, record := range records {
		byLesson[record.LessonID] = record
	}
	return byLesson
}
