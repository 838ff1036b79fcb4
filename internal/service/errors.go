package service

import "errors"

// Sentinel errors surfaced by the progression services.
var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrModuleNotFound  = errors.New("module not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentNotFound = errors.New("student not found")

	// ErrModuleLocked is the gate violation: an attempt to enter or write
	// progress into a module the evaluator reports as locked. Checked as a
	// precondition, before any store write.
	ErrModuleLocked = errors.New("module is locked")
)
