package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonTypeMismatch = errors.New("action does not match lesson type")
	ErrNoQuestions        = errors.New("quiz has no questions")
	ErrEmptySubmission    = errors.New("submission has no text answer and no file")
)

// IncompleteAnswersError is returned when a quiz submission leaves
// questions unanswered.
type IncompleteAnswersError struct {
	Unanswered int
}

func (e *IncompleteAnswersError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", e.Unanswered)
}
