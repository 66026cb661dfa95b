package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kerkportaal/lms-backend/internal/response"
	"github.com/kerkportaal/lms-backend/internal/service"
)

// failFromService maps service errors onto the response envelope.
func failFromService(c *gin.Context, err error) {
	var incomplete *service.IncompleteAnswersError
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
	case errors.Is(err, service.ErrCourseNotPublished):
		response.Fail(c, http.StatusForbidden, response.ErrCourseNotPublished)
	case errors.Is(err, service.ErrLessonNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrLessonNotFound)
	case errors.Is(err, service.ErrLessonTypeMismatch):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrLessonTypeMismatch)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, service.ErrEmptySubmission):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptySubmission)
	case errors.As(err, &incomplete):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrIncompleteAnswers, map[string]string{
			"onbeantwoord": strconv.Itoa(incomplete.Unanswered),
		})
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
