package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kerkportaal/lms-backend/internal/service"
)

func TestFailFromServiceReportsUnansweredCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	failFromService(c, &service.IncompleteAnswersError{Unanswered: 3})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "INCOMPLETE_ANSWERS" {
		t.Fatalf("wrong code: %q", body.Error.Code)
	}
	if body.Error.Fields["onbeantwoord"] != "3" {
		t.Fatalf("expected onbeantwoord=3, got %v", body.Error.Fields)
	}
}

func TestFailFromServiceMapsSentinels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrCourseNotFound, http.StatusNotFound},
		{service.ErrCourseNotPublished, http.StatusForbidden},
		{service.ErrLessonTypeMismatch, http.StatusUnprocessableEntity},
		{service.ErrEmptySubmission, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

		failFromService(c, tc.err)

		if w.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, w.Code)
		}
	}
}
