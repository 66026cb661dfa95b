package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/response"
	"github.com/kerkportaal/lms-backend/internal/service"
)

// CourseHandler handles catalog and course administration endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCatalog godoc
// GET /api/v1/kursusse
// Returns all published, active courses.
func (h *CourseHandler) ListCatalog(c *gin.Context) {
	courses, err := h.courseService.ListCatalog(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kursusse": courses})
}

// Publish godoc
// POST /api/v1/admin/kursusse/:id/publiseer
// Marks a course published and warms its payload cache.
func (h *CourseHandler) Publish(c *gin.Context) {
	kursusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.Publish(c.Request.Context(), kursusID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"gepubliseer": true})
}

// Unpublish godoc
// POST /api/v1/admin/kursusse/:id/onttrek
// Hides a course from the catalog and drops its cached payload.
func (h *CourseHandler) Unpublish(c *gin.Context) {
	kursusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.Unpublish(c.Request.Context(), kursusID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"gepubliseer": false})
}

// RefreshCache godoc
// POST /api/v1/admin/kursusse/:id/verfris
// Re-caches the player payload after content edits.
func (h *CourseHandler) RefreshCache(c *gin.Context) {
	kursusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.courseService.RefreshCache(c.Request.Context(), kursusID); err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verfris": true})
}
