package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kerkportaal/lms-backend/internal/middleware"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/response"
	"github.com/kerkportaal/lms-backend/internal/service"
	"github.com/kerkportaal/lms-backend/internal/validator"
)

// PlayerHandler handles the course player endpoints.
type PlayerHandler struct {
	playerService *service.PlayerService
	authService   *service.AuthService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(playerService *service.PlayerService, authService *service.AuthService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService, authService: authService}
}

// pathIDs parses the :id and :lesId route params.
func pathIDs(c *gin.Context) (kursusID, lesID uuid.UUID, ok bool) {
	kursusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return kursusID, lesID, false
	}
	lesID, err = uuid.Parse(c.Param("lesId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return kursusID, lesID, false
	}
	return kursusID, lesID, true
}

// currentUser loads the full user record for the authenticated claims.
func (h *PlayerHandler) currentUser(c *gin.Context) *model.Gebruiker {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil
	}
	user, err := h.authService.CurrentUser(c.Request.Context(), claims)
	if err != nil || user == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return nil
	}
	return user
}

// Overview godoc
// GET /api/v1/kursusse/:id
// Returns the course content tree with the user's progress.
func (h *PlayerHandler) Overview(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	kursusID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	oorsig, err := h.playerService.CourseOverview(c.Request.Context(), claims.UserID, kursusID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, oorsig)
}

// OpenLesson godoc
// GET /api/v1/kursusse/:id/lesse/:lesId
// Returns the player payload for one lesson and records the access.
func (h *PlayerHandler) OpenLesson(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	view, err := h.playerService.OpenLesson(c.Request.Context(), claims.UserID, kursusID, lesID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// CompleteText godoc
// POST /api/v1/kursusse/:id/lesse/:lesId/voltooi
// Marks a text lesson read.
func (h *PlayerHandler) CompleteText(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.VoltooiTeksRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	overall, err := h.playerService.CompleteText(c.Request.Context(), user, kursusID, lesID, req.Implisiet)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vordering": overall})
}

// Checkpoint godoc
// POST /api/v1/kursusse/:id/lesse/:lesId/kontrolepunt
// Queues a video playback position save.
func (h *PlayerHandler) Checkpoint(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.KontrolepuntRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.playerService.VideoCheckpoint(c.Request.Context(), claims.UserID, kursusID, lesID, req.Posisie, req.Duur)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{})
}

// VideoEnded godoc
// POST /api/v1/kursusse/:id/lesse/:lesId/video-klaar
// Completes a video lesson on the player's ended event.
func (h *PlayerHandler) VideoEnded(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.VideoKlaarRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	overall, err := h.playerService.VideoEnded(c.Request.Context(), user, kursusID, lesID, req.Duur)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vordering": overall})
}

// SubmitQuiz godoc
// POST /api/v1/kursusse/:id/lesse/:lesId/toets
// Grades a quiz attempt; a pass completes the lesson.
func (h *PlayerHandler) SubmitQuiz(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	uitslag, overall, err := h.playerService.SubmitQuiz(c.Request.Context(), user, kursusID, lesID, req.Antwoorde)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"uitslag": uitslag, "vordering": overall})
}

// SubmitAssignment godoc
// POST /api/v1/kursusse/:id/lesse/:lesId/opdrag
// Stores an assignment submission and completes the lesson.
func (h *PlayerHandler) SubmitAssignment(c *gin.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}
	kursusID, lesID, ok := pathIDs(c)
	if !ok {
		return
	}

	var req model.SubmitOpdragRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	record, overall, err := h.playerService.SubmitAssignment(c.Request.Context(), user, kursusID, lesID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"indiening": record, "vordering": overall})
}

// CancelAutoAdvance godoc
// POST /api/v1/speler/kanselleer-voortgang
// Stops the pending auto-advance countdown.
func (h *PlayerHandler) CancelAutoAdvance(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.playerService.CancelAutoAdvance(claims.UserID)
	response.Success(c, http.StatusOK, gin.H{})
}
