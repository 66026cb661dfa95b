package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kerkportaal/lms-backend/internal/middleware"
	"github.com/kerkportaal/lms-backend/internal/model"
	"github.com/kerkportaal/lms-backend/internal/response"
	"github.com/kerkportaal/lms-backend/internal/service"
)

// CredentialHandler handles VBO credit and certificate views.
type CredentialHandler struct {
	credentialService  *service.CredentialService
	certificateService *service.CertificateService
}

// NewCredentialHandler creates a new CredentialHandler.
func NewCredentialHandler(credentialService *service.CredentialService, certificateService *service.CertificateService) *CredentialHandler {
	return &CredentialHandler{
		credentialService:  credentialService,
		certificateService: certificateService,
	}
}

// MyCredits godoc
// GET /api/v1/vbo/krediete
// Returns the authenticated minister's credit entries.
func (h *CredentialHandler) MyCredits(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if claims.Rol != model.RolPredikant {
		response.Fail(c, http.StatusForbidden, response.ErrPredikantOnly)
		return
	}

	entries, err := h.credentialService.ListForPredikant(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"indienings": entries})
}

// MyCreditSummary godoc
// GET /api/v1/vbo/opsomming
// Returns the minister's approved credits aggregated per year.
func (h *CredentialHandler) MyCreditSummary(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if claims.Rol != model.RolPredikant {
		response.Fail(c, http.StatusForbidden, response.ErrPredikantOnly)
		return
	}

	summaries, err := h.credentialService.YearSummary(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jare": summaries})
}

// AdminListGrants godoc
// GET /api/v1/admin/vbo/indienings
// Returns the newest credit entries across all ministers.
func (h *CredentialHandler) AdminListGrants(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limiet", "50"))

	entries, err := h.credentialService.ListRecentGrants(c.Request.Context(), limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"indienings": entries})
}

// MyCertificates godoc
// GET /api/v1/sertifikate
// Returns the authenticated user's certificates.
func (h *CredentialHandler) MyCertificates(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	certs, err := h.certificateService.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sertifikate": certs})
}
