package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skagos/emr-front/internal/orthanc"
)

// APIHandler holds dependencies for API handlers.
type APIHandler struct {
	orthancClient *orthanc.Client
}

// NewAPIHandler creates a new handler instance.
func NewAPIHandler(orthancClient *orthanc.Client) *APIHandler {
	return &APIHandler{
		orthancClient: orthancClient,
	}
}

// StoreInstanceHandler relays one raw DICOM object to Orthanc and hands the
// upstream status code and body back to the browser untouched. The gateway
// only synthesizes a response of its own when Orthanc cannot be reached.
func (h *APIHandler) StoreInstanceHandler(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to read upload body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	relayed, err := h.orthancClient.StoreInstance(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to reach orthanc",
			"details": err.Error(),
		})
		return
	}

	c.Data(relayed.StatusCode, relayed.ContentType, relayed.Body)
}

// PreflightHandler answers the browser's CORS preflight before the binary
// POST. Headers are set by the corsHeaders middleware.
func (h *APIHandler) PreflightHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

// StudyInfoHandler resolves an Orthanc-internal study ID to the DICOM
// Study Instance UID. Missing studies and studies without the tag both map
// to a structured 404 rather than whatever Orthanc answered.
func (h *APIHandler) StudyInfoHandler(c *gin.Context) {
	studyID := c.Param("studyId")

	details, err := h.orthancClient.GetStudyDetails(c.Request.Context(), studyID)
	if err != nil {
		if errors.Is(err, orthanc.ErrStudyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "study not found", "studyId": studyID})
			return
		}
		slog.ErrorContext(c.Request.Context(), "Failed to get study details", "studyId", studyID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve study details"})
		return
	}

	if details.MainTags.StudyInstanceUID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "study has no StudyInstanceUID tag", "studyId": studyID})
		return
	}

	c.JSON(http.StatusOK, gin.H{"studyInstanceUID": details.MainTags.StudyInstanceUID})
}

// ListStudiesHandler lists the study IDs known to Orthanc.
func (h *APIHandler) ListStudiesHandler(c *gin.Context) {
	studies, err := h.orthancClient.ListStudies(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Failed to list studies from Orthanc", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve studies from orthanc"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"studies": studies})
}

// PingHandler handles liveness probes.
func (h *APIHandler) PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "gateway running"})
}
