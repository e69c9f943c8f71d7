package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "intabyu/internal/errors"
	"intabyu/internal/services"
)

// AdminHandler exposes maintenance operations to test harnesses.
type AdminHandler struct {
	maintenanceService services.MaintenanceServicer
	recordingService   services.RecordingServicer
	auditService       services.AuditServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(maintenanceService services.MaintenanceServicer, recordingService services.RecordingServicer, auditService services.AuditServicer) *AdminHandler {
	return &AdminHandler{
		maintenanceService: maintenanceService,
		recordingService:   recordingService,
		auditService:       auditService,
	}
}

// Wipe deletes all categories, questions, recordings and stored audio.
// @Summary     Wipe all data
// @Tags        admin
// @Produce     json
// @Security    AdminKey
// @Success     200 {object} services.WipeResult "Rows removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/wipe [post]
func (h *AdminHandler) Wipe(c *gin.Context) {
	result, err := h.maintenanceService.Wipe(c.Request.Context())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log("WIPE", "all", "*", c.ClientIP(), map[string]interface{}{
		"recordings": result.Recordings,
		"questions":  result.Questions,
		"categories": result.Categories,
	})

	c.JSON(http.StatusOK, result)
}

// BackfillDurations runs one duration backfill pass.
// @Summary     Backfill recording durations
// @Tags        admin
// @Produce     json
// @Security    AdminKey
// @Success     200 {object} services.BackfillResult "Backfill summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/backfill [post]
func (h *AdminHandler) BackfillDurations(c *gin.Context) {
	result, err := h.recordingService.BackfillDurations(c.Request.Context())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// Health reports liveness.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string "ok"
// @Router      /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
