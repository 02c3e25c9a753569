package handlers

import (
	"net/http"

	"heating_controller/internal/models"

	"github.com/gin-gonic/gin"
)

type settingsRequest struct {
	AwayTemperature       *float64 `json:"away_temperature" binding:"required"`
	TimezoneOffsetMinutes *int     `json:"timezone_offset_minutes" binding:"required"`
}

// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Settings
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/settings [get]
// @Security     BearerAuth
func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.services.Settings.GetSettings(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load settings", "settings_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      models.Settings  true  "Settings"
// @Success      200   {object}  models.Settings
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/settings [put]
// @Security     BearerAuth
func (h *Handler) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	in := models.Settings{
		AwayTemperature:       *req.AwayTemperature,
		TimezoneOffsetMinutes: *req.TimezoneOffsetMinutes,
	}
	s, err := h.services.Settings.UpdateSettings(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, "failed to update settings", "settings_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}
