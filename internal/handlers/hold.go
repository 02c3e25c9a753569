package handlers

import (
	"net/http"
	"time"

	"heating_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for setting a hold. Exactly one of until_time and duration.
type holdRequest struct {
	Value     *float64   `json:"value" binding:"required"`
	UntilTime *time.Time `json:"until_time,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

// SetHoldRequest is an exported model for Swagger docs of the setHold payload.
type SetHoldRequest struct {
	// Setpoint in Celsius
	Value float64 `json:"value" example:"22"`
	// Absolute end (RFC3339); mutually exclusive with duration
	UntilTime string `json:"until_time,omitempty" example:"2025-01-01T21:00:00Z"`
	// Relative end as a Go duration; mutually exclusive with until_time
	Duration string `json:"duration,omitempty" example:"2h"`
}

// @Summary      Get hold
// @Tags         hold
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "hold (null when none)"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hold [get]
// @Security     BearerAuth
func (h *Handler) getHold(c *gin.Context) {
	hold, err := h.services.Hold.GetHold(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load hold", "hold_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hold": hold})
}

// @Summary      Set hold
// @Description  Pins the target until until_time or for duration, overriding every rule
// @Tags         hold
// @Accept       json
// @Produce      json
// @Param        body  body      SetHoldRequest  true  "Hold payload"
// @Success      200   {object}  map[string]interface{}  "status, hold, target"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/hold [put]
// @Security     BearerAuth
func (h *Handler) setHold(c *gin.Context) {
	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	params := service.HoldParams{Value: *req.Value}
	if req.UntilTime != nil {
		params.Until = *req.UntilTime
	}
	if req.Duration != "" {
		d, err := time.ParseDuration(req.Duration)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + "duration: " + err.Error()})
			return
		}
		params.Duration = d
	}

	hold, err := h.services.Hold.SetHold(c.Request.Context(), params)
	if err != nil {
		h.respondServiceError(c, "failed to set hold", "hold_set_failed", err, "value", params.Value)
		return
	}
	h.respondWithStatusAndTarget(c, statusHoldSet, gin.H{"hold": hold})
}

// @Summary      Clear hold
// @Tags         hold
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, target"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/hold [delete]
// @Security     BearerAuth
func (h *Handler) clearHold(c *gin.Context) {
	if err := h.services.Hold.ClearHold(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to clear hold", "hold_clear_failed", err)
		return
	}
	h.respondWithStatusAndTarget(c, statusHoldCleared, gin.H{})
}
