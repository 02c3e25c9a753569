package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Current target temperature
// @Description  Computed live from rules, hold and settings
// @Tags         target
// @Produce      json
// @Success      200  {object}  models.TargetView
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/target [get]
// @Security     BearerAuth
func (h *Handler) getTarget(c *gin.Context) {
	view, err := h.services.Target.Current(c.Request.Context(), h.now())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to compute target", "target_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Last applied device state
// @Tags         target
// @Produce      json
// @Success      200  {object}  models.DeviceState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/device/state [get]
// @Security     BearerAuth
func (h *Handler) getDeviceState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load state", "device_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
