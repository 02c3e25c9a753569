package handlers

import (
	"errors"
	"net/http"
	"time"

	"heating_controller/internal/logger"
	"heating_controller/internal/models"
	"heating_controller/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK          = "ok"
	statusHoldSet     = "hold_set"
	statusHoldCleared = "hold_cleared"
	statusDeleted     = "deleted"

	errInvalidBodyPref = "invalid body: "
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	now      func() time.Time
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, now: time.Now}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Target stream over WebSocket on the same port.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requireUser)
	{
		h.registerRuleRoutes(api)
		h.registerHoldRoutes(api)
		h.registerSettingsRoutes(api)
		h.registerTargetRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerRuleRoutes(api *gin.RouterGroup) {
	rules := api.Group("/rules")
	{
		rules.GET("", h.listRules)
		rules.POST("", h.createRule)
		rules.GET("/:id", h.getRule)
		rules.PUT("/:id", h.updateRule)
		rules.DELETE("/:id", h.deleteRule)
	}
}

func (h *Handler) registerHoldRoutes(api *gin.RouterGroup) {
	hold := api.Group("/hold")
	{
		hold.GET("", h.getHold)
		// Body example: {"value":22,"duration":"2h"}
		hold.PUT("", h.setHold)
		hold.DELETE("", h.clearHold)
	}
}

func (h *Handler) registerSettingsRoutes(api *gin.RouterGroup) {
	settings := api.Group("/settings")
	{
		settings.GET("", h.getSettings)
		settings.PUT("", h.updateSettings)
	}
}

func (h *Handler) registerTargetRoutes(api *gin.RouterGroup) {
	api.GET("/target", h.getTarget)
	api.GET("/device/state", h.getDeviceState)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps domain errors to status codes. Client errors echo
// the message; anything else is logged and hidden behind userMsg.
func (h *Handler) respondServiceError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrRuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrParse),
		errors.Is(err, models.ErrInvariantViolation),
		errors.Is(err, service.ErrInvalidHold),
		errors.Is(err, service.ErrInvalidSettings),
		errors.Is(err, service.ErrInvalidLogFilter):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, kv...)
	}
}

// respondWithStatusAndTarget includes the live target when it can be computed.
func (h *Handler) respondWithStatusAndTarget(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if h.services.Target != nil {
		if view, err := h.services.Target.Current(c.Request.Context(), h.now()); err == nil {
			resp["target"] = view
		}
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
