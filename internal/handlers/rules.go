package handlers

import (
	"errors"
	"net/http"

	"heating_controller/internal/models"

	"github.com/gin-gonic/gin"
)

const errLoadRules = "failed to load rules"

// bindRule decodes the body through models.Rule so a missing day mask or a
// malformed time is rejected before the service sees it.
func (h *Handler) bindRule(c *gin.Context) (models.Rule, bool) {
	var r models.Rule
	if err := c.ShouldBindJSON(&r); err != nil {
		if h.log != nil {
			h.log.Infow("rule_bad_request_body", "err", err)
		}
		msg := err.Error()
		if !errors.Is(err, models.ErrParse) {
			msg = errInvalidBodyPref + msg
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return models.Rule{}, false
	}
	return r, true
}

// @Summary      List rules
// @Tags         rules
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, rules"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/rules [get]
// @Security     BearerAuth
func (h *Handler) listRules(c *gin.Context) {
	rules, err := h.services.Rules.ListRules(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadRules, "rules_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(rules), "rules": rules})
}

// @Summary      Get rule
// @Tags         rules
// @Produce      json
// @Param        id   path      string  true  "Rule id"
// @Success      200  {object}  models.Rule
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/rules/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRule(c *gin.Context) {
	id := c.Param("id")
	r, err := h.services.Rules.GetRule(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, errLoadRules, "rule_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      Create rule
// @Description  days must list all seven keys (mon..sun); times are "H:MM"
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        body  body      models.Rule  true  "Rule"
// @Success      201   {object}  models.Rule
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/rules [post]
// @Security     BearerAuth
func (h *Handler) createRule(c *gin.Context) {
	in, ok := h.bindRule(c)
	if !ok {
		return
	}
	r, err := h.services.Rules.CreateRule(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, "failed to create rule", "rule_create_failed", err, "name", in.Name)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// @Summary      Replace rule
// @Tags         rules
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Rule id"
// @Param        body  body      models.Rule  true  "Rule"
// @Success      200   {object}  models.Rule
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/rules/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateRule(c *gin.Context) {
	in, ok := h.bindRule(c)
	if !ok {
		return
	}
	id := c.Param("id")
	r, err := h.services.Rules.UpdateRule(c.Request.Context(), id, in)
	if err != nil {
		h.respondServiceError(c, "failed to update rule", "rule_update_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      Delete rule
// @Tags         rules
// @Produce      json
// @Param        id   path      string  true  "Rule id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/rules/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteRule(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Rules.DeleteRule(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "failed to delete rule", "rule_delete_failed", err, "id", id)
		return
	}
	h.respondWithStatusAndTarget(c, statusDeleted, gin.H{"id": id})
}
