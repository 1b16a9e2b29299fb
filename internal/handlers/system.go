// internal/handlers/system.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartadega/smartadega-api/internal/i18n"
	"github.com/smartadega/smartadega-api/internal/utils"
)

type SystemHandler struct {
	environment string
	startedAt   time.Time
}

func NewSystemHandler(environment string) *SystemHandler {
	return &SystemHandler{
		environment: environment,
		startedAt:   time.Now(),
	}
}

// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Seconds(),
		"environment": h.environment,
	})
}

// GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyWelcome),
	})
}

func (h *SystemHandler) NotFound(c *gin.Context) {
	utils.NotFoundResponse(c, i18n.KeyRouteNotFound)
}

func (h *SystemHandler) MethodNotAllowed(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusMethodNotAllowed, i18n.T(utils.GetLangFromContext(c), i18n.KeyMethodNotAllowed), "")
}
