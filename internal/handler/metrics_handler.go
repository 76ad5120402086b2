package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/escuela-api/internal/service"
	"github.com/noah-isme/escuela-api/internal/store"
)

// MetricsHandler serves liveness, readiness and the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics *service.MetricsService
	mode    store.Mode
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, mode store.Mode) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, mode: mode}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health godoc
// @Summary Liveness check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// @Summary Readiness check with the bound store mode
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ready [get]
func (h *MetricsHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"mode":    h.mode,
		"metrics": h.metrics.Snapshot(),
	})
}
