package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExtractorProbe reports which extractor binary is configured and whether it resolves
type ExtractorProbe interface {
	Name() string
	LookupBinary() (string, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	version string
	probe   ExtractorProbe
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, probe ExtractorProbe) *HealthHandler {
	return &HealthHandler{version: version, probe: probe}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Extractor string `json:"extractor"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Extractor: h.probe.Name(),
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	path, err := h.probe.LookupBinary()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "extractor binary not found: " + h.probe.Name(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "extractor": path})
}
