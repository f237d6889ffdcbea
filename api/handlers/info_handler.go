package handlers

import (
	"net/http"
	"strings"

	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/gin-gonic/gin"
)

// InfoHandler serves video metadata lookups
type InfoHandler struct {
	metadata *app.MetadataService
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(metadata *app.MetadataService) *InfoHandler {
	return &InfoHandler{metadata: metadata}
}

// InfoRequest is the body of POST /api/info
type InfoRequest struct {
	URL string `json:"url"`
}

// GetInfo handles POST /api/info
func (h *InfoHandler) GetInfo(c *gin.Context) {
	var req InfoRequest
	if !isJSON(c.ContentType()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoURL})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoURL})
		return
	}

	meta, err := h.metadata.Lookup(c.Request.Context(), app.InfoRequest{
		URL:      req.URL,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		respondError(c, err, msgNoURL)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// isJSON accepts application/json and structured suffixes like application/ld+json
func isJSON(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return contentType == "application/json" || strings.HasSuffix(contentType, "+json")
}
