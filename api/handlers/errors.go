package handlers

import (
	"errors"
	"net/http"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	msgNoURL           = "No URL provided"
	msgMissingParams   = "Missing url or format_id"
	msgFileNotFound    = "File not found after download"
	msgHistoryDisabled = "history disabled"
)

// respondError maps a service error to a status code and {"error": ...} body.
// invalidMsg is the endpoint's fixed message for ErrInvalidInput.
func respondError(c *gin.Context, err error, invalidMsg string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidMsg})
	case errors.Is(err, domain.ErrFileNotFound):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgFileNotFound})
	case errors.Is(err, domain.ErrHistoryDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgHistoryDisabled})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
