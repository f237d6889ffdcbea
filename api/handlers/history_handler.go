package handlers

import (
	"net/http"
	"strconv"

	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/TETRIX8/youtubesave/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler exposes recorded requests
type HistoryHandler struct {
	history *app.HistoryRecorder
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history *app.HistoryRecorder) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListHistory handles GET /api/history?limit=N&action=info|download
func (h *HistoryHandler) ListHistory(c *gin.Context) {
	if !h.history.Enabled() {
		respondError(c, domain.ErrHistoryDisabled, "")
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	action := domain.HistoryAction(c.Query("action"))
	switch action {
	case "", domain.ActionInfo, domain.ActionDownload:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
		return
	}

	entries, err := h.history.Recent(action, limit)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetStats handles GET /api/history/stats
func (h *HistoryHandler) GetStats(c *gin.Context) {
	stats, err := h.history.Stats()
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, stats)
}
