package handlers

import (
	"mime"
	"net/http"
	"strings"

	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/gin-gonic/gin"
)

// DownloadHandler streams a single downloaded format back to the client
type DownloadHandler struct {
	downloads *app.DownloadService
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(downloads *app.DownloadService) *DownloadHandler {
	return &DownloadHandler{downloads: downloads}
}

// Download handles GET /download?url=...&format_id=...
func (h *DownloadHandler) Download(c *gin.Context) {
	url := strings.TrimSpace(c.Query("url"))
	formatID := strings.TrimSpace(c.Query("format_id"))
	if url == "" || formatID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingParams})
		return
	}

	req := app.DownloadRequest{URL: url, FormatID: formatID, ClientIP: c.ClientIP()}
	err := h.downloads.Download(c.Request.Context(), req, func(file *app.DownloadedFile) error {
		f, err := file.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		c.DataFromReader(http.StatusOK, file.Size, "application/octet-stream", f, map[string]string{
			"Content-Disposition": attachment(file.Name),
		})
		return nil
	})
	if err != nil {
		respondError(c, err, msgMissingParams)
	}
}

func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}
