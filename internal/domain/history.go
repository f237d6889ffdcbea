package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryAction is the kind of request a history entry records
type HistoryAction string

const (
	ActionInfo     HistoryAction = "info"
	ActionDownload HistoryAction = "download"
)

// HistoryStatus is the outcome of a recorded request
type HistoryStatus string

const (
	HistorySucceeded HistoryStatus = "succeeded"
	HistoryFailed    HistoryStatus = "failed"
)

// HistoryEntry is one audited info or download request
type HistoryEntry struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	Action     HistoryAction `json:"action" gorm:"not null;index"`
	URL        string        `json:"url" gorm:"not null"`
	FormatID   string        `json:"format_id,omitempty"`
	VideoID    string        `json:"video_id,omitempty"`
	Title      string        `json:"title,omitempty"`
	Status     HistoryStatus `json:"status" gorm:"not null;index"`
	Error      string        `json:"error,omitempty" gorm:"type:text"`
	Bytes      int64         `json:"bytes,omitempty"`
	DurationMS int64         `json:"duration_ms"`
	ClientIP   string        `json:"client_ip,omitempty"`
	CreatedAt  time.Time     `json:"created_at" gorm:"autoCreateTime;index"`
}

// NewHistoryEntry starts an entry for action on url
func NewHistoryEntry(action HistoryAction, url string) *HistoryEntry {
	return &HistoryEntry{
		ID:        uuid.New().String(),
		Action:    action,
		URL:       url,
		Status:    HistorySucceeded,
		CreatedAt: time.Now(),
	}
}

// Finish records the outcome and elapsed time since started
func (h *HistoryEntry) Finish(started time.Time, err error) {
	h.DurationMS = time.Since(started).Milliseconds()
	if err != nil {
		h.Status = HistoryFailed
		h.Error = err.Error()
		return
	}
	h.Status = HistorySucceeded
	h.Error = ""
}

// HistoryStats summarizes recorded requests
type HistoryStats struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// HistoryRepository persists history entries
type HistoryRepository interface {
	// Create stores a new entry
	Create(entry *HistoryEntry) error

	// FindRecent returns up to limit entries, newest first, optionally filtered by action
	FindRecent(action HistoryAction, limit int) ([]*HistoryEntry, error)

	// GetStats returns counts by status
	GetStats() (*HistoryStats, error)
}
