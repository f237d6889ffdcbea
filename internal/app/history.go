package app

import (
	"github.com/TETRIX8/youtubesave/internal/domain"
	"go.uber.org/zap"
)

// HistoryRecorder stores request outcomes when a repository is configured.
// Failures are logged and never reach the request that produced the entry.
type HistoryRecorder struct {
	repo   domain.HistoryRepository
	logger *zap.Logger
}

// NewHistoryRecorder creates a recorder; repo may be nil to disable recording
func NewHistoryRecorder(repo domain.HistoryRepository, logger *zap.Logger) *HistoryRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRecorder{repo: repo, logger: logger}
}

// Enabled reports whether entries are persisted
func (r *HistoryRecorder) Enabled() bool {
	return r != nil && r.repo != nil
}

// Record persists entry
func (r *HistoryRecorder) Record(entry *domain.HistoryEntry) {
	if !r.Enabled() || entry == nil {
		return
	}
	if err := r.repo.Create(entry); err != nil {
		r.logger.Warn("Failed to record history",
			zap.String("action", string(entry.Action)),
			zap.String("url", entry.URL),
			zap.Error(err))
	}
}

// Recent returns the newest entries
func (r *HistoryRecorder) Recent(action domain.HistoryAction, limit int) ([]*domain.HistoryEntry, error) {
	if !r.Enabled() {
		return nil, domain.ErrHistoryDisabled
	}
	return r.repo.FindRecent(action, limit)
}

// Stats returns aggregate counts
func (r *HistoryRecorder) Stats() (*domain.HistoryStats, error) {
	if !r.Enabled() {
		return nil, domain.ErrHistoryDisabled
	}
	return r.repo.GetStats()
}
