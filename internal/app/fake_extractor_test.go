package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/TETRIX8/youtubesave/internal/domain"
)

// fakeExtractor implements domain.Extractor for tests
type fakeExtractor struct {
	mu sync.Mutex

	info    *domain.RawInfo
	infoErr error

	// writeFile, when set, is created from the output template on fetch
	writeFile    string
	reportPath   bool
	fetchErr     error
	expectedPath string
	expectedErr  error

	infoCalls     int
	fetchCalls    int
	expectedCalls int
	lastOpts      domain.FetchOptions
}

func (f *fakeExtractor) Name() string { return "fake" }

func (f *fakeExtractor) ExtractInfo(ctx context.Context, url string) (*domain.RawInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeExtractor) ExtractAndFetch(ctx context.Context, url string, opts domain.FetchOptions) (*domain.RawInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.lastOpts = opts
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	info := &domain.RawInfo{ID: "vid1", Title: "Some Title"}
	if f.info != nil {
		copied := *f.info
		info = &copied
	}
	if f.writeFile != "" {
		path := filepath.Join(filepath.Dir(opts.OutputTemplate), f.writeFile)
		if err := os.WriteFile(path, []byte("media-bytes"), 0644); err != nil {
			return nil, err
		}
		// leftovers that cleanup must also remove
		_ = os.WriteFile(path+".part", []byte("x"), 0644)
		if f.reportPath {
			info.RequestedDownloads = []domain.RawDownload{{Filepath: path}}
		}
	}
	return info, nil
}

func (f *fakeExtractor) ExpectedFilename(ctx context.Context, url string, opts domain.FetchOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expectedCalls++
	if f.expectedErr != nil {
		return "", f.expectedErr
	}
	if f.expectedPath != "" {
		return f.expectedPath, nil
	}
	return filepath.Join(filepath.Dir(opts.OutputTemplate), f.writeFile), nil
}

func (f *fakeExtractor) workspaceDir() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastOpts.OutputTemplate == "" {
		return ""
	}
	dir := filepath.Dir(f.lastOpts.OutputTemplate)
	if !strings.Contains(filepath.Base(dir), workspacePrefix) {
		return ""
	}
	return dir
}

// memoryHistory is an in-memory domain.HistoryRepository
type memoryHistory struct {
	mu      sync.Mutex
	entries []*domain.HistoryEntry
	err     error
}

func (m *memoryHistory) Create(entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryHistory) FindRecent(action domain.HistoryAction, limit int) ([]*domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.HistoryEntry
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if action == "" || m.entries[i].Action == action {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memoryHistory) GetStats() (*domain.HistoryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &domain.HistoryStats{Total: int64(len(m.entries))}
	for _, e := range m.entries {
		if e.Status == domain.HistoryFailed {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}
	return stats, nil
}
