package infrastructure

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()
	repo, err := NewSQLiteHistoryRepository(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func addEntry(t *testing.T, repo *SQLiteHistoryRepository, action domain.HistoryAction, url string, at time.Time, err error) *domain.HistoryEntry {
	t.Helper()
	entry := domain.NewHistoryEntry(action, url)
	entry.CreatedAt = at
	entry.Finish(at, err)
	require.NoError(t, repo.Create(entry))
	return entry
}

func TestSQLiteHistoryRepository_FindRecentNewestFirst(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Now().Add(-time.Hour)

	first := addEntry(t, repo, domain.ActionInfo, "https://youtu.be/1", base, nil)
	second := addEntry(t, repo, domain.ActionDownload, "https://youtu.be/2", base.Add(time.Minute), nil)
	third := addEntry(t, repo, domain.ActionInfo, "https://youtu.be/3", base.Add(2*time.Minute), errors.New("boom"))

	entries, err := repo.FindRecent("", 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, third.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.Equal(t, first.ID, entries[2].ID)

	assert.Equal(t, domain.HistoryFailed, entries[0].Status)
	assert.Equal(t, "boom", entries[0].Error)
}

func TestSQLiteHistoryRepository_FindRecentFiltersAndLimits(t *testing.T) {
	repo := setupTestRepo(t)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		addEntry(t, repo, domain.ActionInfo, "https://youtu.be/info", base.Add(time.Duration(i)*time.Minute), nil)
	}
	download := addEntry(t, repo, domain.ActionDownload, "https://youtu.be/dl", base, nil)

	downloads, err := repo.FindRecent(domain.ActionDownload, 10)
	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, download.ID, downloads[0].ID)

	limited, err := repo.FindRecent(domain.ActionInfo, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteHistoryRepository_GetStats(t *testing.T) {
	repo := setupTestRepo(t)
	now := time.Now()

	addEntry(t, repo, domain.ActionInfo, "https://youtu.be/a", now, nil)
	addEntry(t, repo, domain.ActionDownload, "https://youtu.be/b", now, nil)
	addEntry(t, repo, domain.ActionDownload, "https://youtu.be/c", now, errors.New("ERROR: unavailable"))

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Succeeded)
	assert.Equal(t, int64(1), stats.Failed)
}

func TestSQLiteHistoryRepository_EmptyStats(t *testing.T) {
	repo := setupTestRepo(t)

	stats, err := repo.GetStats()
	require.NoError(t, err)
	assert.Equal(t, &domain.HistoryStats{}, stats)
}

func TestSQLiteHistoryRepository_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	repo, err := NewSQLiteHistoryRepository(path)
	require.NoError(t, err)
	entry := addEntry(t, repo, domain.ActionInfo, "https://youtu.be/persist", time.Now(), nil)
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteHistoryRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.FindRecent("", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "https://youtu.be/persist", entries[0].URL)
}
