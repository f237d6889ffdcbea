package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"go.uber.org/zap"
)

// DownloadRequest asks for one format of one video
type DownloadRequest struct {
	URL      string
	FormatID string
	ClientIP string
}

// DownloadedFile is a fetched file living inside a workspace.
// It is only valid for the duration of the ServeFunc call.
type DownloadedFile struct {
	Path    string
	Name    string
	Size    int64
	VideoID string
	Title   string
}

// Open opens the file for reading
func (f *DownloadedFile) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// ServeFunc delivers a downloaded file to the caller
type ServeFunc func(file *DownloadedFile) error

// DownloadService fetches media into a scoped workspace
type DownloadService struct {
	extractor domain.Extractor
	config    *domain.DownloadConfig
	history   *HistoryRecorder
	logger    *zap.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(extractor domain.Extractor, config *domain.DownloadConfig, history *HistoryRecorder, logger *zap.Logger) *DownloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config == nil {
		config = &domain.DefaultConfig().Download
	}
	return &DownloadService{
		extractor: extractor,
		config:    config,
		history:   history,
		logger:    logger,
	}
}

// Download fetches the requested format into a fresh workspace and hands the
// file to serve. The workspace is removed when Download returns, whatever the outcome.
func (s *DownloadService) Download(ctx context.Context, req DownloadRequest, serve ServeFunc) error {
	url := strings.TrimSpace(req.URL)
	formatID := strings.TrimSpace(req.FormatID)
	if url == "" || formatID == "" {
		return fmt.Errorf("%w: url and format_id are required", domain.ErrInvalidInput)
	}

	ws, err := NewWorkspace(s.config.TempDir)
	if err != nil {
		return err
	}
	defer s.release(ws)

	started := time.Now()
	entry := domain.NewHistoryEntry(domain.ActionDownload, url)
	entry.FormatID = formatID
	entry.ClientIP = req.ClientIP

	s.logger.Info("Starting download",
		zap.String("url", url),
		zap.String("format_id", formatID),
		zap.String("workspace", ws.Dir()))

	file, err := s.fetch(ctx, ws, url, formatID)
	if err == nil {
		entry.VideoID = file.VideoID
		entry.Title = file.Title
		entry.Bytes = file.Size
		err = serve(file)
	}
	entry.Finish(started, err)
	s.history.Record(entry)

	if err != nil {
		s.logger.Warn("Download failed",
			zap.String("url", url),
			zap.String("format_id", formatID),
			zap.Error(err))
		return err
	}

	s.logger.Info("Download served",
		zap.String("url", url),
		zap.String("file", file.Name),
		zap.Int64("bytes", file.Size),
		zap.Duration("elapsed", time.Since(started)))
	return nil
}

func (s *DownloadService) fetch(ctx context.Context, ws *Workspace, url, formatID string) (*DownloadedFile, error) {
	opts := domain.FetchOptions{
		FormatID:       formatID,
		OutputTemplate: ws.OutputTemplate(s.titleByteLimit()),
	}

	raw, err := s.extractor.ExtractAndFetch(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	info, err := raw.SingleItem()
	if err != nil {
		return nil, err
	}

	path := info.DownloadedPath()
	if path == "" {
		s.logger.Debug("No download record reported, computing expected filename", zap.String("url", url))
		path, err = s.extractor.ExpectedFilename(ctx, url, opts)
		if err != nil {
			return nil, err
		}
	}

	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}

	return &DownloadedFile{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    stat.Size(),
		VideoID: info.ID,
		Title:   info.Title,
	}, nil
}

func (s *DownloadService) release(ws *Workspace) {
	if err := ws.Release(); err != nil {
		s.logger.Debug("Workspace cleanup incomplete", zap.String("workspace", ws.Dir()), zap.Error(err))
	}
}

func (s *DownloadService) titleByteLimit() int {
	if s.config.TitleByteLimit > 0 {
		return s.config.TitleByteLimit
	}
	return domain.DefaultConfig().Download.TitleByteLimit
}
