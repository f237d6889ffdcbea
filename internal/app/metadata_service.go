package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/TETRIX8/youtubesave/internal/domain"
	"go.uber.org/zap"
)

// InfoRequest asks for the metadata of a single video
type InfoRequest struct {
	URL      string
	ClientIP string
}

// MetadataService looks up video metadata and available formats
type MetadataService struct {
	extractor domain.Extractor
	history   *HistoryRecorder
	logger    *zap.Logger
}

// NewMetadataService creates a new metadata service
func NewMetadataService(extractor domain.Extractor, history *HistoryRecorder, logger *zap.Logger) *MetadataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataService{
		extractor: extractor,
		history:   history,
		logger:    logger,
	}
}

// Lookup queries the extractor without downloading and builds the metadata
// response. Every call reaches the extractor; nothing is cached.
func (s *MetadataService) Lookup(ctx context.Context, req InfoRequest) (*domain.VideoMetadata, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", domain.ErrInvalidInput)
	}

	started := time.Now()
	entry := domain.NewHistoryEntry(domain.ActionInfo, url)
	entry.ClientIP = req.ClientIP

	meta, err := s.lookup(ctx, url)
	if meta != nil {
		entry.VideoID = meta.ID
		entry.Title = meta.Title
	}
	entry.Finish(started, err)
	s.history.Record(entry)

	if err != nil {
		s.logger.Warn("Metadata lookup failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Metadata lookup completed",
		zap.String("url", url),
		zap.String("id", meta.ID),
		zap.Int("formats", len(meta.Formats)),
		zap.Duration("elapsed", time.Since(started)))
	return meta, nil
}

func (s *MetadataService) lookup(ctx context.Context, url string) (*domain.VideoMetadata, error) {
	raw, err := s.extractor.ExtractInfo(ctx, url)
	if err != nil {
		return nil, err
	}
	info, err := raw.SingleItem()
	if err != nil {
		return nil, err
	}
	if info != raw {
		s.logger.Info("Extractor returned a collection, using first entry",
			zap.String("url", url),
			zap.String("collection", raw.ID),
			zap.String("id", info.ID))
	}
	return BuildMetadata(info), nil
}

// BuildMetadata converts a raw single-item record into the response model
func BuildMetadata(info *domain.RawInfo) *domain.VideoMetadata {
	thumbnail := BestThumbnail(info.Thumbnails)
	if thumbnail == "" {
		thumbnail = info.Thumbnail
	}
	return &domain.VideoMetadata{
		ID:        info.ID,
		Title:     info.Title,
		Uploader:  info.Uploader,
		Duration:  info.Duration,
		Thumbnail: thumbnail,
		Formats:   NormalizeFormats(info.Formats),
	}
}

// BestThumbnail returns the URL of the tallest thumbnail. On ties the later
// candidate wins, as the extractor lists thumbnails in ascending preference.
func BestThumbnail(thumbs []domain.RawThumbnail) string {
	best := -1
	url := ""
	for _, t := range thumbs {
		h := 0
		if t.Height != nil {
			h = *t.Height
		}
		if h >= best {
			best = h
			url = t.URL
		}
	}
	return url
}
