package domain

import "context"

// FetchOptions controls a download performed by the extractor
type FetchOptions struct {
	FormatID       string
	OutputTemplate string
}

// Extractor is the external extraction engine. Implementations always run in
// single-item mode: collections are not expanded.
type Extractor interface {
	// ExtractInfo returns metadata for url without fetching any media
	ExtractInfo(ctx context.Context, url string) (*RawInfo, error)

	// ExtractAndFetch downloads the requested format and returns the metadata
	// record, including where the file was written
	ExtractAndFetch(ctx context.Context, url string, opts FetchOptions) (*RawInfo, error)

	// ExpectedFilename computes the path a download with opts would produce
	ExpectedFilename(ctx context.Context, url string, opts FetchOptions) (string, error)

	// Name identifies the engine, e.g. the binary it runs
	Name() string
}
