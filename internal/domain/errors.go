package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a required request parameter is missing
	ErrInvalidInput = errors.New("invalid input")

	// ErrFileNotFound is returned when the extractor reported success but no file exists
	ErrFileNotFound = errors.New("file not found after download")

	// ErrHistoryDisabled is returned by history queries when no store is configured
	ErrHistoryDisabled = errors.New("history disabled")
)

// ExtractionError wraps a failure reported by the extraction engine.
// Message is the engine's own description and is what callers get to see.
type ExtractionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": extraction failed"
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// IsExtractionError reports whether err is, or wraps, an ExtractionError
func IsExtractionError(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
