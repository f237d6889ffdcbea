package domain

// FormatKind classifies a format by the streams it carries
type FormatKind string

const (
	KindMuxed   FormatKind = "video+audio"
	KindVideo   FormatKind = "video"
	KindAudio   FormatKind = "audio"
	KindUnknown FormatKind = "unknown" // neither codec is usable
)

// Rank returns the display order of a kind, muxed formats first
func (k FormatKind) Rank() int {
	switch k {
	case KindMuxed:
		return 0
	case KindVideo:
		return 1
	case KindAudio:
		return 2
	default:
		return 3
	}
}

// FormatDescriptor is a user-facing download option derived from a RawFormat
type FormatDescriptor struct {
	FormatID  string     `json:"format_id"`
	Ext       string     `json:"ext"`
	Quality   string     `json:"quality"`
	Filesize  *int64     `json:"filesize"`
	SizeHint  *string    `json:"size_hint"`
	Container string     `json:"container"`
	VCodec    *string    `json:"vcodec"`
	ACodec    *string    `json:"acodec"`
	FPS       *float64   `json:"fps"`
	Kind      FormatKind `json:"kind"`
	Note      string     `json:"note"`
}

// FrameRate returns the frame rate or 0 when unknown
func (f FormatDescriptor) FrameRate() float64 {
	if f.FPS == nil {
		return 0
	}
	return *f.FPS
}

// VideoMetadata is the response of an info lookup
type VideoMetadata struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Uploader  string             `json:"uploader"`
	Duration  *float64           `json:"duration"`
	Thumbnail string             `json:"thumbnail"`
	Formats   []FormatDescriptor `json:"formats"`
}
