package domain

import "strings"

// RawInfo is the subset of the extractor's info JSON this service reads.
// Optional numbers are pointers so an absent field is not confused with zero.
type RawInfo struct {
	Type               string         `json:"_type"`
	ID                 string         `json:"id"`
	Title              string         `json:"title"`
	Uploader           string         `json:"uploader"`
	Duration           *float64       `json:"duration"`
	Thumbnail          string         `json:"thumbnail"`
	Thumbnails         []RawThumbnail `json:"thumbnails"`
	Formats            []RawFormat    `json:"formats"`
	RequestedDownloads []RawDownload  `json:"requested_downloads"`
	Entries            []RawInfo      `json:"entries"`
}

// RawThumbnail is one thumbnail candidate
type RawThumbnail struct {
	URL    string `json:"url"`
	Height *int   `json:"height"`
}

// RawDownload describes a file the extractor wrote to disk
type RawDownload struct {
	Filepath string `json:"filepath"`
}

// RawFormat is one stream format as reported by the extractor
type RawFormat struct {
	FormatID       string   `json:"format_id"`
	URL            string   `json:"url"`
	Ext            string   `json:"ext"`
	Height         *int     `json:"height"`
	FPS            *float64 `json:"fps"`
	ABR            *float64 `json:"abr"`
	TBR            *float64 `json:"tbr"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
	Container      string   `json:"container"`
	FormatNote     string   `json:"format_note"`
}

// HasVideo reports whether the format carries a usable video codec
func (f RawFormat) HasVideo() bool {
	return codecPresent(f.VCodec)
}

// HasAudio reports whether the format carries a usable audio codec
func (f RawFormat) HasAudio() bool {
	return codecPresent(f.ACodec)
}

func codecPresent(codec *string) bool {
	if codec == nil {
		return false
	}
	c := strings.TrimSpace(*codec)
	return c != "" && c != "none"
}

// IsCollection reports whether the record is a playlist-like container
func (i *RawInfo) IsCollection() bool {
	return i.Type == "playlist" || i.Type == "multi_video" || (i.Type != "video" && len(i.Entries) > 0)
}

// SingleItem returns the record itself, or the first entry when the extractor
// expanded a collection despite being asked not to.
func (i *RawInfo) SingleItem() (*RawInfo, error) {
	if i == nil {
		return nil, &ExtractionError{Op: "resolve", Message: "extractor returned no result"}
	}
	if !i.IsCollection() {
		return i, nil
	}
	if len(i.Entries) == 0 {
		return nil, &ExtractionError{Op: "resolve", Message: "no entries returned for " + i.ID}
	}
	first := i.Entries[0]
	return &first, nil
}

// DownloadedPath returns the path of the first reported download, if any
func (i *RawInfo) DownloadedPath() string {
	for _, d := range i.RequestedDownloads {
		if d.Filepath != "" {
			return d.Filepath
		}
	}
	return ""
}
