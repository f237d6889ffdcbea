package app

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/TETRIX8/youtubesave/internal/domain"
)

// heightLabel matches quality labels such as "720p" or "1080p60"
var heightLabel = regexp.MustCompile(`^(\d+)p\d*$`)

// NormalizeFormats turns raw extractor formats into display descriptors,
// most preferred first. Formats without a source URL are dropped.
func NormalizeFormats(raw []domain.RawFormat) []domain.FormatDescriptor {
	formats := make([]domain.FormatDescriptor, 0, len(raw))
	for _, f := range raw {
		if f.URL == "" {
			continue
		}
		formats = append(formats, DescribeFormat(f))
	}
	SortFormats(formats)
	return formats
}

// DescribeFormat derives a single descriptor from a raw format
func DescribeFormat(f domain.RawFormat) domain.FormatDescriptor {
	kind := ClassifyFormat(f)

	d := domain.FormatDescriptor{
		FormatID:  f.FormatID,
		Ext:       f.Ext,
		Quality:   QualityLabel(f, kind),
		Filesize:  fileSize(f),
		Container: f.Container,
		VCodec:    f.VCodec,
		ACodec:    f.ACodec,
		FPS:       f.FPS,
		Kind:      kind,
		Note:      f.FormatNote,
	}
	if f.TBR != nil && *f.TBR > 0 {
		hint := fmt.Sprintf("~%dkbps", int(*f.TBR))
		d.SizeHint = &hint
	}
	return d
}

// ClassifyFormat decides which streams a format carries
func ClassifyFormat(f domain.RawFormat) domain.FormatKind {
	hasVideo, hasAudio := f.HasVideo(), f.HasAudio()
	switch {
	case hasVideo && hasAudio:
		return domain.KindMuxed
	case hasVideo:
		return domain.KindVideo
	case hasAudio:
		return domain.KindAudio
	default:
		return domain.KindUnknown
	}
}

// QualityLabel builds the human readable quality, e.g. "1080p60" or "audio 128kbps"
func QualityLabel(f domain.RawFormat, kind domain.FormatKind) string {
	if f.Height != nil && *f.Height > 0 {
		label := strconv.Itoa(*f.Height) + "p"
		if f.FPS != nil && *f.FPS > 30 {
			label += strconv.Itoa(int(*f.FPS))
		}
		return label
	}
	if kind == domain.KindAudio {
		if f.ABR != nil && *f.ABR > 0 {
			return fmt.Sprintf("audio %dkbps", int(*f.ABR))
		}
		return "audio"
	}
	if f.Ext != "" {
		return f.Ext
	}
	return "format"
}

// HeightFromQuality extracts the vertical resolution from a label like
// "1080p60". Labels that don't look like a resolution yield 0.
func HeightFromQuality(quality string) int {
	m := heightLabel.FindStringSubmatch(quality)
	if m == nil {
		return 0
	}
	h, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return h
}

// SortFormats orders descriptors by kind, then height and frame rate descending.
// The sort is stable so equal formats keep the extractor's order.
func SortFormats(formats []domain.FormatDescriptor) {
	sort.SliceStable(formats, func(i, j int) bool {
		a, b := formats[i], formats[j]
		if ra, rb := a.Kind.Rank(), b.Kind.Rank(); ra != rb {
			return ra < rb
		}
		if ha, hb := HeightFromQuality(a.Quality), HeightFromQuality(b.Quality); ha != hb {
			return ha > hb
		}
		return a.FrameRate() > b.FrameRate()
	})
}

func fileSize(f domain.RawFormat) *int64 {
	for _, v := range []*float64{f.Filesize, f.FilesizeApprox} {
		if v != nil && *v > 0 {
			size := int64(*v)
			return &size
		}
	}
	return nil
}
