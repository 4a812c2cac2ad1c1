package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/timmy/shotctl/internal/domain"
)

const watchTimestampLayout = "20060102_150405"

// BatchFileName returns {dir}/{NNN}_{domain}.{ext} for the zero-based index
// of an item in a bulk job. NNN is one-based and zero-padded to three digits.
func BatchFileName(dir string, index int, rawURL string, format domain.ImageFormat) string {
	name := fmt.Sprintf("%03d_%s.%s", index+1, domain.ExtractDomain(rawURL), format.Extension())
	return filepath.Join(dir, name)
}

// WatchFileName returns {dir}/{domain}_{YYYYMMDD_HHMMSS}.{ext}. Two captures
// in the same second map to the same name.
func WatchFileName(dir string, rawURL string, at time.Time, format domain.ImageFormat) string {
	name := fmt.Sprintf("%s_%s.%s", domain.ExtractDomain(rawURL), at.Format(watchTimestampLayout), format.Extension())
	return filepath.Join(dir, name)
}

// ContentType returns the MIME type stored with mirrored objects.
func ContentType(format domain.ImageFormat) string {
	switch format {
	case domain.FormatJPEG:
		return "image/jpeg"
	case domain.FormatWebP:
		return "image/webp"
	case domain.FormatPDF:
		return "application/pdf"
	default:
		return "image/png"
	}
}

// DetectFormat sniffs the format of result bytes. Unknown content is png.
func DetectFormat(data []byte) domain.ImageFormat {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/jpeg"):
		return domain.FormatJPEG
	case mt.Is("image/webp"):
		return domain.FormatWebP
	case mt.Is("application/pdf"):
		return domain.FormatPDF
	default:
		return domain.FormatPNG
	}
}
