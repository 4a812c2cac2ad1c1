package display

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a byte count using binary units, e.g. "1.5 KiB".
func FormatSize(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// FormatDimensions renders "WxH, size", or just the size when the
// dimensions are unknown.
func FormatDimensions(width, height, size int) string {
	if width > 0 && height > 0 {
		return fmt.Sprintf("%dx%d, %s", width, height, FormatSize(size))
	}
	return FormatSize(size)
}
