package domain

import (
	"fmt"
	"strings"
)

// Compose accepts between MinComposeURLs and MaxComposeURLs pages.
const (
	MinComposeURLs = 2
	MaxComposeURLs = 20
)

// Layout arranges the captures of a composition on one canvas.
type Layout string

const (
	LayoutGrid         Layout = "grid"
	LayoutHorizontal   Layout = "horizontal"
	LayoutVertical     Layout = "vertical"
	LayoutMasonry      Layout = "masonry"
	LayoutMondrian     Layout = "mondrian"
	LayoutPartitioning Layout = "partitioning"
	LayoutAuto         Layout = "auto"
)

// ParseLayout validates a layout name. Empty means auto.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayoutAuto, nil
	case LayoutGrid, LayoutHorizontal, LayoutVertical, LayoutMasonry,
		LayoutMondrian, LayoutPartitioning, LayoutAuto:
		return l, nil
	}
	return "", &InvalidOptionError{
		Option:  "layout",
		Value:   s,
		Allowed: "grid, horizontal, vertical, masonry, mondrian, partitioning, or auto",
	}
}

// ComposeCapture is one page of a composition.
type ComposeCapture struct {
	URL    string `json:"url"`
	Device string `json:"device,omitempty"`
}

// ComposeDefaults apply to every capture of a composition.
type ComposeDefaults struct {
	FullPage bool `json:"fullPage,omitempty"`
}

// ComposeOutput describes the combined image.
type ComposeOutput struct {
	Layout     Layout      `json:"layout,omitempty"`
	Format     ImageFormat `json:"format,omitempty"`
	Columns    int         `json:"columns,omitempty"`
	Spacing    *int        `json:"spacing,omitempty"`
	Padding    *int        `json:"padding,omitempty"`
	Background string      `json:"background,omitempty"`
	Quality    int         `json:"quality,omitempty"`
}

// ComposeRequest renders several pages into one image.
type ComposeRequest struct {
	Captures []ComposeCapture `json:"captures"`
	Defaults *ComposeDefaults `json:"defaults,omitempty"`
	Output   *ComposeOutput   `json:"output,omitempty"`
}

// NewComposeRequest normalizes urls and checks the option ranges.
// Every capture uses device when it is set.
func NewComposeRequest(urls []string, device string, fullPage bool, out ComposeOutput) (ComposeRequest, error) {
	if len(urls) < MinComposeURLs || len(urls) > MaxComposeURLs {
		return ComposeRequest{}, &InvalidOptionError{
			Option:  "URL count",
			Value:   fmt.Sprint(len(urls)),
			Allowed: fmt.Sprintf("between %d and %d URLs", MinComposeURLs, MaxComposeURLs),
		}
	}
	normalized, err := NormalizeURLs(urls)
	if err != nil {
		return ComposeRequest{}, err
	}
	if out.Format == FormatPDF {
		return ComposeRequest{}, &InvalidFormatError{Value: string(out.Format)}
	}
	if out.Quality != 0 && (out.Quality < 1 || out.Quality > 100) {
		return ComposeRequest{}, &InvalidOptionError{Option: "quality", Value: fmt.Sprint(out.Quality), Allowed: "1-100"}
	}
	if out.Columns < 0 {
		return ComposeRequest{}, &InvalidOptionError{Option: "columns", Value: fmt.Sprint(out.Columns), Allowed: "a positive number"}
	}

	req := ComposeRequest{Output: &out}
	for _, u := range normalized {
		req.Captures = append(req.Captures, ComposeCapture{URL: u, Device: device})
	}
	if fullPage {
		req.Defaults = &ComposeDefaults{FullPage: true}
	}
	return req, nil
}

// ComposeResult describes the stored composition.
type ComposeResult struct {
	URL          string `json:"url,omitempty"`
	StorageURL   string `json:"storageUrl,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	FileSize     int    `json:"fileSize,omitempty"`
	RenderTimeMs int    `json:"renderTimeMs,omitempty"`
}
