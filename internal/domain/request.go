package domain

import "strings"

// ImageFormat is the output format requested from the service.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatWebP ImageFormat = "webp"
	FormatPDF  ImageFormat = "pdf"
)

// ParseImageFormat validates a user supplied format name. Empty means png.
// allowPDF is false for commands that must decode every result.
func ParseImageFormat(s string, allowPDF bool) (ImageFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	case "pdf":
		if allowPDF {
			return FormatPDF, nil
		}
	}
	return "", &InvalidFormatError{Value: s, AllowPDF: allowPDF}
}

// Extension returns the file extension used when saving results.
func (f ImageFormat) Extension() string {
	if f == "" {
		return string(FormatPNG)
	}
	return string(f)
}

// WaitUntil selects the page lifecycle event the renderer waits for.
type WaitUntil string

const (
	WaitUntilLoad             WaitUntil = "load"
	WaitUntilDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitUntilNetworkIdle      WaitUntil = "networkidle"
	WaitUntilCommit           WaitUntil = "commit"
)

// ParseWaitUntil validates a wait-until value.
func ParseWaitUntil(s string) (WaitUntil, error) {
	switch w := WaitUntil(strings.ToLower(strings.TrimSpace(s))); w {
	case WaitUntilLoad, WaitUntilDOMContentLoaded, WaitUntilNetworkIdle, WaitUntilCommit:
		return w, nil
	}
	return "", &InvalidOptionError{
		Option:  "wait-until",
		Value:   s,
		Allowed: "load, domcontentloaded, networkidle, commit",
	}
}

// BlockLevel controls how aggressively the renderer blocks ads and trackers.
type BlockLevel string

const (
	BlockLevelNone     BlockLevel = "none"
	BlockLevelLight    BlockLevel = "light"
	BlockLevelNormal   BlockLevel = "normal"
	BlockLevelPro      BlockLevel = "pro"
	BlockLevelProPlus  BlockLevel = "pro_plus"
	BlockLevelUltimate BlockLevel = "ultimate"
)

// ParseBlockLevel validates a block level value.
func ParseBlockLevel(s string) (BlockLevel, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "proplus" {
		v = string(BlockLevelProPlus)
	}
	switch b := BlockLevel(v); b {
	case BlockLevelNone, BlockLevelLight, BlockLevelNormal, BlockLevelPro, BlockLevelProPlus, BlockLevelUltimate:
		return b, nil
	}
	return "", &InvalidOptionError{
		Option:  "block-level",
		Value:   s,
		Allowed: "none, light, normal, pro, pro_plus, ultimate",
	}
}

// Viewport overrides the device viewport size.
type Viewport struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// CaptureRequest describes one screenshot. It is used as-is for synchronous
// captures, async jobs and as the watch template.
type CaptureRequest struct {
	URL                string      `json:"url"`
	Device             string      `json:"device,omitempty"`
	Viewport           *Viewport   `json:"viewport,omitempty"`
	Format             ImageFormat `json:"format,omitempty"`
	FullPage           bool        `json:"fullPage,omitempty"`
	Quality            int         `json:"quality,omitempty"`
	Delay              int         `json:"delay,omitempty"`
	WaitFor            string      `json:"waitFor,omitempty"`
	WaitUntil          WaitUntil   `json:"waitUntil,omitempty"`
	DarkMode           bool        `json:"darkMode,omitempty"`
	BlockAds           bool        `json:"blockAds,omitempty"`
	BlockCookieBanners bool        `json:"blockCookieBanners,omitempty"`
	BlockLevel         BlockLevel  `json:"blockLevel,omitempty"`
	Selector           string      `json:"selector,omitempty"`
	CustomCSS          string      `json:"customCss,omitempty"`
}
