package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/config"
	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

// captureFlags are the request and output options shared by capture-like commands.
type captureFlags struct {
	output       string
	device       string
	width        int
	height       int
	format       string
	fullPage     bool
	quality      int
	delay        int
	waitFor      string
	waitUntil    string
	darkMode     bool
	blockAds     bool
	blockCookies bool
	blockLevel   string
	selector     string
	customCSS    string
	display      bool
	noDisplay    bool
}

func (f *captureFlags) bindRequest(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.device, "device", "d", "", `device preset (e.g. "Desktop HD", "iPhone 14")`)
	fs.IntVar(&f.width, "width", 0, "viewport width in pixels")
	fs.IntVar(&f.height, "height", 0, "viewport height in pixels")
	fs.StringVar(&f.format, "format", "", "image format: png, jpeg, webp, pdf")
	fs.BoolVar(&f.fullPage, "full-page", false, "capture the full page")
	fs.IntVar(&f.quality, "quality", 0, "image quality 1-100 (jpeg and webp)")
	fs.IntVar(&f.delay, "delay", 0, "delay before capture in milliseconds")
	fs.StringVar(&f.waitFor, "wait-for", "", "CSS selector to wait for before capture")
	fs.StringVar(&f.waitUntil, "wait-until", "", "wait until: load, domcontentloaded, networkidle, commit")
	fs.BoolVar(&f.darkMode, "dark-mode", false, "emulate dark mode")
	fs.BoolVar(&f.blockAds, "block-ads", false, "block advertisements")
	fs.BoolVar(&f.blockCookies, "block-cookies", false, "block cookie banners")
	fs.StringVar(&f.blockLevel, "block-level", "", "block level: none, light, normal, pro, pro_plus, ultimate")
	fs.StringVar(&f.selector, "selector", "", "CSS selector of the element to capture")
	fs.StringVar(&f.customCSS, "custom-css", "", "custom CSS to inject")
}

func (f *captureFlags) bindOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file path")
	fs.BoolVar(&f.display, "display", false, "show the image in the terminal")
	fs.BoolVar(&f.noDisplay, "no-display", false, "do not show the image in the terminal")
}

// shouldDisplay previews by default only when nothing is saved.
func (f *captureFlags) shouldDisplay(cfg *config.Config) bool {
	if f.noDisplay {
		return false
	}
	if f.display {
		return true
	}
	return f.output == "" && cfg.Defaults.Display
}

// request builds a validated capture request, filling unset options from
// the configured defaults.
func (f *captureFlags) request(rawURL string, cfg *config.Config) (domain.CaptureRequest, error) {
	url, err := domain.NormalizeURL(rawURL)
	if err != nil {
		return domain.CaptureRequest{}, err
	}
	req := domain.CaptureRequest{
		URL:                url,
		Device:             firstNonEmpty(f.device, cfg.Defaults.Device),
		FullPage:           f.fullPage,
		Delay:              f.delay,
		WaitFor:            f.waitFor,
		DarkMode:           f.darkMode,
		BlockAds:           f.blockAds,
		BlockCookieBanners: f.blockCookies,
		Selector:           f.selector,
		CustomCSS:          f.customCSS,
	}

	if req.Format, err = domain.ParseImageFormat(firstNonEmpty(f.format, cfg.Defaults.Format), true); err != nil {
		return req, err
	}
	if f.width > 0 || f.height > 0 {
		req.Viewport = &domain.Viewport{Width: f.width, Height: f.height}
	}
	if f.quality != 0 {
		if f.quality < 1 || f.quality > 100 {
			return req, &domain.InvalidOptionError{Option: "quality", Value: fmt.Sprint(f.quality), Allowed: "a value between 1 and 100"}
		}
		req.Quality = f.quality
	}
	if f.waitUntil != "" {
		if req.WaitUntil, err = domain.ParseWaitUntil(f.waitUntil); err != nil {
			return req, err
		}
	}
	if f.blockLevel != "" {
		if req.BlockLevel, err = domain.ParseBlockLevel(f.blockLevel); err != nil {
			return req, err
		}
	}
	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *app) captureCommand() *cobra.Command {
	var f captureFlags
	cmd := &cobra.Command{
		Use:   "capture URL",
		Short: "Take a synchronous screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCapture(cmd.Context(), args[0], &f)
		},
	}
	f.bindRequest(cmd)
	f.bindOutput(cmd)
	return cmd
}

func (a *app) runCapture(ctx context.Context, rawURL string, f *captureFlags) error {
	req, err := f.request(rawURL, a.cfg)
	if err != nil {
		return err
	}
	api, err := a.client()
	if err != nil {
		return err
	}

	svc := service.NewCaptureService(api, a.materializer(), a.log)
	spinner := display.NewSpinner(a.p.err, fmt.Sprintf("Capturing %s...", req.URL))
	res, err := svc.Run(ctx, req, service.CaptureOptions{
		OutputPath: f.output,
		Display:    f.shouldDisplay(a.cfg),
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	printCaptureSummary(a.p, req.URL, res)
	return nil
}
