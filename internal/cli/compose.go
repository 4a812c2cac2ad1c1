package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/service"
)

func (a *app) composeCommand() *cobra.Command {
	var (
		out        captureFlags
		layout     string
		columns    int
		spacing    int
		padding    int
		background string
		async      bool
	)
	cmd := &cobra.Command{
		Use:   "compose URL URL...",
		Short: "Combine several pages into one image",
		Example: `  shotctl compose example.com github.com --layout horizontal -o side-by-side.png
  shotctl compose a.com b.com c.com d.com --layout grid --columns 2 --background "#ffffff"`,
		Args: cobra.RangeArgs(domain.MinComposeURLs, domain.MaxComposeURLs),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := domain.ParseLayout(layout)
			if err != nil {
				return err
			}
			format, err := domain.ParseImageFormat(firstNonEmpty(out.format, a.cfg.Defaults.Format), false)
			if err != nil {
				return err
			}
			output := domain.ComposeOutput{
				Layout:     l,
				Format:     format,
				Columns:    columns,
				Background: background,
				Quality:    out.quality,
			}
			if cmd.Flags().Changed("spacing") {
				output.Spacing = &spacing
			}
			if cmd.Flags().Changed("padding") {
				output.Padding = &padding
			}
			req, err := domain.NewComposeRequest(args, firstNonEmpty(out.device, a.cfg.Defaults.Device), out.fullPage, output)
			if err != nil {
				return err
			}

			api, err := a.client()
			if err != nil {
				return err
			}
			p := a.p
			p.printf("%s %d screenshots\n", bold(cyan("Composing")), len(req.Captures))

			svc := service.NewComposeService(api, a.materializer(), a.log)
			spinner := display.NewSpinner(p.err, "Composing screenshots...")
			res, err := svc.Compose(cmd.Context(), req, service.ComposeOptions{
				OutputPath: out.output,
				Display:    out.shouldDisplay(a.cfg),
			})
			spinner.Stop()
			if res == nil {
				return err
			}

			r := res.Result
			p.println(bold(green("Composition complete!")))
			p.printf("  Layout: %s\n", l)
			if r.Width > 0 && r.Height > 0 {
				p.printf("  Size: %dx%d\n", r.Width, r.Height)
			}
			if r.FileSize > 0 {
				p.printf("  File size: %s\n", display.FormatSize(r.FileSize))
			}
			if r.RenderTimeMs > 0 {
				p.printf("  Render time: %s\n", time.Duration(r.RenderTimeMs)*time.Millisecond)
			}
			if r.URL != "" {
				p.printf("  Result URL: %s\n", cyan(r.URL))
			}
			if r.StorageURL != "" {
				p.printf("  Storage URL: %s\n", cyan(r.StorageURL))
			}
			if err != nil {
				return err
			}
			if res.Local != nil {
				if res.Local.Outcome.Path != "" {
					p.printf("  Saved to: %s\n", cyan(res.Local.Outcome.Path))
				}
				if res.Local.MirrorURL != "" {
					p.printf("  Mirrored to: %s\n", cyan(res.Local.MirrorURL))
				}
				if res.Local.DisplayErr != nil {
					p.warning("Could not display image: %v (use --no-display to skip the preview)", res.Local.DisplayErr)
				}
			} else if out.output != "" {
				p.warning("The service returned no result URL, nothing was saved")
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&layout, "layout", string(domain.LayoutAuto), "layout: grid, horizontal, vertical, masonry, mondrian, partitioning, auto")
	fs.IntVar(&columns, "columns", 0, "number of columns (grid layout)")
	fs.IntVar(&spacing, "spacing", 0, "spacing between images in pixels")
	fs.IntVar(&padding, "padding", 0, "padding around the canvas in pixels")
	fs.StringVar(&background, "background", "", `background color (#RRGGBB or "transparent")`)
	fs.StringVar(&out.format, "format", "", "image format: png, jpeg, webp")
	fs.IntVar(&out.quality, "quality", 0, "image quality 1-100 (jpeg and webp)")
	fs.StringVarP(&out.device, "device", "d", "", "device preset for every capture")
	fs.BoolVar(&out.fullPage, "full-page", false, "capture full pages")
	fs.BoolVar(&async, "async", false, "")
	_ = fs.MarkDeprecated("async", "compositions always complete before the command returns")
	out.bindOutput(cmd)
	return cmd
}
