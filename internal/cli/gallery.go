package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/display"
	"github.com/timmy/shotctl/internal/domain"
	"github.com/timmy/shotctl/internal/storage"
)

const galleryLabelWidth = 50

func gallerySize(size string) (width, height int, err error) {
	switch size {
	case "", "small":
		return 40, 10, nil
	case "medium":
		return 60, 15, nil
	}
	return 0, 0, &domain.InvalidOptionError{Option: "size", Value: size, Allowed: "small or medium"}
}

func truncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func (a *app) galleryCommand() *cobra.Command {
	var (
		dir   string
		limit int
		size  string
	)
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Show thumbnails of recent screenshots",
		Example: `  shotctl gallery
  shotctl gallery --dir ./screenshots --size medium`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, h, err := gallerySize(size)
			if err != nil {
				return err
			}
			if limit < 1 {
				limit = 1
			}
			term := display.NewTerminal(a.p.out, w, h)
			if dir != "" {
				return a.localGallery(dir, limit, term)
			}
			return a.apiGallery(cmd, limit, term)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&dir, "dir", "", "show images from this directory instead of recent jobs")
	fs.IntVar(&limit, "limit", 10, "maximum number of images")
	fs.StringVar(&size, "size", "small", "thumbnail size: small, medium")
	return cmd
}

func (a *app) localGallery(dir string, limit int, term *display.Terminal) error {
	images, err := storage.NewLocalStorage().ListImages(dir)
	if err != nil {
		return err
	}

	p := a.p
	p.println(title("Gallery"))
	p.printf("  Source: %s\n\n", cyan(dir))
	if len(images) == 0 {
		p.println(dim("No images found in directory."))
		return nil
	}

	shown := images
	if len(shown) > limit {
		shown = shown[:limit]
	}
	for _, path := range shown {
		data, err := os.ReadFile(path)
		if err == nil {
			err = term.DisplayBytes(data)
		}
		if err != nil {
			p.warning("Failed to display %s: %v", filepath.Base(path), err)
			continue
		}
		p.printf("  %s\n\n", dim(filepath.Base(path)))
	}
	if len(images) > len(shown) {
		p.println(dim(fmt.Sprintf("Showing %d of %d images", len(shown), len(images))))
	}
	return nil
}

func (a *app) apiGallery(cmd *cobra.Command, limit int, term *display.Terminal) error {
	svc, err := a.jobService()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	spinner := display.NewSpinner(a.p.err, "Fetching recent screenshots...")
	jobs, err := svc.List(ctx)
	spinner.Stop()
	if err != nil {
		return err
	}

	p := a.p
	p.println(title("Gallery"))
	p.printf("  Source: %s\n\n", cyan("Recent API jobs"))

	var completed []domain.Job
	for _, job := range jobs {
		if job.Status == domain.JobStatusCompleted && job.ResultURL != "" {
			completed = append(completed, job)
		}
		if len(completed) == limit {
			break
		}
	}
	if len(completed) == 0 {
		p.println(dim("No completed screenshots found."))
		return nil
	}

	for _, job := range completed {
		spinner := display.NewSpinner(a.p.err, "Loading "+job.ID+"...")
		data, err := svc.Download(ctx, job.ID)
		spinner.Stop()
		if err != nil {
			p.warning("Failed to load %s: %v", job.ID, err)
			continue
		}
		if err := term.DisplayBytes(data); err != nil {
			p.warning("Failed to display %s: %v", job.ID, err)
			continue
		}
		label := job.ID
		if job.URL != "" {
			label = truncateLabel(job.URL, galleryLabelWidth)
		}
		p.printf("  %s\n\n", dim(label))
	}
	p.println(dim(fmt.Sprintf("Showing %d screenshots", len(completed))))
	return nil
}
