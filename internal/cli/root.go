package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/logger"
)

// Execute runs the command line with the process arguments. Failures are
// rendered with FriendlyError on stderr before being returned.
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{p: &printer{out: out, err: errOut}}
	defer a.close()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(errOut, FriendlyError(err))
	}
	return err
}

func (a *app) rootCommand() *cobra.Command {
	var quick captureFlags

	root := &cobra.Command{
		Use:   "shotctl [URL]",
		Short: "Capture website screenshots from the command line",
		Long: `shotctl captures website screenshots through the AllScreenshots API.

Get your API key at: ` + dashboardKeysURL,
		Example: `  shotctl https://www.google.com
  shotctl https://github.com -o github.png
  shotctl https://example.com -d "iPhone 14" --full-page
  shotctl batch -f urls.txt -o ./screenshots/
  shotctl watch https://example.com --interval 30s
  shotctl compose example.com github.com --layout horizontal -o both.png
  shotctl usage
  shotctl config add-authtoken <your-api-key>`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.opts.noColor {
				color.NoColor = true
			}
			if err := a.setup(); err != nil {
				return err
			}
			ctx := a.log.WithContext(cmd.Context())
			cmd.SetContext(logger.SetComponent(ctx, cmd.CommandPath()))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				a.printWelcome()
				return nil
			}
			return a.runCapture(cmd.Context(), args[0], &quick)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.opts.apiKey, "api-key", "k", "", "API key (overrides the environment and config file)")
	pf.StringVar(&a.opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/shotctl/config.yaml)")
	pf.BoolVarP(&a.opts.verbose, "verbose", "v", false, "verbose logging")
	pf.BoolVar(&a.opts.noColor, "no-color", false, "disable colored output")

	// shorthand capture: shotctl URL
	f := root.Flags()
	f.StringVarP(&quick.output, "output", "o", "", "output file path")
	f.StringVarP(&quick.device, "device", "d", "", `device preset (e.g. "Desktop HD", "iPhone 14")`)
	f.BoolVar(&quick.fullPage, "full-page", false, "capture the full page")
	f.BoolVar(&quick.display, "display", false, "show the image in the terminal")
	f.BoolVar(&quick.noDisplay, "no-display", false, "do not show the image in the terminal")

	root.AddCommand(
		a.captureCommand(),
		a.asyncCommand(),
		a.batchCommand(),
		a.watchCommand(),
		a.composeCommand(),
		a.jobsCommand(),
		a.scheduleCommand(),
		a.usageCommand(),
		a.galleryCommand(),
		a.configCommand(),
		a.historyCommand(),
		a.devicesCommand(),
	)
	return root
}

func (a *app) printWelcome() {
	p := a.p
	p.println()
	p.printf("  %s\n", bold(cyan("shotctl")))
	p.printf("  %s\n\n", dim("Capture website screenshots from the command line"))

	if a.cfg.API.Key == "" {
		p.printf("  %s\n\n", bold(yellow("Getting Started")))
		p.printf("  1. Get your API key at: %s\n", cyan(dashboardKeysURL))
		p.printf("  2. Set it up: %s\n\n", green("shotctl config add-authtoken <your-key>"))
	}

	p.printf("  %s\n\n", bold("Quick Examples"))
	p.printf("  %s  %s\n", green("shotctl https://google.com"), dim("# Capture and display"))
	p.printf("  %s  %s\n", green("shotctl https://github.com -o github.png"), dim("# Save to file"))
	p.printf("  %s  %s\n\n", green("shotctl jobs list"), dim("# Recent async jobs"))
	p.printf("  Run %s for all commands\n\n", cyan("shotctl --help"))
}
