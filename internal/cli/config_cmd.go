package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage authentication and settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add-authtoken TOKEN",
			Short: "Store the API key in the config file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				if err := f.SetAPIKey(strings.TrimSpace(args[0])); err != nil {
					return err
				}
				a.p.success("API key saved to %s", cyan(f.Path()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove-authtoken",
			Short: "Remove the API key from the config file",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				if f.APIKey() == "" {
					a.p.println(dim("No API key stored in " + f.Path()))
					return nil
				}
				if err := f.Unset("api.key"); err != nil {
					return err
				}
				a.p.success("API key removed from %s", cyan(f.Path()))
				if env := config.APIKeyEnvSource(); env != "" {
					a.p.warning("%s is still set in the environment", env)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				a.printConfig(f)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				a.p.println(f.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Set a value in the config file",
			Long:  "Set a value in the config file. Valid keys:\n  " + strings.Join(config.Keys(), "\n  "),
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				if err := f.Set(args[0], args[1]); err != nil {
					return err
				}
				a.p.success("%s updated", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print a value from the config file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := config.OpenFile(a.opts.configPath)
				if err != nil {
					return err
				}
				val, ok, err := f.Get(args[0])
				if err != nil {
					return err
				}
				if !ok {
					a.p.println(dim("(not set)"))
					return nil
				}
				if strings.EqualFold(args[0], "api.key") {
					val = config.MaskAPIKey(val)
				}
				a.p.println(val)
				return nil
			},
		},
	)
	return cmd
}

func (a *app) printConfig(f *config.File) {
	p := a.p
	c := a.cfg

	p.println(title("Configuration"))
	p.println()
	p.printf("  Config file: %s\n", cyan(f.Path()))

	key := dim("not set")
	if c.API.Key != "" {
		source := "config file"
		switch {
		case a.opts.apiKey != "":
			source = "--api-key"
		case config.APIKeyEnvSource() != "":
			source = "env " + config.APIKeyEnvSource()
		}
		key = config.MaskAPIKey(c.API.Key) + " " + dim("(from "+source+")")
	}
	p.printf("  API key: %s\n", key)
	p.printf("  Base URL: %s\n", c.API.BaseURL)
	p.println()

	p.println(bold("Defaults"))
	p.printf("  Device: %s\n", c.Defaults.Device)
	p.printf("  Format: %s\n", c.Defaults.Format)
	p.printf("  Output dir: %s\n", c.Defaults.OutputDir)
	p.printf("  Poll interval: %s\n", c.Poll.Interval)
	p.printf("  Batch concurrency: %d\n", c.Batch.Concurrency)
	p.printf("  Watch interval: %s\n", c.Watch.Interval)
	p.println()

	p.println(bold("Extras"))
	if c.Storage.Enabled {
		p.printf("  Mirror: %s %s\n", green("enabled"), c.Storage.Bucket)
	} else {
		p.printf("  Mirror: %s\n", dim("disabled"))
	}
	if c.History.Enabled {
		p.printf("  History: %s (%s)\n", green("enabled"), c.History.Driver)
	} else {
		p.printf("  History: %s\n", dim("disabled"))
	}
}
