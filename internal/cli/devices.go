package cli

import (
	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/domain"
)

func (a *app) devicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "Show available device presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			p := a.p
			p.println(title("Available Device Presets"))

			presets := domain.DevicePresets()
			for _, group := range []domain.DeviceGroup{domain.DeviceGroupDesktop, domain.DeviceGroupTablet, domain.DeviceGroupMobile} {
				p.println()
				p.println(bold(cyan(string(group))))
				for _, d := range presets {
					if d.Group() == group {
						p.printf("  %-25s %s\n", d.Name, dim(d.Resolution))
					}
				}
			}
			p.println()
			p.println(dim(`Use with: shotctl <url> --device "Device Name"`))
		},
	}
}
