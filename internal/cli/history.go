package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timmy/shotctl/internal/domain"
)

func (a *app) historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent captures recorded locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.cfg.History.Enabled {
				return domain.ErrHistoryDisabled
			}
			repo, err := a.historyRepo()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			records, err := repo.ListRecent(ctx, limit)
			if err != nil {
				return err
			}

			p := a.p
			if len(records) == 0 {
				p.println(dim("No captures recorded yet."))
				return nil
			}
			p.println(title("Recent Captures"))
			p.println()
			for _, r := range records {
				icon := green("✓")
				if !r.Success {
					icon = red("✗")
				}
				p.printf("%s %s %-7s %s\n", icon, dim(r.CreatedAt.Local().Format("2006-01-02 15:04:05")), r.Kind, r.URL)
				switch {
				case !r.Success:
					p.printf("    Error: %s\n", red(r.Error))
				case r.Path != "":
					p.printf("    Saved to: %s\n", r.Path)
				}
			}

			counts, err := repo.CountByKind(ctx)
			if err != nil {
				return err
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, string(k))
			}
			sort.Strings(kinds)
			parts := make([]string, len(kinds))
			for i, k := range kinds {
				parts[i] = fmt.Sprintf("%s %d", k, counts[domain.CaptureKind(k)])
			}
			p.printf("\n%s %s\n", dim("Totals:"), strings.Join(parts, ", "))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show")
	return cmd
}
