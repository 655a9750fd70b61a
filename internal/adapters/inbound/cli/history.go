package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/tui"
	"github.com/abdidvp/hwaudit/internal/domain"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the score of past audits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, hist, err := root.stores()
			if err != nil {
				return err
			}
			entries, err := hist.Load()
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			if jsonOutput {
				if entries == nil {
					entries = []domain.AuditEntry{}
				}
				return renderJSON(cmd, entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N audits")

	return cmd
}
