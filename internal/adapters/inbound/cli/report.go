package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoAudit = errors.New("no audit recorded yet; run `hwaudit audit` first")

func newReportCmd(root *rootOptions) *cobra.Command {
	var (
		jsonOutput bool
		summary    bool
		clearLast  bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the last audit again",
		Long:  "Render the most recent audit result without probing the machine again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := root.stores()
			if err != nil {
				return err
			}

			if clearLast {
				if err := store.Invalidate(); err != nil {
					return fmt.Errorf("clearing last audit: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Last audit cleared.")
				return nil
			}

			result, err := store.Load()
			if err != nil {
				return fmt.Errorf("loading last audit: %w", err)
			}
			if result == nil {
				return errNoAudit
			}
			return renderResult(cmd, result, jsonOutput, summary)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the audit result as JSON")
	cmd.Flags().BoolVar(&summary, "summary", false, "Output a one-line summary")
	cmd.Flags().BoolVar(&clearLast, "clear", false, "Forget the last audit")
	cmd.MarkFlagsMutuallyExclusive("json", "summary", "clear")

	return cmd
}
