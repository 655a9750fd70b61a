package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/executor"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/tui"
)

func newProbesCmd(root *rootOptions) *cobra.Command {
	var (
		platformFlag string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "probes",
		Short: "List the probes an audit would run",
		Long:  "List the component families applicable to the platform after the config's allow/deny filter, with their weight in the global score.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			platform, err := resolvePlatform(platformFlag, "")
			if err != nil {
				return err
			}

			logger := root.logger(cmd.ErrOrStderr())
			probes := newAuditService(platform, executor.New(logger), cfg, logger).Probes()
			weights := cfg.EffectiveWeights()

			if jsonOutput {
				type probeJSON struct {
					Name   string  `json:"name"`
					Weight float64 `json:"weight"`
				}
				out := make([]probeJSON, 0, len(probes))
				for _, p := range probes {
					out = append(out, probeJSON{Name: p.Name(), Weight: weights[p.Kind()]})
				}
				return renderJSON(cmd, out)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderProbes(platform, probes, weights))
			return nil
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "Override the detected platform (linux, darwin, windows)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output probes as JSON")

	return cmd
}
