package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	stateDir   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "hwaudit",
		Short: "Audit the health of this machine's hardware",
		Long: "hwaudit probes every hardware component it can reach with the platform's native diagnostic tools, " +
			"scores each one from 0 to 100 and combines them into a weighted global health score.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", ".", "Config file or directory containing .hwaudit.yaml")
	cmd.PersistentFlags().StringVar(&opts.stateDir, "state-dir", "", "Directory for the last audit and history (defaults to the user cache dir)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every diagnostic command to stderr")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newAuditCmd(opts))
	cmd.AddCommand(newProbesCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. An interrupt cancels the running audit, which still
// reports what it gathered.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
