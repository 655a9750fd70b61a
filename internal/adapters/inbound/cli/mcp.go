package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/abdidvp/hwaudit/internal/adapters/inbound/mcp"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/executor"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the hwaudit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(root))
	return cmd
}

func newMCPServeCmd(root *rootOptions) *cobra.Command {
	var platformFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start hwaudit MCP server (stdio)",
		Long:  "Start the hwaudit MCP server using stdio transport. This lets AI assistants run audits, list probes and read the audit history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			platform, err := resolvePlatform(platformFlag, "")
			if err != nil {
				return err
			}
			store, hist, err := root.stores()
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr only
			logger := root.logger(cmd.ErrOrStderr())
			s := mcpadapter.NewHwauditMCPServer(mcpadapter.Deps{
				Auditor: newAuditService(platform, executor.New(logger), cfg, logger),
				Cache:   store,
				History: hist,
				Weights: cfg.EffectiveWeights(),
				Logger:  logger,
			}, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "Override the detected platform (linux, darwin, windows)")

	return cmd
}
