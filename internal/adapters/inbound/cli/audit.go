package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/executor"
	"github.com/abdidvp/hwaudit/internal/adapters/outbound/tui"
	"github.com/abdidvp/hwaudit/internal/domain"
)

type auditOptions struct {
	jsonOutput     bool
	summary        bool
	ciMode         bool
	minScore       int
	record         string
	replay         string
	platform       string
	timeout        time.Duration
	commandTimeout time.Duration
	only           []string
	skip           []string
	noSave         bool
}

func newAuditCmd(root *rootOptions) *cobra.Command {
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a hardware health audit",
		Long: "Probe every applicable component family, score each instance and print the weighted global score. " +
			"Use --record to capture the diagnostic commands' output and --replay to audit from a capture.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the audit result as JSON")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Output a one-line summary (\"82/100 bon\")")
	cmd.Flags().BoolVar(&opts.ciMode, "ci", false, "CI mode: exit 1 if below --min")
	cmd.Flags().IntVar(&opts.minScore, "min", 0, "Minimum global score for CI mode")
	cmd.Flags().StringVar(&opts.record, "record", "", "Write every command outcome to this fixture file")
	cmd.Flags().StringVar(&opts.replay, "replay", "", "Audit from a recorded fixture instead of the live machine")
	cmd.Flags().StringVar(&opts.platform, "platform", "", "Override the detected platform (linux, darwin, windows)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Overall audit budget (overrides audit_timeout)")
	cmd.Flags().DurationVar(&opts.commandTimeout, "command-timeout", 0, "Per-command timeout (overrides command_timeout)")
	cmd.Flags().StringSliceVar(&opts.only, "only", nil, "Audit only these component families")
	cmd.Flags().StringSliceVar(&opts.skip, "skip", nil, "Skip these component families")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "Do not store the result as last audit or in the history")
	cmd.MarkFlagsMutuallyExclusive("record", "replay")
	cmd.MarkFlagsMutuallyExclusive("json", "summary")

	return cmd
}

func runAudit(cmd *cobra.Command, root *rootOptions, opts *auditOptions) error {
	logger := root.logger(cmd.ErrOrStderr())

	// 1. Config, then flag overrides
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if opts.timeout > 0 {
		cfg.AuditTimeout = opts.timeout
	}
	if opts.commandTimeout > 0 {
		cfg.CommandTimeout = opts.commandTimeout
	}
	if len(opts.only) > 0 {
		cfg.Probes.Allow = opts.only
	}
	cfg.Probes.Deny = append(cfg.Probes.Deny, opts.skip...)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	// 2. Command runner: live, recording or replaying
	var (
		runner   domain.CommandRunner
		recorder *executor.Recorder
		fallback domain.Platform
	)
	if opts.replay != "" {
		fixture, err := executor.LoadFixture(opts.replay)
		if err != nil {
			return err
		}
		runner = executor.NewReplay(fixture)
		fallback = fixture.Platform
	} else {
		runner = executor.New(logger)
		if opts.record != "" {
			recorder = executor.NewRecorder(runner)
			runner = recorder
		}
	}

	platform, err := resolvePlatform(opts.platform, fallback)
	if err != nil {
		return err
	}

	// 3. Audit
	result := newAuditService(platform, runner, cfg, logger).RunAudit(cmd.Context())

	if recorder != nil {
		if err := executor.SaveFixture(opts.record, recorder.Fixture(platform, result.StartedAt)); err != nil {
			return fmt.Errorf("saving fixture: %w", err)
		}
	}

	// 4. Persist (best-effort)
	if !opts.noSave {
		if store, hist, err := root.stores(); err != nil {
			logger.Warn("audit not saved", "error", err)
		} else {
			if err := store.Save(result); err != nil {
				logger.Warn("saving last audit", "error", err)
			}
			if err := hist.Save(domain.NewAuditEntry(result)); err != nil {
				logger.Warn("saving history", "error", err)
			}
		}
	}

	// 5. Render
	if err := renderResult(cmd, result, opts.jsonOutput, opts.summary); err != nil {
		return err
	}

	if opts.ciMode && result.ScoreGlobal < opts.minScore {
		return fmt.Errorf("score %d is below minimum %d", result.ScoreGlobal, opts.minScore)
	}
	return nil
}

func renderResult(cmd *cobra.Command, result *domain.AuditResult, jsonOutput, summary bool) error {
	switch {
	case jsonOutput:
		return renderJSON(cmd, result)
	case summary:
		fmt.Fprintln(cmd.OutOrStdout(), tui.Summary(result))
	default:
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderAudit(result))
	}
	return nil
}
