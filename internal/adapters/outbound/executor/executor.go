// Package executor runs native diagnostic commands under a timeout and
// normalizes every outcome into a domain.CommandOutput. It also provides
// a recorder and a replayer so audits can be captured on one machine and
// reproduced anywhere.
package executor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// waitDelay bounds how long Run waits for output pipes after the process
// is killed. Grandchildren holding stdout open would otherwise block.
const waitDelay = 500 * time.Millisecond

// Executor implements domain.CommandRunner with os/exec.
type Executor struct {
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{lookPath: exec.LookPath, logger: logger}
}

// Run executes cmd. It never returns an error: a missing binary, a
// timeout, a non-zero exit and undecodable output each map to a
// FailureReason with empty text.
func (e *Executor) Run(ctx context.Context, cmd domain.Command, timeout time.Duration) domain.CommandOutput {
	start := time.Now()
	out := e.run(ctx, cmd, timeout)
	e.logger.Debug("command finished",
		"command", cmd.Key(),
		"line", cmd.String(),
		"duration", time.Since(start).Round(time.Millisecond),
		"bytes", len(out.Text),
		"failure", string(out.Failure),
	)
	return out
}

func (e *Executor) run(ctx context.Context, cmd domain.Command, timeout time.Duration) domain.CommandOutput {
	if ctx.Err() != nil {
		return domain.CommandOutput{Failure: domain.FailureTimeout}
	}
	path, err := e.lookPath(cmd.Name)
	if err != nil {
		return domain.CommandOutput{Failure: domain.FailureUnavailable}
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, path, cmd.Args...)
	c.Stdout = &stdout
	c.Stderr = &stderr
	c.WaitDelay = waitDelay
	configureProcess(c)

	err = c.Run()
	if ctx.Err() != nil {
		return domain.CommandOutput{Failure: domain.FailureTimeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// the process never started: permissions, bad interpreter
			e.logger.Debug("command did not start", "command", cmd.Key(), "error", err)
			return domain.CommandOutput{Failure: domain.FailureUnavailable}
		}
		if !cmd.AllowNonZeroExit || strings.TrimSpace(stdout.String()) == "" {
			e.logger.Debug("command exited non-zero",
				"command", cmd.Key(),
				"exit_code", exitErr.ExitCode(),
				"stderr", firstLine(stderr.String()),
			)
			return domain.CommandOutput{Failure: domain.FailureExit}
		}
	}

	return Decode(stdout.Bytes())
}

// Decode converts raw command output to text. Output that is not valid
// UTF-8 after stripping a byte-order mark is an encoding failure; Windows
// line endings are normalized.
func Decode(raw []byte) domain.CommandOutput {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(raw) {
		return domain.CommandOutput{Failure: domain.FailureEncoding}
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return domain.CommandOutput{Text: text}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
