package probe

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// session runs the commands of one probe invocation and remembers which
// of them failed, so the probe can tell "nothing worked" apart from
// "component absent".
type session struct {
	reg      *Registry
	platform domain.Platform
	kind     domain.ComponentKind

	attempted int
	failures  []string
}

// run resolves id on the session platform and executes it. ok is false
// when the id is unsupported or the command failed; blank output with
// ok true means the command ran and found nothing.
func (s *session) run(ctx context.Context, id string, vars map[string]string) (text string, ok bool) {
	cmd, supported := s.reg.table.Lookup(s.platform, id)
	if !supported {
		s.reg.logger.Debug("metric unsupported",
			"component", s.kind, "command", id, "platform", s.platform,
			"reason", domain.FailureUnsupportedMetric)
		return "", false
	}
	if vars != nil {
		cmd = cmd.Expand(vars)
	}

	s.attempted++
	out := s.reg.runner.Run(ctx, cmd, s.reg.settings.CommandTimeout)
	if !out.OK() {
		s.fail(cmd.Key(), out.Failure)
		return "", false
	}
	return out.Text, true
}

// fail records a command that produced no usable data.
func (s *session) fail(key string, reason domain.FailureReason) {
	s.failures = append(s.failures, fmt.Sprintf("%s: %s", key, reason))
	s.reg.logger.Debug("command failed", "component", s.kind, "command", key, "reason", reason)
}

// parseFailure records output that was present but unusable.
func (s *session) parseFailure(key string) {
	s.fail(key, domain.FailureParse)
}

func (s *session) allFailed() bool {
	return s.attempted > 0 && len(s.failures) >= s.attempted
}

func (s *session) failureNotes() string {
	return strings.Join(s.failures, "; ")
}

// failed is the result of a probe whose every command failed.
func (s *session) failed(label string) domain.ComponentResult {
	return domain.FailedResult(s.kind, label, s.failureNotes(), s.reg.settings.NeutralScore)
}

// annotate appends command failures to the notes of degraded results.
func (s *session) annotate(results []domain.ComponentResult) []domain.ComponentResult {
	if len(s.failures) == 0 {
		return results
	}
	for i := range results {
		if results[i].Status != domain.StatusDegraded {
			continue
		}
		if results[i].Notes != "" {
			results[i].Notes += "; "
		}
		results[i].Notes += s.failureNotes()
	}
	return results
}
