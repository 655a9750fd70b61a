package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// AuditService orchestrates one audit:
// identify machine + run probes concurrently → collect in registry order → aggregate.
type AuditService struct {
	platform   domain.Platform
	registry   domain.ProbeRegistry
	identifier domain.MachineIdentifier
	cfg        domain.AuditConfig
	logger     *slog.Logger
	now        func() time.Time
}

func NewAuditService(
	platform domain.Platform,
	registry domain.ProbeRegistry,
	identifier domain.MachineIdentifier,
	cfg domain.AuditConfig,
	logger *slog.Logger,
) *AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{
		platform:   platform,
		registry:   registry,
		identifier: identifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Platform returns the platform the service audits.
func (s *AuditService) Platform() domain.Platform { return s.platform }

// Probes returns the registry's probes for the platform that pass the
// allow/deny filter, in report order.
func (s *AuditService) Probes() []domain.Probe {
	var out []domain.Probe
	for _, p := range s.registry.ProbesFor(s.platform) {
		if s.cfg.IsProbeEnabled(p.Kind()) {
			out = append(out, p)
		}
	}
	return out
}

// RunAudit never fails: probes that panic or miss the audit budget are
// reported as RUN_FAILED components with the neutral score.
func (s *AuditService) RunAudit(ctx context.Context) *domain.AuditResult {
	started := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.EffectiveAuditTimeout())
	defer cancel()

	// 1. Start identity lookup and every probe; each writes to its own slot
	identity := make(chan domain.MachineInfo, 1)
	go func() { identity <- s.identify(ctx) }()

	probes := s.Probes()
	slots := make([]chan []domain.ComponentResult, len(probes))
	for i, p := range probes {
		slots[i] = make(chan []domain.ComponentResult, 1)
		go func(p domain.Probe, slot chan<- []domain.ComponentResult) {
			slot <- s.runProbe(ctx, p)
		}(p, slots[i])
	}

	// 2. Collect in registry order; empty slots past the budget become failures
	components := make([]domain.ComponentResult, 0, len(probes))
	for i, slot := range slots {
		results, ok := receive(ctx, slot)
		if !ok {
			reason := budgetReason(ctx)
			s.logger.Warn("probe abandoned", "probe", probes[i].Name(), "reason", reason)
			results = []domain.ComponentResult{domain.FailedResult(probes[i].Kind(), "", reason, s.cfg.EffectiveNeutralScore())}
		}
		components = append(components, results...)
	}

	var machine domain.MachineInfo
	if info, ok := receive(ctx, identity); ok {
		machine = info
	}

	// 3. Aggregate
	score, verdict := domain.Aggregate(components, s.cfg.EffectiveWeights())

	result := &domain.AuditResult{
		ID:          uuid.NewString(),
		Platform:    s.platform,
		StartedAt:   started.UTC(),
		Machine:     machine,
		Components:  components,
		ScoreGlobal: score,
		Verdict:     verdict,
		Duration:    s.now().Sub(started).Milliseconds(),
	}

	counts := result.CountByStatus()
	s.logger.Info("audit complete",
		"id", result.ID,
		"platform", s.platform,
		"components", len(components),
		"failed", counts[domain.StatusFailed],
		"degraded", counts[domain.StatusDegraded],
		"score", score,
		"verdict", verdict,
		"duration_ms", result.Duration,
	)
	return result
}

// runProbe shields the audit from a misbehaving probe and normalizes its
// results.
func (s *AuditService) runProbe(ctx context.Context, p domain.Probe) (results []domain.ComponentResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("probe panicked", "probe", p.Name(), "panic", r)
			results = []domain.ComponentResult{
				domain.FailedResult(p.Kind(), "", fmt.Sprintf("probe panicked: %v", r), s.cfg.EffectiveNeutralScore()),
			}
		}
	}()

	results = p.Probe(ctx)
	for i := range results {
		results[i].Component = p.Kind()
		results[i].Score = domain.ClampScore(results[i].Score)
		if results[i].Metrics == nil {
			results[i].Metrics = domain.Metrics{}
		}
		if results[i].Status == "" {
			results[i].Status = domain.StatusOK
		}
	}
	return results
}

func (s *AuditService) identify(ctx context.Context) (info domain.MachineInfo) {
	if s.identifier == nil {
		return domain.MachineInfo{}
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("machine identity panicked", "panic", r)
			info = domain.MachineInfo{}
		}
	}()
	return s.identifier.Identify(ctx, s.platform)
}

// receive waits for a slot until ctx is done. A value already in the slot
// wins over an expired context.
func receive[T any](ctx context.Context, slot <-chan T) (T, bool) {
	select {
	case v := <-slot:
		return v, true
	default:
	}
	select {
	case v := <-slot:
		return v, true
	case <-ctx.Done():
		select {
		case v := <-slot:
			return v, true
		default:
		}
		var zero T
		return zero, false
	}
}

func budgetReason(ctx context.Context) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "audit budget exceeded"
	}
	return "audit canceled"
}
