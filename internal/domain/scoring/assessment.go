package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Assessment is the outcome of scoring one component instance.
type Assessment struct {
	Score    int
	Measured int      // metrics that were present
	Missing  []string // expected metrics that were not measured
	Findings []string // anomalies that caused deductions
}

// Status derives the run status from what was measured. An assessment
// with nothing measured cannot be trusted and counts as failed.
func (a Assessment) Status() domain.RunStatus {
	switch {
	case a.Measured == 0:
		return domain.StatusFailed
	case len(a.Missing) > 0:
		return domain.StatusDegraded
	default:
		return domain.StatusOK
	}
}

// Notes explains a non-OK status.
func (a Assessment) Notes() string {
	switch a.Status() {
	case domain.StatusFailed:
		return "no health metric available"
	case domain.StatusDegraded:
		return "not measured: " + strings.Join(a.Missing, ", ")
	default:
		return ""
	}
}

// Result converts the assessment to a ComponentResult. Failed assessments
// carry the neutral score instead of the computed one.
func (a Assessment) Result(kind domain.ComponentKind, label string, metrics domain.Metrics, neutral int) domain.ComponentResult {
	if a.Status() == domain.StatusFailed {
		r := domain.FailedResult(kind, label, a.Notes(), neutral)
		r.Metrics = metrics
		return r
	}
	return domain.ComponentResult{
		Component: kind,
		Label:     label,
		Score:     domain.ClampScore(a.Score),
		Metrics:   metrics,
		Status:    a.Status(),
		Notes:     a.Notes(),
		Findings:  a.Findings,
	}
}

// ledger accumulates deductions from a starting score of 100.
type ledger struct {
	deducted float64
	failed   bool
	measured int
	missing  []string
	findings []string

	// expected and present sum the weights of expected metrics; a
	// metric's weight is the most it can deduct.
	expected float64
	present  float64
}

// expect records an expected metric carrying weight and reports whether it
// is present.
func (l *ledger) expect(name string, present bool, weight float64) bool {
	l.expected += weight
	if present {
		l.measured++
		l.present += weight
	} else {
		l.missing = append(l.missing, name)
	}
	return present
}

// optional records a metric that is never required.
func (l *ledger) optional(present bool) bool {
	if present {
		l.measured++
	}
	return present
}

func (l *ledger) deduct(points float64, format string, args ...any) {
	if points <= 0 {
		return
	}
	l.deducted += points
	l.findings = append(l.findings, fmt.Sprintf(format, args...))
}

// fail marks a functional failure: the score is capped at
// domain.FunctionalFailureScore regardless of other deductions.
func (l *ledger) fail(format string, args ...any) {
	l.failed = true
	l.findings = append(l.findings, fmt.Sprintf(format, args...))
}

// assess scores the ledger. When expected metrics are missing, deductions
// are scaled by expected/present weight so the missing share is scored
// like the measured one.
func (l *ledger) assess() Assessment {
	deducted := l.deducted
	if len(l.missing) > 0 && l.present > 0 {
		deducted *= l.expected / l.present
	}
	score := domain.ClampScore(int(math.Round(100 - deducted)))
	if l.failed {
		score = min(score, domain.FunctionalFailureScore)
	}
	return Assessment{
		Score:    score,
		Measured: l.measured,
		Missing:  l.missing,
		Findings: l.findings,
	}
}

// put copies a measured value into m; nil pointers stay absent.
func put[T any](m domain.Metrics, key string, v *T) {
	if v != nil {
		m[key] = *v
	}
}

func putString(m domain.Metrics, key, v string) {
	if v != "" {
		m[key] = v
	}
}
