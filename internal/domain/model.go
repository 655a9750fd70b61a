package domain

import (
	"strings"
	"time"
)

// ComponentKind identifies a hardware component family.
type ComponentKind string

const (
	ComponentCPU      ComponentKind = "CPU"
	ComponentRAM      ComponentKind = "RAM"
	ComponentStorage  ComponentKind = "STORAGE"
	ComponentBattery  ComponentKind = "BATTERY"
	ComponentScreen   ComponentKind = "SCREEN"
	ComponentGPU      ComponentKind = "GPU"
	ComponentNetwork  ComponentKind = "NETWORK"
	ComponentFan      ComponentKind = "FAN"
	ComponentKeyboard ComponentKind = "KEYBOARD"
	ComponentTouchpad ComponentKind = "TOUCHPAD"
	ComponentUSB      ComponentKind = "USB"
	ComponentWebcam   ComponentKind = "WEBCAM"
	ComponentAudio    ComponentKind = "AUDIO"
)

// ComponentKinds enumerates every component family in report order.
var ComponentKinds = []ComponentKind{
	ComponentCPU, ComponentRAM, ComponentStorage, ComponentBattery,
	ComponentScreen, ComponentGPU, ComponentNetwork, ComponentFan,
	ComponentKeyboard, ComponentTouchpad, ComponentUSB, ComponentWebcam,
	ComponentAudio,
}

// Key returns the lowercase name used in configuration files and flags.
func (k ComponentKind) Key() string { return strings.ToLower(string(k)) }

// ParseComponentKind resolves a component name case-insensitively.
func ParseComponentKind(name string) (ComponentKind, bool) {
	name = strings.TrimSpace(name)
	for _, k := range ComponentKinds {
		if strings.EqualFold(name, string(k)) {
			return k, true
		}
	}
	return "", false
}

// RunStatus records how much usable data a probe obtained. It is
// independent of Score: a failed probe still yields a scored result.
type RunStatus string

const (
	StatusOK       RunStatus = "RUN_OK"
	StatusDegraded RunStatus = "RUN_DEGRADED"
	StatusFailed   RunStatus = "RUN_FAILED"
)

const (
	// DefaultNeutralScore is assigned to components that could not be
	// measured. Unmeasured must never read as measured-and-bad.
	DefaultNeutralScore = 50

	// FunctionalFailureScore is the fixed score of a pass/fail component
	// (fan, peripherals, network adapter) that reports a fault.
	FunctionalFailureScore = 30
)

// Metrics holds the measured attributes of one component. A key is
// present only when the attribute was actually measured.
type Metrics map[string]any

// ComponentResult is the normalized health record of one component instance.
type ComponentResult struct {
	Component ComponentKind `json:"component"`
	Label     string        `json:"label,omitempty"`
	Score     int           `json:"score"`
	Metrics   Metrics       `json:"metrics"`
	Status    RunStatus     `json:"status"`
	Notes     string        `json:"notes,omitempty"`
	Findings  []string      `json:"findings,omitempty"`
}

// FailedResult builds a RUN_FAILED result carrying the neutral score.
func FailedResult(kind ComponentKind, label, notes string, neutral int) ComponentResult {
	return ComponentResult{
		Component: kind,
		Label:     label,
		Score:     ClampScore(neutral),
		Metrics:   Metrics{},
		Status:    StatusFailed,
		Notes:     notes,
	}
}

// ClampScore bounds a score to [0,100].
func ClampScore(score int) int {
	return max(0, min(score, 100))
}

// MachineInfo is the best-effort identity of the audited machine.
// Unknown fields are left empty.
type MachineInfo struct {
	Hostname     string `json:"hostname,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	BIOSVersion  string `json:"biosVersion,omitempty"`
	OSName       string `json:"osName,omitempty"`
	OSVersion    string `json:"osVersion,omitempty"`
	Kernel       string `json:"kernel,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Uptime       int64  `json:"uptime,omitempty"` // seconds
}

// AuditResult is the complete report of one audit invocation.
type AuditResult struct {
	ID          string            `json:"id"`
	Platform    Platform          `json:"platform"`
	StartedAt   time.Time         `json:"startedAt"`
	Machine     MachineInfo       `json:"machine"`
	Components  []ComponentResult `json:"components"`
	ScoreGlobal int               `json:"scoreGlobal"`
	Verdict     Verdict           `json:"verdict"`
	Duration    int64             `json:"duration"` // milliseconds
}

// CountByStatus tallies components per run status.
func (r *AuditResult) CountByStatus() map[RunStatus]int {
	counts := make(map[RunStatus]int, 3)
	for _, c := range r.Components {
		counts[c.Status]++
	}
	return counts
}

// AuditEntry is one line of the audit history kept by the CLI.
type AuditEntry struct {
	Timestamp   string  `json:"timestamp"`
	AuditID     string  `json:"audit_id"`
	Hostname    string  `json:"hostname,omitempty"`
	ScoreGlobal int     `json:"score_global"`
	Verdict     Verdict `json:"verdict"`
	Components  int     `json:"components"`
	Failed      int     `json:"failed"`
}

// NewAuditEntry summarizes an audit result for the history.
func NewAuditEntry(r *AuditResult) AuditEntry {
	return AuditEntry{
		Timestamp:   r.StartedAt.Format(time.RFC3339),
		AuditID:     r.ID,
		Hostname:    r.Machine.Hostname,
		ScoreGlobal: r.ScoreGlobal,
		Verdict:     r.Verdict,
		Components:  len(r.Components),
		Failed:      r.CountByStatus()[StatusFailed],
	}
}
