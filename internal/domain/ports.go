package domain

import (
	"context"
	"time"
)

// CommandRunner invokes a native diagnostic command under a timeout.
// Implementations never return errors: failures are reported through
// CommandOutput.Failure.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command, timeout time.Duration) CommandOutput
}

// Probe gathers and scores one hardware component family. Probe returns
// one result per component instance and nothing for absent components.
type Probe interface {
	Name() string
	Kind() ComponentKind
	Probe(ctx context.Context) []ComponentResult
}

// ProbeRegistry returns the fixed, ordered set of probes applicable to a platform.
type ProbeRegistry interface {
	ProbesFor(platform Platform) []Probe
}

// MachineIdentifier resolves best-effort machine identity metadata.
type MachineIdentifier interface {
	Identify(ctx context.Context, platform Platform) MachineInfo
}

// ConfigLoader loads audit configuration from a file.
type ConfigLoader interface {
	Load(path string) (AuditConfig, error)
}

// AuditHistory stores a summary line per audit.
type AuditHistory interface {
	Save(entry AuditEntry) error
	Load() ([]AuditEntry, error)
}

// AuditCache keeps the most recent full audit result.
type AuditCache interface {
	Save(result *AuditResult) error
	Load() (*AuditResult, error)
}
