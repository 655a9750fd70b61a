package domain

import (
	"fmt"
	"time"
)

const (
	DefaultAuditTimeout   = 45 * time.Second
	DefaultCommandTimeout = 15 * time.Second

	// DefaultRatedCycles is the rated cycle life assumed for batteries that
	// do not report one. Most laptop cells are rated between 500 and 1000.
	DefaultRatedCycles = 1000
)

// AuditConfig holds audit configuration loaded from .hwaudit.yaml.
// The zero value means "use defaults" for every field.
type AuditConfig struct {
	AuditTimeout   time.Duration      `yaml:"audit_timeout"   json:"audit_timeout,omitempty"`
	CommandTimeout time.Duration      `yaml:"command_timeout" json:"command_timeout,omitempty"`
	Probes         ProbeFilter        `yaml:"probes"          json:"probes,omitempty"`
	Weights        map[string]float64 `yaml:"weights"         json:"weights,omitempty"`
	// NeutralScore is a pointer so an explicit 0 is distinguishable from unset.
	NeutralScore *int          `yaml:"neutral_score,omitempty" json:"neutral_score,omitempty"`
	Battery      BatteryConfig `yaml:"battery"       json:"battery,omitempty"`
	Storage      StorageConfig `yaml:"storage"       json:"storage,omitempty"`
}

// ProbeFilter restricts which component families are audited. An empty
// allow list means every family.
type ProbeFilter struct {
	Allow []string `yaml:"allow" json:"allow,omitempty"`
	Deny  []string `yaml:"deny"  json:"deny,omitempty"`
}

type BatteryConfig struct {
	RatedCycles int `yaml:"rated_cycles" json:"rated_cycles,omitempty"`
}

type StorageConfig struct {
	// RatedTBW is the endurance rating in terabytes written. When set, drives
	// that report total writes but no wear percentage are scored against it.
	RatedTBW float64 `yaml:"rated_tbw" json:"rated_tbw,omitempty"`
}

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() AuditConfig {
	return AuditConfig{}
}

func (c AuditConfig) EffectiveAuditTimeout() time.Duration {
	if c.AuditTimeout > 0 {
		return c.AuditTimeout
	}
	return DefaultAuditTimeout
}

func (c AuditConfig) EffectiveCommandTimeout() time.Duration {
	if c.CommandTimeout > 0 {
		return c.CommandTimeout
	}
	return DefaultCommandTimeout
}

func (c AuditConfig) EffectiveNeutralScore() int {
	if c.NeutralScore != nil {
		return ClampScore(*c.NeutralScore)
	}
	return DefaultNeutralScore
}

func (c AuditConfig) EffectiveRatedCycles() int {
	if c.Battery.RatedCycles > 0 {
		return c.Battery.RatedCycles
	}
	return DefaultRatedCycles
}

// EffectiveWeights overlays configured weights on the defaults.
func (c AuditConfig) EffectiveWeights() Weights {
	w := DefaultWeights()
	for name, v := range c.Weights {
		if kind, ok := ParseComponentKind(name); ok {
			w[kind] = v
		}
	}
	return w
}

// IsProbeEnabled reports whether the component family passes the allow/deny filter.
func (c AuditConfig) IsProbeEnabled(kind ComponentKind) bool {
	if len(c.Probes.Allow) > 0 && !containsKind(c.Probes.Allow, kind) {
		return false
	}
	return !containsKind(c.Probes.Deny, kind)
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c AuditConfig) Validate() error {
	// 1. timeouts must be non-negative and nested
	if c.AuditTimeout < 0 {
		return fmt.Errorf("audit_timeout must not be negative (got %s)", c.AuditTimeout)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("command_timeout must not be negative (got %s)", c.CommandTimeout)
	}
	if c.EffectiveCommandTimeout() > c.EffectiveAuditTimeout() {
		return fmt.Errorf("command_timeout %s exceeds audit_timeout %s",
			c.EffectiveCommandTimeout(), c.EffectiveAuditTimeout())
	}

	// 2. probe filters must name known families and not overlap
	for _, name := range c.Probes.Allow {
		if _, ok := ParseComponentKind(name); !ok {
			return fmt.Errorf("unknown component %q in probes.allow", name)
		}
	}
	for _, name := range c.Probes.Deny {
		kind, ok := ParseComponentKind(name)
		if !ok {
			return fmt.Errorf("unknown component %q in probes.deny", name)
		}
		if containsKind(c.Probes.Allow, kind) {
			return fmt.Errorf("component %q is both allowed and denied", name)
		}
	}

	// 3. weights must name known families and be positive
	for name, v := range c.Weights {
		if _, ok := ParseComponentKind(name); !ok {
			return fmt.Errorf("unknown component %q in weights", name)
		}
		if v <= 0 {
			return fmt.Errorf("weights[%q] = %.3f (must be positive)", name, v)
		}
	}

	// 4. scalar tunables
	if c.NeutralScore != nil && (*c.NeutralScore < 0 || *c.NeutralScore > 100) {
		return fmt.Errorf("neutral_score = %d (must be between 0 and 100)", *c.NeutralScore)
	}
	if c.Battery.RatedCycles < 0 {
		return fmt.Errorf("battery.rated_cycles = %d (must not be negative)", c.Battery.RatedCycles)
	}
	if c.Storage.RatedTBW < 0 {
		return fmt.Errorf("storage.rated_tbw = %.1f (must not be negative)", c.Storage.RatedTBW)
	}

	return nil
}

func containsKind(names []string, kind ComponentKind) bool {
	for _, name := range names {
		if k, ok := ParseComponentKind(name); ok && k == kind {
			return true
		}
	}
	return false
}
