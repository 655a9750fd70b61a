// Package probe gathers raw diagnostic output for each component family
// through the capability table and converts it into scored results.
package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Settings tune how probes run and score.
type Settings struct {
	CommandTimeout time.Duration
	NeutralScore   int
	RatedCycles    int
	RatedTBW       float64
}

// SettingsFrom derives probe settings from the audit configuration.
func SettingsFrom(cfg domain.AuditConfig) Settings {
	return Settings{
		CommandTimeout: cfg.EffectiveCommandTimeout(),
		NeutralScore:   cfg.EffectiveNeutralScore(),
		RatedCycles:    cfg.EffectiveRatedCycles(),
		RatedTBW:       cfg.Storage.RatedTBW,
	}
}

// Registry implements domain.ProbeRegistry over a capability table.
type Registry struct {
	runner   domain.CommandRunner
	table    Table
	settings Settings
	logger   *slog.Logger
}

func NewRegistry(runner domain.CommandRunner, table Table, settings Settings, logger *slog.Logger) *Registry {
	if table == nil {
		table = DefaultTable()
	}
	if settings.CommandTimeout <= 0 {
		settings.CommandTimeout = domain.DefaultCommandTimeout
	}
	if settings.RatedCycles <= 0 {
		settings.RatedCycles = domain.DefaultRatedCycles
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{runner: runner, table: table, settings: settings, logger: logger}
}

// probeFunc gathers and scores one family within a session.
type probeFunc func(ctx context.Context, s *session) []domain.ComponentResult

type family struct {
	kind domain.ComponentKind
	ids  []string
	run  probeFunc
}

// families lists every family in report order.
func (r *Registry) families() []family {
	return []family{
		{domain.ComponentCPU, []string{cmdCPUInfo, cmdCPUTemperature, cmdCPULoad}, r.probeCPU},
		{domain.ComponentRAM, []string{cmdRAMInfo, cmdRAMECC}, r.probeRAM},
		{domain.ComponentStorage, []string{cmdStorageScan, cmdStorageList}, r.probeStorage},
		{domain.ComponentBattery, []string{cmdBatteryStatus}, r.probeBattery},
		{domain.ComponentScreen, []string{cmdScreenInfo}, r.probeScreen},
		{domain.ComponentGPU, []string{cmdGPUInfo, cmdGPUNvidia}, r.probeGPU},
		{domain.ComponentNetwork, []string{cmdNetworkAdapters}, r.probeNetwork},
		{domain.ComponentFan, []string{cmdFanStatus}, r.probeFan},
		{domain.ComponentKeyboard, []string{cmdKeyboardDevices}, peripheral(cmdKeyboardDevices)},
		{domain.ComponentTouchpad, []string{cmdTouchpadDevices}, peripheral(cmdTouchpadDevices)},
		{domain.ComponentUSB, []string{cmdUSBDevices}, peripheral(cmdUSBDevices)},
		{domain.ComponentWebcam, []string{cmdWebcamDevices}, peripheral(cmdWebcamDevices)},
		{domain.ComponentAudio, []string{cmdAudioDevices}, peripheral(cmdAudioDevices)},
	}
}

// ProbesFor returns the probes whose commands exist on platform, in the
// fixed report order. An unknown platform has none.
func (r *Registry) ProbesFor(platform domain.Platform) []domain.Probe {
	var probes []domain.Probe
	for _, fam := range r.families() {
		if !r.table.Supports(platform, fam.ids...) {
			continue
		}
		probes = append(probes, &familyProbe{reg: r, platform: platform, family: fam})
	}
	return probes
}

// familyProbe binds a family to a platform.
type familyProbe struct {
	reg      *Registry
	platform domain.Platform
	family   family
}

func (p *familyProbe) Name() string { return p.family.kind.Key() }

func (p *familyProbe) Kind() domain.ComponentKind { return p.family.kind }

// Probe runs the family's commands. When every attempted command failed
// the family yields a single RUN_FAILED result with the neutral score;
// otherwise it yields one result per component found, possibly none.
func (p *familyProbe) Probe(ctx context.Context) []domain.ComponentResult {
	s := &session{reg: p.reg, platform: p.platform, kind: p.family.kind}
	results := p.family.run(ctx, s)
	if len(results) == 0 && s.allFailed() {
		return []domain.ComponentResult{s.failed("")}
	}
	return s.annotate(results)
}
