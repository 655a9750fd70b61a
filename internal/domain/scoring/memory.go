package scoring

import (
	"github.com/dustin/go-humanize"

	"github.com/abdidvp/hwaudit/internal/domain"
)

const (
	memoryUncorrectableCost = 50.0
	memoryCorrectedBase     = 5.0
	memoryCorrectedStep     = 3.0
	memoryCorrectedLimit    = 20.0
	memoryPressurePct       = 95.0
	memoryPressureCost      = 10.0
)

type MemoryMetrics struct {
	TotalBytes     *uint64
	AvailableBytes *uint64
	SwapTotalBytes *uint64
	SwapUsedBytes  *uint64
	Modules        *int
	SpeedMTs       *int
	Type           string
	// ECC error counters, when the platform exposes them.
	CorrectedErrors     *int
	UncorrectableErrors *int
}

// UsedPct returns the share of physical memory in use.
func (m MemoryMetrics) UsedPct() *float64 {
	if m.TotalBytes == nil || m.AvailableBytes == nil || *m.TotalBytes == 0 {
		return nil
	}
	used := (1 - float64(*m.AvailableBytes)/float64(*m.TotalBytes)) * 100
	used = max(0, used)
	return &used
}

func (m MemoryMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	put(out, "total_bytes", m.TotalBytes)
	if m.TotalBytes != nil {
		out["total"] = humanize.IBytes(*m.TotalBytes)
	}
	put(out, "available_bytes", m.AvailableBytes)
	put(out, "used_pct", m.UsedPct())
	put(out, "swap_total_bytes", m.SwapTotalBytes)
	put(out, "swap_used_bytes", m.SwapUsedBytes)
	put(out, "modules", m.Modules)
	put(out, "speed_mts", m.SpeedMTs)
	putString(out, "type", m.Type)
	put(out, "corrected_errors", m.CorrectedErrors)
	put(out, "uncorrectable_errors", m.UncorrectableErrors)
	return out
}

// ScoreMemory deducts for ECC errors and for memory pressure at audit time.
func ScoreMemory(m MemoryMetrics) Assessment {
	var l ledger

	l.expect("total", m.TotalBytes != nil, 0)
	if used := m.UsedPct(); l.expect("available", used != nil, memoryPressureCost) && *used >= memoryPressurePct {
		l.deduct(memoryPressureCost, "memory %.0f%% in use", *used)
	}
	if l.optional(m.UncorrectableErrors != nil) && *m.UncorrectableErrors > 0 {
		l.deduct(memoryUncorrectableCost, "%d uncorrectable ECC errors", *m.UncorrectableErrors)
	}
	if l.optional(m.CorrectedErrors != nil) {
		l.deduct(doublingPenalty(*m.CorrectedErrors, memoryCorrectedBase, memoryCorrectedStep, memoryCorrectedLimit),
			"%d corrected ECC errors", *m.CorrectedErrors)
	}
	l.optional(m.Modules != nil)

	return l.assess()
}
