package scoring

import (
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
)

const (
	batteryCyclesLimit      = 40.0
	batteryCapacityPerPct   = 0.8
	batteryCapacityLimit    = 50.0
	batteryConditionService = 10.0
	batteryConditionReplace = 20.0
)

// BatteryMetrics are the measured attributes of one battery. Capacities
// are unit-agnostic (mWh or mAh) as long as both use the same unit.
type BatteryMetrics struct {
	Model              string
	CycleCount         *int
	RatedCycles        *int
	DesignCapacity     *float64
	FullChargeCapacity *float64
	// HealthPct is a directly reported maximum-capacity percentage.
	HealthPct *float64
	Condition string
}

// CapacityPct returns the remaining capacity as a share of design capacity.
func (m BatteryMetrics) CapacityPct() *float64 {
	if m.HealthPct != nil {
		return m.HealthPct
	}
	if m.DesignCapacity != nil && m.FullChargeCapacity != nil && *m.DesignCapacity > 0 {
		pct := *m.FullChargeCapacity * 100 / *m.DesignCapacity
		return &pct
	}
	return nil
}

func (m BatteryMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	putString(out, "model", m.Model)
	put(out, "cycle_count", m.CycleCount)
	put(out, "rated_cycles", m.RatedCycles)
	put(out, "design_capacity", m.DesignCapacity)
	put(out, "full_charge_capacity", m.FullChargeCapacity)
	put(out, "capacity_pct", m.CapacityPct())
	putString(out, "condition", m.Condition)
	return out
}

// ScoreBattery deducts proportionally to cycles consumed against rated
// cycle life and to capacity lost against design capacity.
func ScoreBattery(m BatteryMetrics, defaultRatedCycles int) Assessment {
	var l ledger

	if l.expect("cycle_count", m.CycleCount != nil, batteryCyclesLimit) {
		rated := defaultRatedCycles
		if m.RatedCycles != nil && *m.RatedCycles > 0 {
			rated = *m.RatedCycles
		}
		r := ratio(float64(*m.CycleCount), float64(rated))
		l.deduct(batteryCyclesLimit*r, "%d of %d rated cycles used", *m.CycleCount, rated)
	}
	if pct := m.CapacityPct(); l.expect("capacity", pct != nil, batteryCapacityLimit) {
		lost := 100 - *pct
		l.deduct(linearPenalty(lost, batteryCapacityPerPct, batteryCapacityLimit),
			"capacity at %.0f%% of design", *pct)
	}
	if m.Condition != "" {
		switch conditionSeverity(m.Condition) {
		case 2:
			l.deduct(batteryConditionReplace, "condition reported as %q", m.Condition)
		case 1:
			l.deduct(batteryConditionService, "condition reported as %q", m.Condition)
		}
	}

	return l.assess()
}

// conditionSeverity grades vendor condition strings: 0 normal, 1 service
// advised, 2 replacement needed.
func conditionSeverity(condition string) int {
	c := strings.ToLower(condition)
	switch {
	case strings.Contains(c, "replace now"), strings.Contains(c, "poor"),
		strings.Contains(c, "check battery"), strings.Contains(c, "dead"),
		strings.Contains(c, "pred fail"), strings.Contains(c, "error"):
		return 2
	case strings.Contains(c, "service"), strings.Contains(c, "replace soon"),
		strings.Contains(c, "degraded"), strings.Contains(c, "overheat"),
		strings.Contains(c, "fair"):
		return 1
	default:
		return 0
	}
}
