package probe

import (
	"context"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

// probeBattery scores every battery found. A machine without one prints
// nothing, which is absence rather than failure.
func (r *Registry) probeBattery(ctx context.Context, s *session) []domain.ComponentResult {
	text, ok := s.run(ctx, cmdBatteryStatus, nil)
	if !ok {
		return nil
	}
	var results []domain.ComponentResult
	for _, m := range parseBatteries(text) {
		a := scoring.ScoreBattery(m, r.settings.RatedCycles)
		results = append(results, a.Result(domain.ComponentBattery, m.Model, m.Metrics(), r.settings.NeutralScore))
	}
	return results
}

// parseBatteries reads sysfs power_supply, system_profiler SPPowerDataType
// and Win32_Battery records. Records without battery attributes are
// skipped.
func parseBatteries(text string) []scoring.BatteryMetrics {
	var out []scoring.BatteryMetrics
	for _, rec := range parseRecords(text) {
		if !rec.has("cycle_count", "energy_full", "charge_full", "energy_full_design",
			"charge_full_design", "full_charged_capacity", "designed_capacity", "maximum_capacity") {
			continue
		}
		m := scoring.BatteryMetrics{
			Model:     rec.str("model_name", "device_name", "name"),
			Condition: rec.str("condition", "health"),
		}
		// sysfs reports 0 cycles when the gauge does not count them
		if c := rec.int("cycle_count"); c != nil && (*c > 0 || !rec.has("energy_full", "charge_full")) {
			m.CycleCount = c
		}
		m.DesignCapacity = positive(rec.float("energy_full_design", "charge_full_design", "designed_capacity", "design_capacity"))
		m.FullChargeCapacity = positive(rec.float("energy_full", "charge_full", "full_charged_capacity", "full_charge_capacity", "full_charge_capacity_mah"))
		if pct := rec.float("maximum_capacity"); pct != nil && *pct > 0 && *pct <= 100 {
			m.HealthPct = pct
		}
		if strings.EqualFold(m.Condition, "unknown") {
			m.Condition = ""
		}
		out = append(out, m)
	}
	return out
}
