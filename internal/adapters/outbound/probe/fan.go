package probe

import (
	"context"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

// probeFan reports one pass/fail result per fan sensor.
func (r *Registry) probeFan(ctx context.Context, s *session) []domain.ComponentResult {
	text, ok := s.run(ctx, cmdFanStatus, nil)
	if !ok {
		return nil
	}
	var results []domain.ComponentResult
	for _, m := range parseFans(text) {
		a := scoring.ScoreFan(m)
		results = append(results, a.Result(domain.ComponentFan, m.Name, m.Metrics(), r.settings.NeutralScore))
	}
	return results
}

// parseFans reads hwmon fan records (rpm with fault/alarm flags) and
// Win32_Fan records (name with status).
func parseFans(text string) []scoring.FanMetrics {
	var out []scoring.FanMetrics
	for _, rec := range parseRecords(text) {
		name := rec.str("name")
		if name == "" {
			continue
		}
		m := scoring.FanMetrics{Name: name, RPM: rec.int("rpm")}
		switch {
		case rec.has("fault", "alarm"):
			fault := false
			for _, k := range []string{"fault", "alarm"} {
				if v := rec.bool(k); v != nil && *v {
					fault = true
				}
			}
			m.Fault = &fault
		case rec.has("status"):
			m.Fault = ptr(isDeviceError(rec.str("status")))
		}
		out = append(out, m)
	}
	return out
}
