package scoring

import (
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
)

type FanMetrics struct {
	Name  string
	RPM   *int
	Fault *bool
}

func (m FanMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	putString(out, "name", m.Name)
	put(out, "rpm", m.RPM)
	put(out, "fault", m.Fault)
	return out
}

// ScoreFan is pass/fail: 100, or the functional-failure score when the
// fan reports a fault.
func ScoreFan(m FanMetrics) Assessment {
	var l ledger
	if l.expect("fault_state", m.Fault != nil, 0) && *m.Fault {
		l.fail("fan reports a fault")
	}
	l.optional(m.RPM != nil)
	return l.assess()
}

// PeripheralMetrics summarize the devices of one peripheral family.
type PeripheralMetrics struct {
	Devices []string
	// Failed lists devices the OS reports in an error state.
	Failed []string
	// StatusReported is true when the platform reports per-device status.
	StatusReported bool
}

func (m PeripheralMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{"device_count": len(m.Devices)}
	if len(m.Devices) > 0 {
		out["devices"] = m.Devices
	}
	if m.StatusReported {
		out["failed_devices"] = len(m.Failed)
	}
	return out
}

// ScorePeripheral is pass/fail across the family's devices.
func ScorePeripheral(m PeripheralMetrics) Assessment {
	var l ledger
	l.expect("devices", len(m.Devices) > 0, 0)
	if l.optional(m.StatusReported) && len(m.Failed) > 0 {
		l.fail("device error: %s", strings.Join(m.Failed, ", "))
	}
	return l.assess()
}
