package scoring

import "github.com/abdidvp/hwaudit/internal/domain"

const (
	processorTempLimitC    = 75.0
	processorTempPerDegree = 2.0
	processorTempMax       = 40.0
	processorSaturatedPct  = 98.0
	processorSaturatedCost = 20.0
)

// ProcessorMetrics describe a CPU or a GPU.
type ProcessorMetrics struct {
	Model        string
	Vendor       string
	TemperatureC *float64
	UsagePct     *float64
	FrequencyMHz *float64
	Cores        *int
	Threads      *int
	MemoryBytes  *uint64
	// DeviceOK is the driver or device-manager status, when reported.
	DeviceOK *bool
}

func (m ProcessorMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	putString(out, "model", m.Model)
	putString(out, "vendor", m.Vendor)
	put(out, "temperature_c", m.TemperatureC)
	put(out, "usage_pct", m.UsagePct)
	put(out, "frequency_mhz", m.FrequencyMHz)
	put(out, "cores", m.Cores)
	put(out, "threads", m.Threads)
	put(out, "memory_bytes", m.MemoryBytes)
	put(out, "device_ok", m.DeviceOK)
	return out
}

// ScoreCPU deducts for temperature above 75°C and sustained saturation.
func ScoreCPU(m ProcessorMetrics) Assessment {
	var l ledger
	l.optional(m.Model != "")
	l.optional(m.Cores != nil)
	l.optional(m.FrequencyMHz != nil)
	scoreThermals(&l, m, true)
	return l.assess()
}

// ScoreGPU applies the CPU thermal rules and fails a device reporting an
// error status. Load is informational only: GPUs idle near zero.
func ScoreGPU(m ProcessorMetrics) Assessment {
	var l ledger
	l.optional(m.Model != "")
	l.optional(m.MemoryBytes != nil)
	if l.optional(m.DeviceOK != nil) && !*m.DeviceOK {
		l.fail("device reports an error state")
	}
	scoreThermals(&l, m, false)
	return l.assess()
}

func scoreThermals(l *ledger, m ProcessorMetrics, expectUsage bool) {
	if l.expect("temperature", m.TemperatureC != nil, processorTempMax) {
		t := *m.TemperatureC
		l.deduct(linearPenalty(t-processorTempLimitC, processorTempPerDegree, processorTempMax),
			"temperature %.0f°C above %.0f°C", t, processorTempLimitC)
	}
	present := m.UsagePct != nil
	if expectUsage {
		present = l.expect("usage", present, processorSaturatedCost)
	} else {
		present = l.optional(present)
	}
	if present && *m.UsagePct >= processorSaturatedPct {
		l.deduct(processorSaturatedCost, "usage saturated at %.0f%%", *m.UsagePct)
	}
}
