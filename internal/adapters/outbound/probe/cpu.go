package probe

import (
	"context"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

func (r *Registry) probeCPU(ctx context.Context, s *session) []domain.ComponentResult {
	var m scoring.ProcessorMetrics
	gathered := false

	if text, ok := s.run(ctx, cmdCPUInfo, nil); ok && strings.TrimSpace(text) != "" {
		gathered = true
		applyCPUInfo(&m, text)
	}
	if text, ok := s.run(ctx, cmdCPUTemperature, nil); ok {
		gathered = true
		m.TemperatureC = cpuTemperature(parseSensors(text))
	}
	if text, ok := s.run(ctx, cmdCPULoad, nil); ok {
		gathered = true
		m.UsagePct = parseUsage(text)
	}
	if !gathered {
		return nil
	}

	a := scoring.ScoreCPU(m)
	return []domain.ComponentResult{a.Result(domain.ComponentCPU, m.Model, m.Metrics(), r.settings.NeutralScore)}
}

func applyCPUInfo(m *scoring.ProcessorMetrics, text string) {
	records := parseRecords(text)
	if len(records) == 0 {
		return
	}
	first := records[0]
	m.Model = first.str("model_name", "name", "machdep_cpu_brand_string", "hardware")
	m.Vendor = first.str("vendor_id", "manufacturer")
	m.Cores = first.int("cpu_cores", "number_of_cores", "hw_physicalcpu")
	m.Threads = first.int("number_of_logical_processors", "hw_logicalcpu")
	m.FrequencyMHz = first.float("cpu_mhz", "max_clock_speed")

	// /proc/cpuinfo lists one record per logical processor
	if m.Threads == nil && first.has("processor") {
		n := 0
		for _, rec := range records {
			if rec.has("processor") && (rec.has("model_name") || rec.has("vendor_id")) {
				n++
			}
		}
		if n > 0 {
			m.Threads = &n
		}
	}
	if m.Threads == nil {
		m.Threads = first.int("siblings")
	}
}

// parseUsage reads "usage=NN" or a bare number.
func parseUsage(text string) *float64 {
	for _, rec := range parseRecords(text) {
		if v := rec.float("usage"); v != nil {
			return clampPct(v)
		}
	}
	if lines := nonEmptyLines(text); len(lines) == 1 {
		return clampPct(parseFloat(lines[0]))
	}
	return nil
}

func clampPct(v *float64) *float64 {
	if v == nil || *v < 0 || *v > 100 {
		return nil
	}
	return v
}

// sensor is one temperature reading in degrees Celsius.
type sensor struct {
	name    string
	celsius float64
}

// parseSensors reads sensor=/temp= records. Linux reports millidegrees;
// bare single-value output ("61.2°C") is accepted as one sensor.
func parseSensors(text string) []sensor {
	var out []sensor
	for _, rec := range parseRecords(text) {
		v := rec.float("temp", "temperature")
		if v == nil {
			continue
		}
		c := *v
		if c > 200 {
			c /= 1000
		}
		if c <= 0 || c > 150 {
			// disconnected probes report 0 or sentinel values
			continue
		}
		out = append(out, sensor{name: strings.ToLower(rec.str("sensor", "name", "type")), celsius: c})
	}
	if len(out) == 0 {
		if lines := nonEmptyLines(text); len(lines) == 1 {
			if v := parseFloat(lines[0]); v != nil && *v > 0 && *v <= 150 {
				out = append(out, sensor{name: "cpu", celsius: *v})
			}
		}
	}
	return out
}

var cpuSensorNames = []string{"x86_pkg_temp", "coretemp", "k10temp", "zenpower", "cpu", "soc_thermal", "tctl", "package"}

var nonCPUSensorNames = []string{"nvme", "amdgpu", "radeon", "nouveau", "iwlwifi", "drivetemp", "pch_", "bat", "acpi_fan", "sodimm", "spd"}

var gpuSensorNames = []string{"amdgpu", "radeon", "nouveau", "nvidia"}

// cpuTemperature returns the hottest CPU sensor, falling back to generic
// thermal zones when no sensor is clearly a CPU.
func cpuTemperature(sensors []sensor) *float64 {
	if t := hottest(sensors, func(name string) bool { return containsAny(name, cpuSensorNames) }); t != nil {
		return t
	}
	return hottest(sensors, func(name string) bool { return !containsAny(name, nonCPUSensorNames) })
}

func gpuTemperature(sensors []sensor) *float64 {
	return hottest(sensors, func(name string) bool { return containsAny(name, gpuSensorNames) })
}

func hottest(sensors []sensor, match func(string) bool) *float64 {
	var best *float64
	for _, s := range sensors {
		if !match(s.name) {
			continue
		}
		if best == nil || s.celsius > *best {
			best = ptr(s.celsius)
		}
	}
	return best
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
