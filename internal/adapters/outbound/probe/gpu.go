package probe

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

// probeGPU lists every graphics adapter, integrated ones included, and
// enriches NVIDIA adapters with nvidia-smi telemetry.
func (r *Registry) probeGPU(ctx context.Context, s *session) []domain.ComponentResult {
	var gpus []scoring.ProcessorMetrics
	if text, ok := s.run(ctx, cmdGPUInfo, nil); ok {
		parsed, err := parseGPUs(text)
		if err != nil {
			s.parseFailure(cmdGPUInfo)
		}
		gpus = parsed
	}
	if len(gpus) > 0 {
		if text, ok := s.run(ctx, cmdGPUTemperature, nil); ok {
			// sysfs sensors are not attributable to a specific adapter
			if t := gpuTemperature(parseSensors(text)); t != nil && len(gpus) == 1 {
				gpus[0].TemperatureC = t
			}
		}
	}
	if len(gpus) == 0 || hasVendor(gpus, "NVIDIA") {
		if text, ok := s.run(ctx, cmdGPUNvidia, nil); ok {
			gpus = mergeNvidia(gpus, parseNvidiaSMI(text))
		}
	}

	var results []domain.ComponentResult
	for _, m := range gpus {
		a := scoring.ScoreGPU(m)
		results = append(results, a.Result(domain.ComponentGPU, m.Model, m.Metrics(), r.settings.NeutralScore))
	}
	return results
}

func parseGPUs(text string) ([]scoring.ProcessorMetrics, error) {
	if isJSON(text) {
		return parseProfilerGPUs(text)
	}
	var out []scoring.ProcessorMetrics
	for _, rec := range parseRecords(text) {
		name := rec.str("name")
		if name == "" {
			continue
		}
		m := scoring.ProcessorMetrics{Model: name, Vendor: gpuVendor(name)}
		if ram := rec.uint("adapter_ram"); ram != nil && *ram > 0 {
			m.MemoryBytes = ram
		}
		if status := rec.str("status"); status != "" {
			m.DeviceOK = ptr(strings.EqualFold(status, "OK"))
		}
		out = append(out, m)
	}
	return out, nil
}

func parseProfilerGPUs(text string) ([]scoring.ProcessorMetrics, error) {
	var rep profilerDisplays
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return nil, err
	}
	var out []scoring.ProcessorMetrics
	for _, item := range rep.Items {
		name := item.Model
		if name == "" {
			name = item.Name
		}
		m := scoring.ProcessorMetrics{Model: name, Vendor: gpuVendor(name + " " + item.Vendor)}
		if vram := item.VRAM; vram != "" {
			m.MemoryBytes = parseSize(vram)
		} else if item.VRAMS != "" {
			m.MemoryBytes = parseSize(item.VRAMS)
		}
		m.Cores = parseInt(item.Cores)
		out = append(out, m)
	}
	return out, nil
}

func hasVendor(gpus []scoring.ProcessorMetrics, vendor string) bool {
	for _, g := range gpus {
		if g.Vendor == vendor {
			return true
		}
	}
	return false
}

func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	return ptr(int(*f))
}

func gpuVendor(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "nvidia"):
		return "NVIDIA"
	case strings.Contains(n, "amd"), strings.Contains(n, "ati "), strings.Contains(n, "radeon"):
		return "AMD"
	case strings.Contains(n, "intel"):
		return "Intel"
	case strings.Contains(n, "apple"):
		return "Apple"
	}
	return ""
}

// parseNvidiaSMI reads "name, temperature, utilization, memory MiB" CSV rows.
func parseNvidiaSMI(text string) []scoring.ProcessorMetrics {
	var out []scoring.ProcessorMetrics
	for _, line := range nonEmptyLines(text) {
		fields := strings.Split(line, ",")
		if len(fields) < 4 {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		m := scoring.ProcessorMetrics{Model: fields[0], Vendor: "NVIDIA", DeviceOK: ptr(true)}
		m.TemperatureC = positive(parseFloat(fields[1]))
		m.UsagePct = clampPct(parseFloat(fields[2]))
		if mib := parseFloat(fields[3]); mib != nil && *mib > 0 {
			m.MemoryBytes = ptr(uint64(*mib) << 20)
		}
		out = append(out, m)
	}
	return out
}

// mergeNvidia replaces NVIDIA entries from the generic inventory with
// nvidia-smi rows, in order, and appends any extra rows.
func mergeNvidia(gpus, nvidia []scoring.ProcessorMetrics) []scoring.ProcessorMetrics {
	if len(nvidia) == 0 {
		return gpus
	}
	out := make([]scoring.ProcessorMetrics, 0, len(gpus)+len(nvidia))
	next := 0
	for _, g := range gpus {
		if g.Vendor == "NVIDIA" && next < len(nvidia) {
			n := nvidia[next]
			next++
			if n.MemoryBytes == nil {
				n.MemoryBytes = g.MemoryBytes
			}
			if g.DeviceOK != nil {
				n.DeviceOK = g.DeviceOK
			}
			out = append(out, n)
			continue
		}
		out = append(out, g)
	}
	return append(out, nvidia[next:]...)
}
