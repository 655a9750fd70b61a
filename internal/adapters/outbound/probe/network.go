package probe

import (
	"context"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

// probeNetwork scores every physical network adapter.
func (r *Registry) probeNetwork(ctx context.Context, s *session) []domain.ComponentResult {
	text, ok := s.run(ctx, cmdNetworkAdapters, nil)
	if !ok {
		return nil
	}
	adapters := parseAdapters(text)
	if len(adapters) > 0 {
		if status, ok := s.run(ctx, cmdNetworkStatus, nil); ok {
			applyIfconfig(adapters, parseIfconfig(status))
		}
	}

	var results []domain.ComponentResult
	for _, m := range adapters {
		a := scoring.ScoreNetwork(m)
		results = append(results, a.Result(domain.ComponentNetwork, m.Name, m.Metrics(), r.settings.NeutralScore))
	}
	return results
}

// parseAdapters reads sysfs/Get-NetAdapter records or the
// `networksetup -listallhardwareports` listing.
func parseAdapters(text string) []scoring.NetworkMetrics {
	var out []scoring.NetworkMetrics
	for _, rec := range parseRecords(text) {
		if rec.has("hardware_port") {
			port := rec.str("hardware_port")
			dev := rec.str("device")
			if dev == "" || strings.Contains(strings.ToLower(port), "bridge") {
				continue
			}
			out = append(out, scoring.NetworkMetrics{
				Name: dev,
				Type: portType(port),
				MAC:  rec.str("ethernet_address"),
			})
			continue
		}
		name := rec.str("name")
		if name == "" {
			continue
		}
		m := scoring.NetworkMetrics{
			Name:      name,
			Type:      rec.str("type"),
			MAC:       rec.str("mac", "mac_address"),
			LinkUp:    linkState(rec.str("operstate", "status")),
			SpeedMbps: positive(rec.float("speed")),
			RxPackets: rec.uint("rx_packets"),
			TxPackets: rec.uint("tx_packets"),
			RxErrors:  rec.uint("rx_errors"),
			TxErrors:  rec.uint("tx_errors"),
		}
		if status := rec.str("device_status"); status != "" {
			m.DeviceOK = ptr(!isDeviceError(status))
		}
		out = append(out, m)
	}
	return out
}

func portType(port string) string {
	p := strings.ToLower(port)
	switch {
	case strings.Contains(p, "wi-fi"), strings.Contains(p, "airport"):
		return "wifi"
	case strings.Contains(p, "ethernet"), strings.Contains(p, "lan"):
		return "ethernet"
	}
	return ""
}

// linkState maps sysfs operstate and NetAdapter status to a link flag.
// "unknown" and "dormant" carry no information.
func linkState(state string) *bool {
	switch strings.ToLower(state) {
	case "up", "active":
		return ptr(true)
	case "down", "disconnected", "inactive", "disabled", "not present", "lowerlayerdown":
		return ptr(false)
	}
	return nil
}

type ifconfigInfo struct {
	active *bool
}

// parseIfconfig reads the per-interface "status:" lines of BSD ifconfig.
func parseIfconfig(text string) map[string]ifconfigInfo {
	out := make(map[string]ifconfigInfo)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			if i := strings.Index(line, ": flags="); i > 0 {
				current = line[:i]
				out[current] = ifconfigInfo{}
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		if current != "" && strings.HasPrefix(trimmed, "status:") {
			out[current] = ifconfigInfo{active: linkState(strings.TrimSpace(strings.TrimPrefix(trimmed, "status:")))}
		}
	}
	return out
}

func applyIfconfig(adapters []scoring.NetworkMetrics, info map[string]ifconfigInfo) {
	for i := range adapters {
		if in, ok := info[adapters[i].Name]; ok && adapters[i].LinkUp == nil {
			adapters[i].LinkUp = in.active
		}
	}
}

// isDeviceError interprets device-manager status strings.
func isDeviceError(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "error", "degraded", "pred fail", "nonrecover", "lost comm", "no contact":
		return true
	}
	return false
}
