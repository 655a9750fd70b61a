package probe

import (
	"context"
	"regexp"
	"sort"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

var lsusbRe = regexp.MustCompile(`^Bus \d+ Device \d+: ID ([0-9a-fA-F]{4}:[0-9a-fA-F]{4})\s*(.*)$`)

// peripheral builds the pass/fail probe of a peripheral family. The
// family yields one result covering all of its devices, or none when no
// device is present.
func peripheral(id string) probeFunc {
	return func(ctx context.Context, s *session) []domain.ComponentResult {
		text, ok := s.run(ctx, id, nil)
		if !ok {
			return nil
		}
		m := parseDevices(text)
		if len(m.Devices) == 0 {
			return nil
		}
		a := scoring.ScorePeripheral(m)
		return []domain.ComponentResult{a.Result(s.kind, "", m.Metrics(), s.reg.settings.NeutralScore)}
	}
}

// parseDevices reads name=/status= records or lsusb lines. Duplicate
// names are collapsed.
func parseDevices(text string) scoring.PeripheralMetrics {
	var m scoring.PeripheralMetrics
	seen := make(map[string]bool)
	add := func(name string, failed bool) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		m.Devices = append(m.Devices, name)
		if failed {
			m.Failed = append(m.Failed, name)
		}
	}

	for _, line := range nonEmptyLines(text) {
		if match := lsusbRe.FindStringSubmatch(line); match != nil {
			name := match[2]
			if name == "" {
				name = match[1]
			}
			add(name, false)
		}
	}
	if len(m.Devices) > 0 {
		sort.Strings(m.Devices)
		return m
	}

	for _, rec := range parseRecords(text) {
		status := rec.str("status")
		if status != "" {
			m.StatusReported = true
		}
		add(rec.str("name", "friendly_name"), status != "" && isDeviceError(status))
	}
	sort.Strings(m.Devices)
	sort.Strings(m.Failed)
	return m
}
