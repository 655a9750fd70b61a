package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

// probeStorage prefers smartctl and falls back to the platform's disk
// inventory when smartctl is missing or finds no drive.
func (r *Registry) probeStorage(ctx context.Context, s *session) []domain.ComponentResult {
	var results []domain.ComponentResult
	if text, ok := s.run(ctx, cmdStorageScan, nil); ok {
		devices, err := parseSmartScan(text)
		if err != nil {
			s.parseFailure(cmdStorageScan)
		}
		for _, dev := range devices {
			results = append(results, r.probeSmartDevice(ctx, s, dev))
		}
	}
	if len(results) > 0 {
		return results
	}

	text, ok := s.run(ctx, cmdStorageList, nil)
	if !ok {
		return nil
	}
	for _, m := range parseDiskList(text) {
		a := scoring.ScoreStorage(m, r.settings.RatedTBW)
		res := a.Result(domain.ComponentStorage, driveLabel(m), m.Metrics(r.settings.RatedTBW), r.settings.NeutralScore)
		if res.Status == domain.StatusFailed {
			res.Notes = "no health metric available (SMART unreadable)"
		}
		results = append(results, res)
	}
	return results
}

func (r *Registry) probeSmartDevice(ctx context.Context, s *session, dev smartDevice) domain.ComponentResult {
	label := path.Base(dev.Name)
	vars := map[string]string{"device": dev.Name, "type": dev.Type}
	if dev.Type == "" {
		vars["type"] = "auto"
	}
	text, ok := s.run(ctx, cmdStorageSmart, vars)
	if !ok {
		return domain.FailedResult(domain.ComponentStorage, label,
			"smartctl could not read "+dev.Name, r.settings.NeutralScore)
	}
	m, err := parseSmart(text)
	if err != nil {
		s.parseFailure(fmt.Sprintf("%s@%s", cmdStorageSmart, dev.Name))
		return domain.FailedResult(domain.ComponentStorage, label,
			"unreadable smartctl output for "+dev.Name, r.settings.NeutralScore)
	}
	if m.Device == "" {
		m.Device = dev.Name
	}
	a := scoring.ScoreStorage(m, r.settings.RatedTBW)
	return a.Result(domain.ComponentStorage, driveLabel(m), m.Metrics(r.settings.RatedTBW), r.settings.NeutralScore)
}

func driveLabel(m scoring.StorageMetrics) string {
	name := m.Model
	if name == "" {
		name = path.Base(m.Device)
	}
	if m.CapacityBytes != nil {
		name += " (" + humanize.Bytes(*m.CapacityBytes) + ")"
	}
	return strings.TrimSpace(name)
}

type smartDevice struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func parseSmartScan(text string) ([]smartDevice, error) {
	var scan struct {
		Devices []smartDevice `json:"devices"`
	}
	if err := json.Unmarshal([]byte(text), &scan); err != nil {
		return nil, err
	}
	var out []smartDevice
	seen := make(map[string]bool)
	for _, d := range scan.Devices {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	return out, nil
}

// smartReport is the subset of `smartctl -a --json` that is scored.
type smartReport struct {
	Device struct {
		Name     string `json:"name"`
		Protocol string `json:"protocol"`
	} `json:"device"`
	ModelName    string `json:"model_name"`
	SerialNumber string `json:"serial_number"`
	UserCapacity struct {
		Bytes uint64 `json:"bytes"`
	} `json:"user_capacity"`
	RotationRate *int `json:"rotation_rate"`
	SmartStatus  *struct {
		Passed bool `json:"passed"`
	} `json:"smart_status"`
	Temperature *struct {
		Current int `json:"current"`
	} `json:"temperature"`
	PowerOnTime *struct {
		Hours int `json:"hours"`
	} `json:"power_on_time"`
	ATASmartAttributes *struct {
		Table []struct {
			ID    int `json:"id"`
			Value int `json:"value"`
			Raw   struct {
				Value int64 `json:"value"`
			} `json:"raw"`
		} `json:"table"`
	} `json:"ata_smart_attributes"`
	NVMeHealth *struct {
		AvailableSpare   *int     `json:"available_spare"`
		PercentageUsed   *int     `json:"percentage_used"`
		DataUnitsWritten *float64 `json:"data_units_written"`
		MediaErrors      *int     `json:"media_errors"`
		Temperature      *int     `json:"temperature"`
		PowerOnHours     *int     `json:"power_on_hours"`
	} `json:"nvme_smart_health_information_log"`
}

const (
	ataReallocatedSectors   = 5
	ataPowerOnHours         = 9
	ataWearLeveling         = 177
	ataTemperature          = 194
	ataPendingSectors       = 197
	ataOfflineUncorrectable = 198
	ataPercentLifeRemain    = 202
	ataSSDLifeLeft          = 231
	ataTotalLBAsWritten     = 241

	nvmeDataUnitBytes = 512000
	bytesPerTB        = 1e12
)

// parseSmart maps smartctl JSON onto storage metrics. A report without a
// model, status or attributes is an error.
func parseSmart(text string) (scoring.StorageMetrics, error) {
	var rep smartReport
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return scoring.StorageMetrics{}, err
	}
	if rep.ModelName == "" && rep.SmartStatus == nil && rep.ATASmartAttributes == nil && rep.NVMeHealth == nil {
		return scoring.StorageMetrics{}, fmt.Errorf("no SMART data")
	}

	m := scoring.StorageMetrics{
		Model:    rep.ModelName,
		Device:   rep.Device.Name,
		Protocol: rep.Device.Protocol,
		Serial:   rep.SerialNumber,
	}
	if rep.UserCapacity.Bytes > 0 {
		m.CapacityBytes = ptr(rep.UserCapacity.Bytes)
	}
	if rep.RotationRate != nil {
		m.Rotational = ptr(*rep.RotationRate > 0)
	}
	if rep.SmartStatus != nil {
		m.SmartPassed = ptr(rep.SmartStatus.Passed)
	}
	if rep.Temperature != nil && rep.Temperature.Current > 0 {
		m.TemperatureC = ptr(float64(rep.Temperature.Current))
	}
	if rep.PowerOnTime != nil {
		m.PowerOnHours = ptr(rep.PowerOnTime.Hours)
	}

	if nv := rep.NVMeHealth; nv != nil {
		if nv.MediaErrors != nil {
			m.BadSectors = ptr(*nv.MediaErrors)
		}
		if nv.AvailableSpare != nil {
			m.SmartHealthPct = ptr(float64(*nv.AvailableSpare))
		}
		if nv.PercentageUsed != nil {
			m.EnduranceUsedPct = ptr(float64(*nv.PercentageUsed))
		}
		if nv.DataUnitsWritten != nil {
			m.TBWWritten = ptr(*nv.DataUnitsWritten * nvmeDataUnitBytes / bytesPerTB)
		}
		if m.TemperatureC == nil && nv.Temperature != nil && *nv.Temperature > 0 {
			m.TemperatureC = ptr(float64(*nv.Temperature))
		}
		if m.PowerOnHours == nil && nv.PowerOnHours != nil {
			m.PowerOnHours = ptr(*nv.PowerOnHours)
		}
	}

	if ata := rep.ATASmartAttributes; ata != nil {
		bad, sawBad := 0, false
		for _, attr := range ata.Table {
			switch attr.ID {
			case ataReallocatedSectors, ataPendingSectors, ataOfflineUncorrectable:
				bad += int(attr.Raw.Value)
				sawBad = true
			case ataWearLeveling, ataPercentLifeRemain, ataSSDLifeLeft:
				if attr.Value > 0 && attr.Value <= 100 && m.SmartHealthPct == nil {
					m.SmartHealthPct = ptr(float64(attr.Value))
				}
			case ataTemperature:
				// the raw value packs min/max in the upper bytes
				if t := attr.Raw.Value & 0xff; m.TemperatureC == nil && t > 0 {
					m.TemperatureC = ptr(float64(t))
				}
			case ataPowerOnHours:
				if m.PowerOnHours == nil {
					m.PowerOnHours = ptr(int(attr.Raw.Value))
				}
			case ataTotalLBAsWritten:
				m.TBWWritten = ptr(float64(attr.Raw.Value) * 512 / bytesPerTB)
			}
		}
		if sawBad {
			m.BadSectors = ptr(bad)
		}
	}
	return m, nil
}

// parseDiskList reads the platform disk inventory: lsblk JSON on Linux,
// diskutil or Get-PhysicalDisk records elsewhere.
func parseDiskList(text string) []scoring.StorageMetrics {
	if strings.HasPrefix(strings.TrimSpace(text), "{") {
		return parseLsblk(text)
	}
	var out []scoring.StorageMetrics
	for _, rec := range parseRecords(text) {
		switch {
		case rec.has("device_identifier"):
			if m, ok := diskutilDrive(rec); ok {
				out = append(out, m)
			}
		case rec.has("friendly_name"):
			out = append(out, physicalDisk(rec))
		}
	}
	return out
}

// lsblk prints numbers as strings or JSON numbers depending on version.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(b), `"`))
	return nil
}

func parseLsblk(text string) []scoring.StorageMetrics {
	var out struct {
		BlockDevices []struct {
			Name   flexString `json:"name"`
			Model  flexString `json:"model"`
			Serial flexString `json:"serial"`
			Size   flexString `json:"size"`
			Rota   flexString `json:"rota"`
			Type   flexString `json:"type"`
			Tran   flexString `json:"tran"`
		} `json:"blockdevices"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil
	}
	var drives []scoring.StorageMetrics
	for _, d := range out.BlockDevices {
		name := string(d.Name)
		if d.Type != "disk" || strings.HasPrefix(name, "zram") || strings.HasPrefix(name, "loop") {
			continue
		}
		m := scoring.StorageMetrics{
			Model:    strings.TrimSpace(string(d.Model)),
			Device:   "/dev/" + name,
			Protocol: strings.ToUpper(string(d.Tran)),
			Serial:   strings.TrimSpace(string(d.Serial)),
		}
		if v, err := strconv.ParseUint(string(d.Size), 10, 64); err == nil && v > 0 {
			m.CapacityBytes = &v
		}
		m.Rotational = parseBool(string(d.Rota))
		drives = append(drives, m)
	}
	return drives
}

// diskutilDrive keeps whole physical disks from `diskutil info -all`.
func diskutilDrive(rec record) (scoring.StorageMetrics, bool) {
	if whole := rec.bool("whole"); whole != nil && !*whole {
		return scoring.StorageMetrics{}, false
	}
	if strings.Contains(strings.ToLower(rec.str("virtual")), "yes") ||
		strings.Contains(strings.ToLower(rec.str("device_location")), "virtual") {
		return scoring.StorageMetrics{}, false
	}
	m := scoring.StorageMetrics{
		Model:         rec.str("device_media_name", "media_name"),
		Device:        "/dev/" + rec.str("device_identifier"),
		Protocol:      rec.str("protocol"),
		CapacityBytes: parseSize(rec.str("disk_size", "total_size")),
	}
	if solid := rec.bool("solid_state"); solid != nil {
		m.Rotational = ptr(!*solid)
	}
	switch strings.ToLower(rec.str("smart_status")) {
	case "verified":
		m.SmartPassed = ptr(true)
	case "failing":
		m.SmartPassed = ptr(false)
	}
	return m, true
}

// physicalDisk reads one Get-PhysicalDisk record with its reliability
// counters.
func physicalDisk(rec record) scoring.StorageMetrics {
	m := scoring.StorageMetrics{
		Model:            rec.str("friendly_name"),
		Serial:           rec.str("serial_number"),
		Protocol:         rec.str("bus_type"),
		CapacityBytes:    rec.uint("size"),
		TemperatureC:     positive(rec.float("temperature")),
		PowerOnHours:     rec.int("power_on_hours"),
		BadSectors:       rec.int("read_errors_uncorrected"),
		EnduranceUsedPct: rec.float("wear"),
	}
	switch strings.ToLower(rec.str("media_type")) {
	case "hdd":
		m.Rotational = ptr(true)
	case "ssd", "scm":
		m.Rotational = ptr(false)
	}
	switch strings.ToLower(rec.str("health_status")) {
	case "healthy", "warning":
		m.SmartPassed = ptr(true)
	case "unhealthy":
		m.SmartPassed = ptr(false)
	}
	return m
}

func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}
