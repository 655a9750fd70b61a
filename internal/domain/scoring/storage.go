package scoring

import "github.com/abdidvp/hwaudit/internal/domain"

const (
	storageBadSectorLimit  = 60.0
	storageHealthFloor     = 90.0 // SMART health below this is penalized
	storageHealthPerPct    = 0.4
	storageHealthLimit     = 40.0
	storageEndurancePerPct = 0.3
	storageEnduranceLimit  = 30.0
	storageSmartFailed     = 30.0
	storageTempLimitC      = 60.0
	storageTempPerDegree   = 0.5
	storageTempMax         = 10.0
)

// StorageMetrics are the measured attributes of one drive. Nil means the
// attribute could not be measured; zero is a real measurement.
type StorageMetrics struct {
	Model         string
	Device        string
	Protocol      string // "NVMe", "ATA", "SCSI"...
	Serial        string
	CapacityBytes *uint64
	Rotational    *bool
	SmartPassed   *bool
	// BadSectors sums reallocated, pending and offline-uncorrectable
	// sectors (ATA) or media errors (NVMe).
	BadSectors *int
	// SmartHealthPct is the drive's remaining-health indicator: NVMe
	// available spare or ATA life-left attributes.
	SmartHealthPct *float64
	// EnduranceUsedPct is the share of rated write endurance consumed
	// (NVMe percentage used, Windows reliability-counter wear).
	EnduranceUsedPct *float64
	// TBWWritten is the total terabytes written over the drive's life.
	TBWWritten   *float64
	TemperatureC *float64
	PowerOnHours *int
}

// EffectiveEnduranceUsed prefers the drive's own wear indicator and falls
// back to written/rated TBW when a rating is configured.
func (m StorageMetrics) EffectiveEnduranceUsed(ratedTBW float64) *float64 {
	if m.EnduranceUsedPct != nil {
		return m.EnduranceUsedPct
	}
	if m.TBWWritten != nil && ratedTBW > 0 {
		used := *m.TBWWritten / ratedTBW * 100
		return &used
	}
	return nil
}

func (m StorageMetrics) Metrics(ratedTBW float64) domain.Metrics {
	out := domain.Metrics{}
	putString(out, "model", m.Model)
	putString(out, "device", m.Device)
	putString(out, "protocol", m.Protocol)
	putString(out, "serial", m.Serial)
	put(out, "capacity_bytes", m.CapacityBytes)
	put(out, "rotational", m.Rotational)
	put(out, "smart_passed", m.SmartPassed)
	put(out, "bad_sectors", m.BadSectors)
	put(out, "smart_health_pct", m.SmartHealthPct)
	put(out, "endurance_used_pct", m.EffectiveEnduranceUsed(ratedTBW))
	put(out, "tbw_written", m.TBWWritten)
	put(out, "temperature_c", m.TemperatureC)
	put(out, "power_on_hours", m.PowerOnHours)
	return out
}

// ScoreStorage deducts for bad sectors (steep), low SMART health, consumed
// endurance, a failed SMART self-assessment and overheating.
func ScoreStorage(m StorageMetrics, ratedTBW float64) Assessment {
	var l ledger

	if l.expect("bad_sectors", m.BadSectors != nil, storageBadSectorLimit) {
		l.deduct(badSectorPenalty(*m.BadSectors), "%d bad sectors", *m.BadSectors)
	}
	if l.expect("smart_status", m.SmartPassed != nil, storageSmartFailed) && !*m.SmartPassed {
		l.deduct(storageSmartFailed, "SMART overall-health self-assessment failed")
	}
	if l.expect("temperature", m.TemperatureC != nil, storageTempMax) {
		t := *m.TemperatureC
		l.deduct(linearPenalty(t-storageTempLimitC, storageTempPerDegree, storageTempMax),
			"drive temperature %.0f°C above %.0f°C", t, storageTempLimitC)
	}
	if l.optional(m.SmartHealthPct != nil) {
		h := *m.SmartHealthPct
		l.deduct(linearPenalty(storageHealthFloor-h, storageHealthPerPct, storageHealthLimit),
			"SMART health %.0f%% below %.0f%%", h, storageHealthFloor)
	}
	if used := m.EffectiveEnduranceUsed(ratedTBW); l.optional(used != nil) {
		l.deduct(linearPenalty(*used, storageEndurancePerPct, storageEnduranceLimit),
			"%.0f%% of rated write endurance used", *used)
	}
	l.optional(m.PowerOnHours != nil)

	return l.assess()
}
