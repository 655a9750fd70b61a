package probe

import (
	"context"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// Identifier implements domain.MachineIdentifier through the
// machine.identity command. Missing fields stay empty.
type Identifier struct {
	reg *Registry
}

func NewIdentifier(reg *Registry) *Identifier {
	return &Identifier{reg: reg}
}

func (id *Identifier) Identify(ctx context.Context, platform domain.Platform) domain.MachineInfo {
	s := &session{reg: id.reg, platform: platform}
	text, ok := s.run(ctx, cmdMachineIdentity, nil)
	if !ok {
		return domain.MachineInfo{}
	}
	return parseIdentity(text)
}

func parseIdentity(text string) domain.MachineInfo {
	rec := mergeRecords(parseRecords(text))
	info := domain.MachineInfo{
		Hostname:     rec.str("hostname"),
		Manufacturer: cleanDMI(rec.str("manufacturer")),
		Model:        cleanDMI(rec.str("model")),
		SerialNumber: cleanDMI(rec.str("serial_number")),
		BIOSVersion:  rec.str("bios_version"),
		OSName:       rec.str("os_name"),
		OSVersion:    rec.str("os_version"),
		Kernel:       rec.str("kernel"),
		Architecture: rec.str("architecture"),
	}
	if up := rec.float("uptime"); up != nil && *up > 0 {
		info.Uptime = int64(*up)
	}
	return info
}

// cleanDMI drops the placeholder strings firmware vendors leave in
// unset DMI fields.
func cleanDMI(v string) string {
	switch v {
	case "To Be Filled By O.E.M.", "To be filled by O.E.M.", "Default string", "System Product Name",
		"System manufacturer", "Not Specified", "None", "0", "0123456789":
		return ""
	}
	return v
}
