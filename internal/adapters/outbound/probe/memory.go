package probe

import (
	"context"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

var vmStatPageSizeRe = regexp.MustCompile(`page size of (\d+) bytes`)

func (r *Registry) probeRAM(ctx context.Context, s *session) []domain.ComponentResult {
	text, ok := s.run(ctx, cmdRAMInfo, nil)
	if !ok || isBlank(text) {
		return nil
	}
	m := parseMemory(text)
	if eccText, ok := s.run(ctx, cmdRAMECC, nil); ok {
		m.CorrectedErrors, m.UncorrectableErrors = parseECC(eccText)
	}

	label := ""
	if m.TotalBytes != nil {
		label = humanize.IBytes(*m.TotalBytes)
	}
	a := scoring.ScoreMemory(m)
	return []domain.ComponentResult{a.Result(domain.ComponentRAM, label, m.Metrics(), r.settings.NeutralScore)}
}

// parseMemory understands /proc/meminfo, sysctl hw.memsize with vm_stat,
// and pre-computed byte counts.
func parseMemory(text string) scoring.MemoryMetrics {
	rec := mergeRecords(parseRecords(text))
	var m scoring.MemoryMetrics

	switch {
	case rec.has("mem_total"):
		m.TotalBytes = parseKiB(rec["mem_total"])
		m.AvailableBytes = parseKiB(rec.str("mem_available", "mem_free"))
		m.SwapTotalBytes = parseKiB(rec["swap_total"])
		if total, free := parseKiB(rec["swap_total"]), parseKiB(rec["swap_free"]); total != nil && free != nil && *total >= *free {
			m.SwapUsedBytes = ptr(*total - *free)
		}
	case rec.has("hw_memsize"):
		m.TotalBytes = rec.uint("hw_memsize")
		m.AvailableBytes = vmStatAvailable(text, rec)
	default:
		m.TotalBytes = rec.uint("total_bytes")
		m.AvailableBytes = rec.uint("available_bytes")
	}
	m.Modules = rec.int("modules")
	if speed := rec.int("speed_mts"); speed != nil && *speed > 0 {
		m.SpeedMTs = speed
	}
	if m.Modules != nil && *m.Modules == 0 {
		m.Modules = nil
	}
	return m
}

// vmStatAvailable counts free, inactive and speculative pages.
func vmStatAvailable(text string, rec record) *uint64 {
	match := vmStatPageSizeRe.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	pageSize, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return nil
	}
	var pages uint64
	found := false
	for _, k := range []string{"pages_free", "pages_inactive", "pages_speculative"} {
		if v := rec.uint(k); v != nil {
			pages += *v
			found = true
		}
	}
	if !found {
		return nil
	}
	return ptr(pages * pageSize)
}

// parseECC sums EDAC counters across memory controllers. No records means
// the platform exposes no counters.
func parseECC(text string) (corrected, uncorrectable *int) {
	records := parseRecords(text)
	if len(records) == 0 {
		return nil, nil
	}
	var ce, ue int
	for _, rec := range records {
		if v := rec.int("corrected"); v != nil {
			ce += *v
		}
		if v := rec.int("uncorrectable"); v != nil {
			ue += *v
		}
	}
	return &ce, &ue
}

func isBlank(text string) bool {
	return len(nonEmptyLines(text)) == 0
}
