package tui_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abdidvp/hwaudit/internal/adapters/outbound/tui"
	"github.com/abdidvp/hwaudit/internal/domain"
)

func sampleAudit() *domain.AuditResult {
	return &domain.AuditResult{
		Platform: domain.PlatformLinux,
		Machine:  domain.MachineInfo{Hostname: "bench-01", Manufacturer: "LENOVO", Model: "20L8S02D00"},
		Components: []domain.ComponentResult{
			{Component: domain.ComponentCPU, Label: "Intel(R) Core(TM) i7-8550U", Score: 100, Status: domain.StatusOK},
			{Component: domain.ComponentStorage, Label: "ST1000LM035", Score: 47, Status: domain.StatusOK,
				Findings: []string{"5 bad sectors", "SMART health 60% below 90%"}},
			{Component: domain.ComponentGPU, Label: "Intel UHD 620", Score: 100, Status: domain.StatusDegraded,
				Notes: "not measured: temperature"},
			{Component: domain.ComponentBattery, Score: 50, Status: domain.StatusFailed,
				Notes: "battery.status: command_timeout"},
		},
		ScoreGlobal: 62,
		Verdict:     domain.VerdictFair,
		Duration:    1834,
	}
}

func TestRenderAudit_ContainsGlobalScore(t *testing.T) {
	output := tui.RenderAudit(sampleAudit())
	assert.Contains(t, output, "62 / 100")
	assert.Contains(t, output, "correct")
}

func TestRenderAudit_ContainsMachine(t *testing.T) {
	output := tui.RenderAudit(sampleAudit())
	assert.Contains(t, output, "LENOVO 20L8S02D00")
	assert.Contains(t, output, "bench-01")
}

func TestRenderAudit_ContainsComponents(t *testing.T) {
	output := tui.RenderAudit(sampleAudit())
	assert.Contains(t, output, "CPU")
	assert.Contains(t, output, "Intel(R) Core(TM) i7-8550U")
	assert.Contains(t, output, "STORAGE")
	assert.Contains(t, output, "ST1000LM035")
	assert.Contains(t, output, "5 bad sectors")
}

func TestRenderAudit_LongLabelsKeptWhole(t *testing.T) {
	result := sampleAudit()
	result.Components = append(result.Components,
		domain.ComponentResult{Component: domain.ComponentStorage, Label: "SAMSUNG MZVLB512HAJQ-000L7 (512 GB)", Score: 99, Status: domain.StatusOK},
		domain.ComponentResult{Component: domain.ComponentStorage, Label: "SAMSUNG MZVLB512HAJQ-000L7 (1.0 TB)", Score: 50, Status: domain.StatusFailed},
	)

	output := tui.RenderAudit(result)

	assert.Contains(t, output, "SAMSUNG MZVLB512HAJQ-000L7 (512 GB)")
	assert.Contains(t, output, "SAMSUNG MZVLB512HAJQ-000L7 (1.0 TB)")
	assert.NotContains(t, output, "…")
}

func TestRenderAudit_ShowsStatusNotes(t *testing.T) {
	output := tui.RenderAudit(sampleAudit())
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "not measured: temperature")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "battery.status: command_timeout")
	assert.Contains(t, output, "1 degraded")
	assert.Contains(t, output, "1 failed")
	assert.Contains(t, output, "1.834s")
}

func TestRenderAudit_Untested(t *testing.T) {
	output := tui.RenderAudit(&domain.AuditResult{Platform: domain.PlatformUnknown, Verdict: domain.VerdictUntested})
	assert.Contains(t, output, "non_testé")
	assert.Contains(t, output, "No component could be audited")
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "62/100 correct", tui.Summary(sampleAudit()))
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No audit history found.")
}

func TestRenderHistory_ShowsTrend(t *testing.T) {
	entries := []domain.AuditEntry{
		{Timestamp: "2026-02-20T10:00:00Z", Hostname: "bench-01", ScoreGlobal: 84, Verdict: domain.VerdictGood},
		{Timestamp: "2026-02-25T10:00:00Z", Hostname: "bench-01", ScoreGlobal: 62, Verdict: domain.VerdictFair, Failed: 1},
		{Timestamp: "2026-02-26T10:00:00Z", ScoreGlobal: 70, Verdict: domain.VerdictGood},
	}

	output := tui.RenderHistory(entries)

	assert.Contains(t, output, "Audit History")
	assert.Contains(t, output, "2026-02-25")
	assert.Contains(t, output, "↓22")
	assert.Contains(t, output, "↑8")
	assert.Contains(t, output, "1 failed")
	assert.Equal(t, 3, strings.Count(output, "/100"))
}

type namedProbe domain.ComponentKind

func (p namedProbe) Name() string               { return domain.ComponentKind(p).Key() }
func (p namedProbe) Kind() domain.ComponentKind { return domain.ComponentKind(p) }
func (p namedProbe) Probe(context.Context) []domain.ComponentResult {
	return nil
}

func TestRenderProbes_SortedByWeight(t *testing.T) {
	probes := []domain.Probe{namedProbe(domain.ComponentCPU), namedProbe(domain.ComponentStorage), namedProbe(domain.ComponentAudio)}

	output := tui.RenderProbes(domain.PlatformLinux, probes, domain.DefaultWeights())

	assert.Contains(t, output, "(linux, 3)")
	assert.Contains(t, output, "35.0%")
	assert.Less(t, strings.Index(output, "storage"), strings.Index(output, "cpu"))
	assert.Less(t, strings.Index(output, "cpu"), strings.Index(output, "audio"))
}

func TestRenderProbes_None(t *testing.T) {
	output := tui.RenderProbes(domain.PlatformUnknown, nil, domain.DefaultWeights())
	assert.Contains(t, output, "No probe applies")
}
