package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abdidvp/hwaudit/internal/domain"
)

// ── warm palette ──
var (
	accent    = lipgloss.Color("#D97706") // amber
	fg        = lipgloss.Color("#E8E6E3") // warm light gray
	dim       = lipgloss.Color("#6B7280") // muted gray
	faint     = lipgloss.Color("#3F3F46") // very dim
	success   = lipgloss.Color("#22C55E") // green
	lime      = lipgloss.Color("#A3E635")
	danger    = lipgloss.Color("#EF4444") // red
	warning   = lipgloss.Color("#F59E0B") // amber-yellow
	orange    = lipgloss.Color("#FB923C")
	skipColor = lipgloss.Color("#4B5563") // dark gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	verdictColors = map[domain.Verdict]lipgloss.Color{
		domain.VerdictExcellent: success,
		domain.VerdictGood:      lime,
		domain.VerdictFair:      warning,
		domain.VerdictAttention: orange,
		domain.VerdictCritical:  danger,
		domain.VerdictUntested:  skipColor,
	}

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	skipStyle     = lipgloss.NewStyle().Foreground(skipColor)
	failTagStyle  = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	compNameStyle = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RenderAudit formats a full audit report for the terminal.
func RenderAudit(result *domain.AuditResult) string {
	var b strings.Builder

	// ── Header ──
	color := verdictColor(result.Verdict)
	title := headerStyle.Render("hwaudit")
	subtitle := dimStyle.Render("Hardware Health Audit")
	scoreStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Render(fmt.Sprintf("%d / 100", result.ScoreGlobal))
	verdictStyled := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Render(string(result.Verdict))

	header := title + "\n" + subtitle + "\n\n" + scoreStyled + "  " + verdictStyled
	if machine := machineLine(result.Machine); machine != "" {
		header += "\n\n" + dimStyle.Render(machine)
	}
	b.WriteString(boxStyle.Render(header))
	b.WriteString("\n\n")

	// ── Components ──
	if len(result.Components) == 0 {
		b.WriteString("  " + skipStyle.Render("No component could be audited on this platform.") + "\n")
	}
	for _, c := range result.Components {
		renderComponent(&b, c)
	}

	b.WriteString("\n")
	b.WriteString("  " + separatorLine)
	b.WriteString("\n\n")

	// ── Footer ──
	counts := result.CountByStatus()
	footer := fmt.Sprintf("%d components", len(result.Components))
	b.WriteString("  " + titleStyle.Render(footer))
	if n := counts[domain.StatusDegraded]; n > 0 {
		b.WriteString("  " + warnTagStyle.Render(fmt.Sprintf("%d degraded", n)))
	}
	if n := counts[domain.StatusFailed]; n > 0 {
		b.WriteString("  " + failTagStyle.Render(fmt.Sprintf("%d failed", n)))
	}
	b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%s · %s", result.Platform, time.Duration(result.Duration)*time.Millisecond)))
	b.WriteString("\n\n")
	return b.String()
}

func renderComponent(b *strings.Builder, c domain.ComponentResult) {
	name := compNameStyle.Render(padRight(string(c.Component), 10))

	if c.Status == domain.StatusFailed {
		fmt.Fprintf(b, "  %s %s  %s %s\n", name, skipStyle.Render(strings.Repeat("░", 20)),
			skipStyle.Render(fmt.Sprintf("%3d", c.Score)), failTagStyle.Render("failed"))
		renderLabel(b, c.Label)
		if c.Notes != "" {
			fmt.Fprintf(b, "    %s %s\n", skipStyle.Render("○"), faintStyle.Render(c.Notes))
		}
		return
	}

	scoreText := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(c.Score)).Render(fmt.Sprintf("%3d", c.Score))
	line := fmt.Sprintf("  %s %s  %s", name, coloredBar(c.Score, 20), scoreText)
	if c.Status == domain.StatusDegraded {
		line += " " + warnTagStyle.Render("partial")
	}
	b.WriteString(line + "\n")
	renderLabel(b, c.Label)

	for _, f := range c.Findings {
		fmt.Fprintf(b, "    %s %s\n", failStyle.Render("●"), dimStyle.Render(f))
	}
	if c.Status == domain.StatusDegraded && c.Notes != "" {
		fmt.Fprintf(b, "    %s %s\n", warnStyle.Render("●"), faintStyle.Render(c.Notes))
	}
}

// renderLabel prints the instance label in full under the kind so drives
// and adapters of the same family stay distinguishable.
func renderLabel(b *strings.Builder, label string) {
	if label != "" {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render(label))
	}
}

// Summary is the one-line "84/100 bon" form.
func Summary(result *domain.AuditResult) string {
	return fmt.Sprintf("%d/100 %s", result.ScoreGlobal, result.Verdict)
}

func machineLine(m domain.MachineInfo) string {
	var parts []string
	if hw := strings.TrimSpace(m.Manufacturer + " " + m.Model); hw != "" {
		parts = append(parts, hw)
	}
	if m.Hostname != "" {
		parts = append(parts, m.Hostname)
	}
	if osName := strings.TrimSpace(m.OSName + " " + m.OSVersion); osName != "" {
		parts = append(parts, osName)
	}
	return strings.Join(parts, " · ")
}

func coloredBar(score, width int) string {
	filled := max(0, min(score*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

// scoreColor follows the verdict bands.
func scoreColor(score int) lipgloss.Color {
	return verdictColor(domain.VerdictFor(score))
}

func verdictColor(v domain.Verdict) lipgloss.Color {
	if c, ok := verdictColors[v]; ok {
		return c
	}
	return fg
}

func padRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// RenderHistory formats audit history for terminal output.
func RenderHistory(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No audit history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Audit History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		host := e.Hostname
		if host == "" {
			host = "·······"
		}

		scoreStyled := lipgloss.NewStyle().
			Foreground(scoreColor(e.ScoreGlobal)).
			Render(fmt.Sprintf("%d/100", e.ScoreGlobal))

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(shortDate(e.Timestamp)),
			faintStyle.Render(padRight(host, 16)),
			scoreStyled,
			e.Verdict,
		)
		if e.Failed > 0 {
			line += "  " + failTagStyle.Render(fmt.Sprintf("%d failed", e.Failed))
		}

		if i > 0 {
			diff := e.ScoreGlobal - entries[i-1].ScoreGlobal
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func shortDate(ts string) string {
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// RenderProbes lists the probes an audit would run, with their weight in
// the global score.
func RenderProbes(platform domain.Platform, probes []domain.Probe, weights domain.Weights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s %s\n\n",
		titleStyle.Render("Probes"),
		dimStyle.Render(fmt.Sprintf("(%s, %d)", platform, len(probes))),
	)
	if len(probes) == 0 {
		b.WriteString("  " + skipStyle.Render("No probe applies to this platform.") + "\n")
		return b.String()
	}

	kinds := make([]domain.ComponentKind, 0, len(probes))
	for _, p := range probes {
		kinds = append(kinds, p.Kind())
	}
	sort.SliceStable(kinds, func(i, j int) bool { return weights[kinds[i]] > weights[kinds[j]] })

	for _, k := range kinds {
		fmt.Fprintf(&b, "    %s %s %s\n",
			passStyle.Render("●"),
			padRight(k.Key(), 12),
			dimStyle.Render(fmt.Sprintf("%4.1f%%", weights[k]*100)),
		)
	}
	return b.String()
}
