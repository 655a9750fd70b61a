package probe

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/abdidvp/hwaudit/internal/domain"
	"github.com/abdidvp/hwaudit/internal/domain/scoring"
)

var drmConnectorRe = regexp.MustCompile(`^card\d+-`)

// probeScreen scores every connected display.
func (r *Registry) probeScreen(ctx context.Context, s *session) []domain.ComponentResult {
	text, ok := s.run(ctx, cmdScreenInfo, nil)
	if !ok {
		return nil
	}
	displays, err := parseDisplays(text)
	if err != nil {
		s.parseFailure(cmdScreenInfo)
		return nil
	}
	var results []domain.ComponentResult
	for _, m := range displays {
		a := scoring.ScoreDisplay(m)
		results = append(results, a.Result(domain.ComponentScreen, m.Name, m.Metrics(), r.settings.NeutralScore))
	}
	return results
}

func parseDisplays(text string) ([]scoring.DisplayMetrics, error) {
	if isJSON(text) {
		return parseProfilerDisplays(text)
	}
	var out []scoring.DisplayMetrics
	for _, rec := range parseRecords(text) {
		name := drmConnectorRe.ReplaceAllString(rec.str("name"), "")
		if name == "" {
			continue
		}
		m := scoring.DisplayMetrics{Name: name, Connection: connectorType(name)}
		if mode := rec.str("mode", "resolution"); mode != "" {
			m.Width, m.Height = parseResolution(mode)
		}
		m.RefreshHz = positive(rec.float("refresh_hz"))
		m.DeadPixels = rec.int("dead_pixels")
		if m.Connection != "" {
			m.Builtin = ptr(isBuiltinConnector(m.Connection))
		}
		out = append(out, m)
	}
	return out, nil
}

// connectorType extracts "eDP" from a DRM connector such as "eDP-1".
func connectorType(name string) string {
	i := strings.LastIndexByte(name, '-')
	if i <= 0 {
		return ""
	}
	return name[:i]
}

func isBuiltinConnector(conn string) bool {
	switch strings.ToUpper(conn) {
	case "EDP", "LVDS", "DSI":
		return true
	}
	return false
}

// profilerDisplays is the SPDisplaysDataType JSON report.
type profilerDisplays struct {
	Items []struct {
		Name     string `json:"_name"`
		Model    string `json:"sppci_model"`
		VRAM     string `json:"spdisplays_vram"`
		VRAMS    string `json:"spdisplays_vram_shared"`
		Cores    string `json:"sppci_cores"`
		Vendor   string `json:"spdisplays_vendor"`
		Displays []struct {
			Name       string `json:"_name"`
			Pixels     string `json:"_spdisplays_pixels"`
			Resolution string `json:"_spdisplays_resolution"`
			Connection string `json:"spdisplays_connection_type"`
			Type       string `json:"spdisplays_display_type"`
		} `json:"spdisplays_ndrvs"`
	} `json:"SPDisplaysDataType"`
}

func parseProfilerDisplays(text string) ([]scoring.DisplayMetrics, error) {
	var rep profilerDisplays
	if err := json.Unmarshal([]byte(text), &rep); err != nil {
		return nil, err
	}
	var out []scoring.DisplayMetrics
	for _, gpu := range rep.Items {
		for _, d := range gpu.Displays {
			m := scoring.DisplayMetrics{Name: d.Name}
			m.Width, m.Height = parseResolution(d.Pixels)
			if m.Width == nil {
				m.Width, m.Height = parseResolution(d.Resolution)
			}
			m.RefreshHz = parseRefresh(d.Resolution)
			builtin := strings.Contains(d.Connection, "internal") || strings.Contains(d.Type, "built-in")
			m.Builtin = &builtin
			if builtin {
				m.Connection = "internal"
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func isJSON(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[")
}
