package scoring

import (
	"fmt"

	"github.com/abdidvp/hwaudit/internal/domain"
)

const (
	displayMinWidth       = 1024
	displayMinHeight      = 768
	displayLowResCost     = 20.0
	displayDeadPixelBase  = 20.0
	displayDeadPixelExtra = 10.0
	displayDeadPixelLimit = 60.0
)

type DisplayMetrics struct {
	Name        string
	Width       *int
	Height      *int
	RefreshHz   *float64
	Builtin     *bool
	Connected   *bool
	DeadPixels  *int
	Connection  string
	Orientation string
}

// Resolution renders "WxH", or "" when unknown.
func (m DisplayMetrics) Resolution() string {
	if m.Width == nil || m.Height == nil {
		return ""
	}
	return fmt.Sprintf("%dx%d", *m.Width, *m.Height)
}

func (m DisplayMetrics) Metrics() domain.Metrics {
	out := domain.Metrics{}
	putString(out, "name", m.Name)
	putString(out, "resolution", m.Resolution())
	put(out, "width", m.Width)
	put(out, "height", m.Height)
	put(out, "refresh_hz", m.RefreshHz)
	put(out, "builtin", m.Builtin)
	put(out, "dead_pixels", m.DeadPixels)
	putString(out, "connection", m.Connection)
	return out
}

// ScoreDisplay deducts for reported dead pixels and for a resolution below
// 1024x768. Dead pixels are only known when an operator test recorded them.
func ScoreDisplay(m DisplayMetrics) Assessment {
	var l ledger

	if l.expect("resolution", m.Width != nil && m.Height != nil, displayLowResCost) {
		if *m.Width < displayMinWidth || *m.Height < displayMinHeight {
			l.deduct(displayLowResCost, "resolution %s below %dx%d",
				m.Resolution(), displayMinWidth, displayMinHeight)
		}
	}
	if l.optional(m.DeadPixels != nil) && *m.DeadPixels > 0 {
		n := *m.DeadPixels
		l.deduct(min(displayDeadPixelLimit, displayDeadPixelBase+displayDeadPixelExtra*float64(n-1)),
			"%d dead pixels", n)
	}
	l.optional(m.RefreshHz != nil)

	return l.assess()
}
