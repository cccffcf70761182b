package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/verte-zerg/exampulse/internal/dashboard"
)

const sparkChars = " .:-=+*#%@"

// heatGlyphs indexes calendar intensity 0-4.
var heatGlyphs = []string{"·", "░", "▒", "▓", "█"}

var printer = message.NewPrinter(language.English)

// Count formats an integer with thousands separators.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Score formats a percentage score with one decimal.
func Score(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Minutes formats a minute count as hours and minutes.
func Minutes(total int) string {
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	h, m := total/60, total%60
	if m == 0 {
		return printer.Sprintf("%dh", h)
	}
	return printer.Sprintf("%dh %dm", h, m)
}

// Delta formats a signed change with its trend arrow.
func Delta(v float64, unit string) string {
	arrow := dashboard.TrendOf(v).Arrow()
	if v == 0 {
		return fmt.Sprintf("%s 0%s", arrow, unit)
	}
	return fmt.Sprintf("%s %+.1f%s", arrow, v, unit)
}

// Date formats a timestamp as a short calendar date in its own location.
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// Sparkline renders a single-line ASCII sparkline on a 0-100 scale.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		pos := math.Max(0, math.Min(100, v)) / 100
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// HeatRow renders calendar cells as intensity glyphs, oldest first.
func HeatRow(cells []dashboard.HeatCell) string {
	var b strings.Builder
	for _, c := range cells {
		idx := c.Intensity
		if idx < 0 {
			idx = 0
		}
		if idx >= len(heatGlyphs) {
			idx = len(heatGlyphs) - 1
		}
		b.WriteString(heatGlyphs[idx])
	}
	return b.String()
}

// ProgressBar renders percent as a bar of the given width.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(100, percent)) / 100 * float64(width)))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
