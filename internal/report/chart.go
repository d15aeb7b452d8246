// Package report renders signal tables: SVG charts, the HTML dashboard,
// terminal tables and machine-readable encodings.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/quantsignal/pkg/models"
	"github.com/seenimoa/quantsignal/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 720)
	Height       int    // SVG height in pixels (default: 320)
	MarginTop    int    // top margin
	MarginRight  int    // right margin
	MarginBottom int    // bottom margin (entity labels)
	MarginLeft   int    // left margin (value labels)
	BgColor      string // background color
	GridColor    string // grid line color
	TextColor    string // axis label color
	FontSize     int    // axis label font size
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        720,
		Height:       320,
		MarginTop:    40,
		MarginRight:  20,
		MarginBottom: 40,
		MarginLeft:   50,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// signalColors maps each band to its bar fill.
var signalColors = map[models.SignalType]string{
	models.SignalBuy:  "#16a34a",
	models.SignalSell: "#dc2626",
	models.SignalHold: "#9ca3af",
}

// ════════════════════════════════════════════════════════════════════
// Sentiment Bar Chart (Vertical)
// ════════════════════════════════════════════════════════════════════

// SentimentBarChart draws one vertical bar per row keyed by entity name,
// with the sentiment score on the value axis and a zero baseline. Bars are
// coloured by signal band.
func SentimentBarChart(rows []models.SignalRow, cfg ChartConfig) string {
	if cfg.Width == 0 {
		title := cfg.Title
		cfg = DefaultChartConfig()
		cfg.Title = title
	}
	if len(rows) == 0 {
		return emptySVG(cfg, "No signals")
	}
	if cfg.Title == "" {
		cfg.Title = "Sentiment Distribution"
	}

	px, py, pw, ph := cfg.plotArea()

	minVal, maxVal := 0.0, 0.0
	for _, r := range rows {
		minVal = math.Min(minVal, r.SentimentScore)
		maxVal = math.Max(maxVal, r.SentimentScore)
	}
	// 10% headroom so value labels clear the plot edge
	valRange := maxVal - minVal
	if valRange < 0.001 {
		valRange = 1
		maxVal = 0.5
		minVal = -0.5
	}
	maxVal += valRange * 0.1
	if minVal < 0 {
		minVal -= valRange * 0.1
	}
	valRange = maxVal - minVal

	valToY := func(v float64) float64 {
		return float64(py) + (maxVal-v)/valRange*float64(ph)
	}
	zeroY := valToY(0)

	n := len(rows)
	slot := float64(pw) / float64(n)
	barW := math.Min(slot*0.6, 80)

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid lines and labels
	gridLines := 4
	for i := 0; i <= gridLines; i++ {
		v := minVal + valRange*float64(i)/float64(gridLines)
		y := valToY(v)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%.2f</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, v))
	}

	// Zero baseline
	sb.WriteString(fmt.Sprintf(`<line class="baseline" x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#666" stroke-width="1"/>`,
		px, zeroY, px+pw, zeroY))

	for i, r := range rows {
		cx := float64(px) + slot*float64(i) + slot/2
		y := valToY(r.SentimentScore)
		top, h := y, zeroY-y
		if r.SentimentScore < 0 {
			top, h = zeroY, y-zeroY
		}
		color, ok := signalColors[r.Signal]
		if !ok {
			color = signalColors[models.SignalHold]
		}

		sb.WriteString(fmt.Sprintf(`<rect class="bar" data-stock="%s" data-signal="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" rx="2"><title>%s: %s</title></rect>`,
			escapeXML(r.Name), r.Signal, cx-barW/2, top, barW, h, color,
			escapeXML(r.Name), utils.FormatScore(r.SentimentScore)))

		// Value above positive bars, below negative ones
		labelY := top - 4
		if r.SentimentScore < 0 {
			labelY = top + h + float64(cfg.FontSize) + 2
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			cx, labelY, cfg.FontSize, cfg.TextColor, utils.FormatScore(r.SentimentScore)))

		// Entity label
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="middle">%s</text>`,
			cx, py+ph+18, cfg.FontSize, cfg.TextColor, escapeXML(r.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Gauge / Dial Chart (for confidence)
// ════════════════════════════════════════════════════════════════════

// GaugeChart generates an SVG semicircular gauge for a 0-100 value such
// as a signal's confidence.
func GaugeChart(value float64, label string, width int) string {
	if width == 0 {
		width = 200
	}
	height := width/2 + 30

	cx := float64(width) / 2
	cy := float64(width)/2 - 10
	radius := float64(width)/2 - 20

	value = utils.Clamp(value, 0, 100)

	// Angle: 180° (left) to 0° (right), value maps 0→180°, 100→0°
	angle := math.Pi - (value/100)*math.Pi
	needleX := cx + radius*0.85*math.Cos(angle)
	needleY := cy - radius*0.85*math.Sin(angle)

	var color string
	switch {
	case value < 65:
		color = "#ff9800"
	case value < 80:
		color = "#ffc107"
	default:
		color = "#4caf50"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, width, height))

	// Background arc
	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 0,1 %.1f,%.1f" fill="none" stroke="#e0e0e0" stroke-width="12" stroke-linecap="round"/>`,
		cx-radius, cy, radius, radius, cx+radius, cy))

	// Value arc. A semicircle never spans more than 180°, so the small-arc
	// flag is always correct.
	endX := cx + radius*math.Cos(angle)
	endY := cy - radius*math.Sin(angle)
	sb.WriteString(fmt.Sprintf(`<path d="M%.1f,%.1f A%.1f,%.1f 0 0,1 %.1f,%.1f" fill="none" stroke="%s" stroke-width="12" stroke-linecap="round"/>`,
		cx-radius, cy, radius, radius, endX, endY, color))

	// Needle
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333" stroke-width="2"/>`,
		cx, cy, needleX, needleY))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="5" fill="#333"/>`, cx, cy))

	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="22" font-weight="bold" fill="%s" text-anchor="middle">%.0f%%</text>`,
		cx, cy+25, color, value))
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="11" fill="#666" text-anchor="middle">%s</text>`,
		cx, height-5, escapeXML(label)))

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
