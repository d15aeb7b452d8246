package report

import (
	"strings"
	"testing"

	"github.com/seenimoa/quantsignal/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleRows() []models.SignalRow {
	return []models.SignalRow{
		{Name: "Apple", SentimentScore: 0.5, Signal: models.SignalBuy, Confidence: 55,
			Justification: "Positive insider commentary and strong institutional positioning suggest upside momentum in Apple."},
		{Name: "Microsoft", SentimentScore: -0.5, Signal: models.SignalSell, Confidence: 58,
			Justification: "Negative forward guidance and cautious analyst tone indicate downside risk in Microsoft."},
		{Name: "NVIDIA", SentimentScore: 0, Signal: models.SignalHold, Confidence: 55,
			Justification: "Mixed sentiment signals and neutral positioning suggest limited directional conviction in NVIDIA."},
		{Name: "Amazon", SentimentScore: 0.92, Signal: models.SignalBuy, Confidence: 95,
			Justification: "Positive insider commentary and strong institutional positioning suggest upside momentum in Amazon."},
		{Name: "Alphabet", SentimentScore: 0.1, Signal: models.SignalHold, Confidence: 62,
			Justification: "Mixed sentiment signals and neutral positioning suggest limited directional conviction in Alphabet."},
	}
}

// ════════════════════════════════════════════════════════════════════
// Sentiment Bar Chart Tests
// ════════════════════════════════════════════════════════════════════

func TestSentimentBarChart_Basic(t *testing.T) {
	svg := SentimentBarChart(sampleRows(), DefaultChartConfig())

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("expected a complete SVG document")
	}
	if got := strings.Count(svg, `class="bar"`); got != 5 {
		t.Errorf("expected 5 bars, got %d", got)
	}
	if !strings.Contains(svg, `class="baseline"`) {
		t.Error("expected zero baseline")
	}
	if !strings.Contains(svg, "Sentiment Distribution") {
		t.Error("expected default title")
	}
	for _, name := range []string{"Apple", "Microsoft", "NVIDIA", "Amazon", "Alphabet"} {
		if !strings.Contains(svg, `data-stock="`+name+`"`) {
			t.Errorf("expected bar for %s", name)
		}
	}
}

func TestSentimentBarChart_ColoursBySignal(t *testing.T) {
	svg := SentimentBarChart(sampleRows(), DefaultChartConfig())

	checks := map[models.SignalType]string{
		models.SignalBuy:  `data-signal="BUY"`,
		models.SignalSell: `data-signal="SELL"`,
		models.SignalHold: `data-signal="HOLD"`,
	}
	for st, attr := range checks {
		idx := strings.Index(svg, attr)
		if idx < 0 {
			t.Fatalf("missing %s bar", st)
		}
		rest := svg[idx:]
		end := strings.Index(rest, ">")
		if !strings.Contains(rest[:end], signalColors[st]) {
			t.Errorf("%s bar should use %s", st, signalColors[st])
		}
	}
}

func TestSentimentBarChart_ScoreLabels(t *testing.T) {
	svg := SentimentBarChart(sampleRows(), DefaultChartConfig())
	for _, label := range []string{">0.5<", ">-0.5<", ">0.0<", ">0.92<", ">0.1<"} {
		if !strings.Contains(svg, label) {
			t.Errorf("expected score label %s", label)
		}
	}
}

func TestSentimentBarChart_Empty(t *testing.T) {
	svg := SentimentBarChart(nil, DefaultChartConfig())
	if !strings.Contains(svg, "No signals") {
		t.Error("expected empty-state message")
	}
}

func TestSentimentBarChart_AllZero(t *testing.T) {
	rows := []models.SignalRow{{Name: "Flat", Signal: models.SignalHold}}
	svg := SentimentBarChart(rows, DefaultChartConfig())
	if strings.Contains(svg, "NaN") || strings.Contains(svg, "Inf") {
		t.Error("zero range must not produce NaN coordinates")
	}
}

func TestSentimentBarChart_ZeroConfig(t *testing.T) {
	svg := SentimentBarChart(sampleRows(), ChartConfig{Title: "Custom"})
	if !strings.Contains(svg, `width="720"`) {
		t.Error("expected default width")
	}
	if !strings.Contains(svg, "Custom") {
		t.Error("expected custom title to survive defaults")
	}
}

func TestSentimentBarChart_EscapesNames(t *testing.T) {
	rows := []models.SignalRow{{Name: `AT&T <x>`, SentimentScore: 0.4, Signal: models.SignalBuy}}
	svg := SentimentBarChart(rows, DefaultChartConfig())
	if strings.Contains(svg, "<x>") {
		t.Error("entity name must be escaped")
	}
	if !strings.Contains(svg, "AT&amp;T &lt;x&gt;") {
		t.Error("expected escaped entity name")
	}
}

// ════════════════════════════════════════════════════════════════════
// Gauge Tests
// ════════════════════════════════════════════════════════════════════

func TestGaugeChart_Values(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"floor", 55, "55%"},
		{"mid", 72, "72%"},
		{"ceiling", 95, "95%"},
		{"clamped_zero", -10, "0%"},
		{"clamped_max", 150, "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := GaugeChart(tt.value, "Confidence", 200)
			if !strings.Contains(svg, "<svg") {
				t.Error("expected SVG output")
			}
			if !strings.Contains(svg, ">"+tt.want+"<") {
				t.Errorf("expected %s in output", tt.want)
			}
			if !strings.Contains(svg, "Confidence") {
				t.Error("expected label in output")
			}
		})
	}
}

func TestGaugeChart_ZeroWidth(t *testing.T) {
	svg := GaugeChart(60, "Test", 0)
	if !strings.Contains(svg, `width="200"`) {
		t.Error("expected SVG with auto-width")
	}
}
