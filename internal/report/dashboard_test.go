package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seenimoa/quantsignal/pkg/models"
)

func sampleTable() *models.SignalTable {
	return &models.SignalTable{
		CycleID:     "c0ffee00-0000-4000-8000-000000000001",
		GeneratedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Sensitivity: 0.6,
		Rows:        sampleRows(),
	}
}

func renderDoc(t *testing.T, data DashboardData) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, data))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestBuildDashboardDefaultsToFirstEntity(t *testing.T) {
	data := BuildDashboard(sampleTable(), "", DefaultChartConfig())

	assert.Equal(t, DashboardTitle, data.Title)
	assert.Equal(t, "Apple", data.Selected)
	require.NotNil(t, data.Detail)
	assert.Equal(t, "Apple", data.Detail.Name)
	assert.Equal(t, []string{"Apple", "Microsoft", "NVIDIA", "Amazon", "Alphabet"}, data.Stocks)
	assert.Equal(t, "0.60", data.SensitivityLabel)
	assert.Equal(t, "2026-03-04 05:06:07 UTC", data.GeneratedAt)
	assert.Len(t, data.Rows, 5)
}

func TestBuildDashboardUnknownSelection(t *testing.T) {
	data := BuildDashboard(sampleTable(), "Tesla", DefaultChartConfig())
	assert.Equal(t, "Tesla", data.Selected)
	assert.Nil(t, data.Detail)
	assert.Empty(t, data.Gauge)
}

func TestBuildDashboardNilTable(t *testing.T) {
	data := BuildDashboard(nil, "", DefaultChartConfig())
	assert.Empty(t, data.Rows)
	assert.Nil(t, data.Detail)
	assert.Equal(t, 0.6, data.Sensitivity)
	assert.Contains(t, string(data.Chart), "No signals")
}

func TestRenderDashboardLayout(t *testing.T) {
	doc := renderDoc(t, BuildDashboard(sampleTable(), "Microsoft", DefaultChartConfig()))

	assert.Contains(t, doc.Find("h1").Text(), DashboardTitle)
	assert.Equal(t, 4, doc.Find(".intro li").Length())

	var headings []string
	doc.Find("h2").Each(func(_ int, s *goquery.Selection) {
		headings = append(headings, strings.TrimSpace(s.Text()))
	})
	assert.Equal(t, []string{
		"📈 Generated Trading Signals",
		"⚙️ Model Controls",
		"📊 Sentiment Distribution",
		"🔎 Signal Explanation",
	}, headings)

	assert.Contains(t, doc.Find(".footer .caption").Text(), "qualitative financial text")
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", doc.Find("#cycle-id").Text())
}

func TestRenderDashboardTable(t *testing.T) {
	doc := renderDoc(t, BuildDashboard(sampleTable(), "", DefaultChartConfig()))

	var headers []string
	doc.Find("#signals-table th").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, s.Text())
	})
	assert.Equal(t, []string{"Stock", "Sentiment Score", "Signal", "Confidence (%)", "Justification"}, headers)

	rows := doc.Find("#signals-table tbody tr")
	require.Equal(t, 5, rows.Length())

	first := rows.First()
	assert.Equal(t, "Apple", first.Find(".stock").Text())
	assert.Equal(t, "0.5", first.Find(".score").Text())
	assert.Equal(t, "BUY", first.Find(".signal").Text())
	assert.True(t, first.Find(".signal-badge").HasClass("buy"))
	assert.Equal(t, "55", first.Find(".confidence").Text())

	second := rows.Eq(1)
	assert.True(t, second.Find(".signal-badge").HasClass("sell"))
	third := rows.Eq(2)
	assert.Equal(t, "0.0", third.Find(".score").Text())
	assert.True(t, third.Find(".signal-badge").HasClass("neutral"))
}

func TestRenderDashboardControls(t *testing.T) {
	table := sampleTable()
	table.Sensitivity = 0.35
	doc := renderDoc(t, BuildDashboard(table, "NVIDIA", DefaultChartConfig()))

	slider := doc.Find("input#sensitivity")
	require.Equal(t, 1, slider.Length())
	assert.Equal(t, "range", slider.AttrOr("type", ""))
	assert.Equal(t, "0.1", slider.AttrOr("min", ""))
	assert.Equal(t, "1", slider.AttrOr("max", ""))
	assert.Equal(t, "0.05", slider.AttrOr("step", ""))
	assert.Equal(t, "0.35", slider.AttrOr("value", ""))

	button := doc.Find("button#regenerate")
	assert.Equal(t, "Regenerate Signals", button.Text())
	assert.Equal(t, "/regenerate", button.AttrOr("formaction", ""))
	assert.Equal(t, "post", button.AttrOr("formmethod", ""))

	options := doc.Find("select#stock option")
	assert.Equal(t, 5, options.Length())
	assert.Equal(t, "NVIDIA", doc.Find("select#stock option[selected]").Text())
	assert.Equal(t, "controls", doc.Find("select#stock").AttrOr("form", ""))
	assert.Contains(t, doc.Find("label[for=stock]").Text(), "Select a stock to inspect")
}

func TestRenderDashboardDetail(t *testing.T) {
	doc := renderDoc(t, BuildDashboard(sampleTable(), "Microsoft", DefaultChartConfig()))

	detail := doc.Find("#signal-detail .detail")
	require.Equal(t, 1, detail.Length())
	assert.Equal(t, "Microsoft", detail.AttrOr("data-stock", ""))
	assert.Equal(t, "SELL", detail.Find(".detail-signal").Text())
	assert.Equal(t, "58%", detail.Find(".detail-confidence").Text())
	assert.Equal(t, "-0.5", detail.Find(".detail-score").Text())
	assert.Equal(t,
		"Negative forward guidance and cautious analyst tone indicate downside risk in Microsoft.",
		detail.Find(".detail-rationale").Text())
	assert.Equal(t, 1, detail.Find(".gauge-inline svg").Length())
}

func TestRenderDashboardUnknownSelectionEmptyPanel(t *testing.T) {
	doc := renderDoc(t, BuildDashboard(sampleTable(), "Tesla", DefaultChartConfig()))

	assert.Equal(t, 0, doc.Find("#signal-detail .detail").Length())
	assert.Equal(t, 0, doc.Find("select#stock option[selected]").Length())
	assert.Equal(t, 5, doc.Find("#signals-table tbody tr").Length())
}

func TestRenderDashboardEscapesContent(t *testing.T) {
	table := &models.SignalTable{Rows: []models.SignalRow{{
		Name: "<script>x</script>", Signal: models.SignalHold, Confidence: 55,
		Justification: "Mixed sentiment signals and neutral positioning suggest limited directional conviction in <script>x</script>.",
	}}}
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, BuildDashboard(table, "", DefaultChartConfig())))
	assert.NotContains(t, buf.String(), "<script>x</script>")
}

func TestRenderDashboardEmptyTable(t *testing.T) {
	doc := renderDoc(t, BuildDashboard(&models.SignalTable{}, "", DefaultChartConfig()))
	assert.Equal(t, 1, doc.Find("#signals-table tr.empty").Length())
	assert.Equal(t, 0, doc.Find("select#stock option").Length())
}

func TestRenderFragments(t *testing.T) {
	frags, err := RenderFragments(BuildDashboard(sampleTable(), "Amazon", DefaultChartConfig()))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(frags.Table, "<table"))
	assert.True(t, strings.HasPrefix(frags.Chart, "<svg"))
	assert.Contains(t, frags.Detail, `data-stock="Amazon"`)
	assert.NotContains(t, frags.Table, "<html")
}

func TestRenderFragmentUnknown(t *testing.T) {
	var buf bytes.Buffer
	err := RenderFragment(&buf, "dashboard", DashboardData{})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderError(&buf, 400, "sensitivity out of range"))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "400", doc.Find(".error-box h2").Text())
	assert.Equal(t, "sensitivity out of range", doc.Find(".error-message").Text())
}
