package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/seenimoa/quantsignal/internal/signals"
	"github.com/seenimoa/quantsignal/pkg/models"
	"github.com/seenimoa/quantsignal/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Dashboard: table, chart, controls and detail panel for one cycle
// ════════════════════════════════════════════════════════════════════

// DashboardTitle is the page heading.
const DashboardTitle = "Fixed Income Quant Research – Signal Explainer Dashboard"

// SensitivityStep is the slider increment.
const SensitivityStep = 0.05

// Fragment names rendered on their own for live updates.
const (
	FragmentTable  = "table"
	FragmentChart  = "chart"
	FragmentDetail = "detail"
)

// RowView is a display-ready SignalRow.
type RowView struct {
	Name          string
	Score         string
	Signal        string
	SignalClass   string
	Confidence    string
	Justification string
}

// DashboardData holds everything the dashboard template needs.
type DashboardData struct {
	Title       string
	Rows        []RowView
	Stocks      []string
	Selected    string
	Detail      *RowView // nil renders an empty panel
	Chart       template.HTML
	Gauge       template.HTML
	CycleID     string
	GeneratedAt string

	Sensitivity      float64
	SensitivityLabel string
	MinSensitivity   float64
	MaxSensitivity   float64
	SensitivityStep  float64
}

// Fragments are the live-updated sections of the page, rendered to strings.
type Fragments struct {
	Table  string `json:"table"`
	Chart  string `json:"chart"`
	Detail string `json:"detail"`
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(DashboardTemplate))

// BuildDashboard converts a table into template data. An empty selection
// picks the first entity; a selection missing from the table leaves the
// detail panel empty.
func BuildDashboard(table *models.SignalTable, selected string, cfg ChartConfig) DashboardData {
	data := DashboardData{
		Title:           DashboardTitle,
		Sensitivity:     signals.DefaultSensitivity,
		MinSensitivity:  signals.MinSensitivity,
		MaxSensitivity:  signals.MaxSensitivity,
		SensitivityStep: SensitivityStep,
	}
	if table != nil {
		data.CycleID = table.CycleID
		data.GeneratedAt = utils.FormatTimestamp(table.GeneratedAt)
		if table.Sensitivity != 0 {
			data.Sensitivity = table.Sensitivity
		}
		data.Rows = make([]RowView, 0, len(table.Rows))
		for _, r := range table.Rows {
			data.Rows = append(data.Rows, newRowView(r))
		}
		data.Stocks = table.Names()
	}
	data.SensitivityLabel = strconv.FormatFloat(data.Sensitivity, 'f', 2, 64)

	var rows []models.SignalRow
	if table != nil {
		rows = table.Rows
	}
	data.Chart = template.HTML(SentimentBarChart(rows, cfg))

	if selected == "" && len(data.Stocks) > 0 {
		selected = data.Stocks[0]
	}
	data.Selected = selected
	if row, ok := table.Lookup(selected); ok {
		view := newRowView(row)
		data.Detail = &view
		data.Gauge = template.HTML(GaugeChart(float64(row.Confidence), "Confidence", 180))
	}
	return data
}

func newRowView(r models.SignalRow) RowView {
	return RowView{
		Name:          r.Name,
		Score:         utils.FormatScore(r.SentimentScore),
		Signal:        string(r.Signal),
		SignalClass:   signalClass(r.Signal),
		Confidence:    strconv.Itoa(r.Confidence),
		Justification: r.Justification,
	}
}

func signalClass(t models.SignalType) string {
	switch t {
	case models.SignalBuy:
		return "buy"
	case models.SignalSell:
		return "sell"
	default:
		return "neutral"
	}
}

// RenderDashboard writes the full page.
func RenderDashboard(w io.Writer, data DashboardData) error {
	var buf bytes.Buffer
	if err := dashboardTmpl.ExecuteTemplate(&buf, "dashboard", data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderFragment writes one named section of the page.
func RenderFragment(w io.Writer, name string, data DashboardData) error {
	switch name {
	case FragmentTable, FragmentChart, FragmentDetail:
	default:
		return fmt.Errorf("unknown fragment %q", name)
	}
	if err := dashboardTmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s fragment: %w", name, err)
	}
	return nil
}

// RenderFragments renders the live-updated sections.
func RenderFragments(data DashboardData) (Fragments, error) {
	var out Fragments
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{FragmentTable, &out.Table},
		{FragmentChart, &out.Chart},
		{FragmentDetail, &out.Detail},
	} {
		var buf bytes.Buffer
		if err := RenderFragment(&buf, f.name, data); err != nil {
			return Fragments{}, err
		}
		*f.dst = buf.String()
	}
	return out, nil
}

// ErrorPage is the data for the error page.
type ErrorPage struct {
	Title   string
	Status  int
	Message string
}

// RenderError writes a minimal error page.
func RenderError(w io.Writer, status int, msg string) error {
	return dashboardTmpl.ExecuteTemplate(w, "error", ErrorPage{
		Title:   DashboardTitle,
		Status:  status,
		Message: msg,
	})
}
