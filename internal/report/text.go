package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/quantsignal/pkg/models"
	"github.com/seenimoa/quantsignal/pkg/utils"
)

// Format selects the CLI output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported encodings.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q (want table, json or yaml)", ErrUnknownFormat, s)
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	signalStyles = map[models.SignalType]lipgloss.Style{
		models.SignalBuy:  cellStyle.Foreground(lipgloss.Color("#16a34a")).Bold(true),
		models.SignalSell: cellStyle.Foreground(lipgloss.Color("#dc2626")).Bold(true),
		models.SignalHold: cellStyle.Foreground(lipgloss.Color("#9ca3af")),
	}
)

const signalCol = 2

// RenderText writes the table and, when selected names a row, its detail
// block. An empty selection shows the first row.
func RenderText(w io.Writer, t *models.SignalTable, selected string) error {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(DashboardTitle) + "\n\n")

	rows := make([][]string, 0)
	if t != nil {
		for _, r := range t.Rows {
			rows = append(rows, []string{
				r.Name,
				utils.FormatScore(r.SentimentScore),
				string(r.Signal),
				fmt.Sprintf("%d", r.Confidence),
				r.Justification,
			})
		}
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Stock", "Sentiment Score", "Signal", "Confidence (%)", "Justification").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == signalCol && row >= 0 && row < len(rows) {
				if s, ok := signalStyles[models.SignalType(rows[row][signalCol])]; ok {
					return s
				}
			}
			return cellStyle
		})
	sb.WriteString(tbl.String() + "\n")

	if selected == "" && t != nil && len(t.Rows) > 0 {
		selected = t.Rows[0].Name
	}
	if row, ok := t.Lookup(selected); ok {
		sb.WriteString("\n" + titleStyle.Render("Signal Explanation: "+row.Name) + "\n")
		sb.WriteString(fmt.Sprintf("  Signal:          %s\n", row.Signal))
		sb.WriteString(fmt.Sprintf("  Confidence:      %s\n", utils.FormatPercent(row.Confidence)))
		sb.WriteString(fmt.Sprintf("  Sentiment Score: %s\n", utils.FormatScore(row.SentimentScore)))
		sb.WriteString("  Rationale:\n")
		sb.WriteString("  " + row.Justification + "\n")
	}

	if t != nil {
		sb.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("cycle %s · sensitivity %.2f · %s",
			t.CycleID, t.Sensitivity, utils.FormatTimestamp(t.GeneratedAt))) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Encode writes t in the requested format. FormatTable delegates to
// RenderText with the default selection.
func Encode(w io.Writer, t *models.SignalTable, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		return RenderText(w, t, "")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
