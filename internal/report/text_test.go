package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/quantsignal/pkg/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"table", FormatTable},
		{"JSON", FormatJSON},
		{" yaml ", FormatYAML},
		{"", FormatTable},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleTable(), "Microsoft"))
	out := buf.String()

	assert.Contains(t, out, DashboardTitle)
	for _, h := range []string{"Stock", "Sentiment Score", "Signal", "Confidence (%)", "Justification"} {
		assert.Contains(t, out, h)
	}
	for _, name := range []string{"Apple", "Microsoft", "NVIDIA", "Amazon", "Alphabet"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Signal Explanation: Microsoft")
	assert.Contains(t, out, "Confidence:      58%")
	assert.Contains(t, out, "Sentiment Score: -0.5")
	assert.Contains(t, out, "c0ffee00-0000-4000-8000-000000000001")
}

func TestRenderTextDefaultSelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleTable(), ""))
	assert.Contains(t, buf.String(), "Signal Explanation: Apple")
}

func TestRenderTextUnknownSelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleTable(), "Tesla"))
	assert.NotContains(t, buf.String(), "Signal Explanation")
}

func TestRenderTextNilTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, nil, ""))
	assert.Contains(t, buf.String(), "Stock")
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTable(), FormatJSON))

	var decoded struct {
		CycleID     string             `json:"cycle_id"`
		Sensitivity float64            `json:"sensitivity"`
		Rows        []models.SignalRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "c0ffee00-0000-4000-8000-000000000001", decoded.CycleID)
	assert.Equal(t, 0.6, decoded.Sensitivity)
	require.Len(t, decoded.Rows, 5)
	assert.Equal(t, "Microsoft", decoded.Rows[1].Name)
	assert.Equal(t, models.SignalSell, decoded.Rows[1].Signal)
	assert.Contains(t, buf.String(), `"stock": "Apple"`)
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTable(), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	rows, ok := decoded["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 5)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Apple", first["stock"])
	assert.Equal(t, "BUY", first["signal"])
	assert.Equal(t, 55, first["confidence"])
}

func TestEncodeTableAndUnknown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleTable(), FormatTable))
	assert.Contains(t, buf.String(), "Signal Explanation: Apple")

	assert.ErrorIs(t, Encode(&buf, sampleTable(), Format("csv")), ErrUnknownFormat)
}
