package report

// DashboardTemplate is the HTML template for the signal dashboard.
// The "table", "chart" and "detail" blocks are also rendered on their own
// and swapped into the page by /static/dashboard.js.
const DashboardTemplate = `{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Quant Signal Explainer</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <h1>📊 {{.Title}}</h1>
  <div class="intro">
    <p>This dashboard demonstrates how financial news and insider reports can be
    processed into <strong>sentiment-driven trading signals</strong> for portfolio managers.</p>
    <p>It simulates:</p>
    <ul>
      <li>NLP sentiment analysis on financial reports</li>
      <li>Signal detection</li>
      <li>Confidence scoring</li>
      <li>Actionable recommendations</li>
    </ul>
  </div>
</div>

<!-- ═══════ TABLE + CONTROLS ═══════ -->
<div class="columns">
  <div class="col-main">
    <h2>📈 Generated Trading Signals</h2>
    <div id="signals-table">{{template "table" .}}</div>
  </div>
  <div class="col-side">
    <h2>⚙️ Model Controls</h2>
    <form id="controls" method="get" action="/">
      <label for="sensitivity">Signal Sensitivity <output id="sensitivity-value" for="sensitivity">{{.SensitivityLabel}}</output></label>
      <input type="range" id="sensitivity" name="sensitivity"
             min="{{.MinSensitivity}}" max="{{.MaxSensitivity}}" step="{{.SensitivityStep}}" value="{{.Sensitivity}}">
      <button type="submit" id="regenerate" formaction="/regenerate" formmethod="post">Regenerate Signals</button>
    </form>
  </div>
</div>

<!-- ═══════ CHART ═══════ -->
<div class="section">
  <h2>📊 Sentiment Distribution</h2>
  <div id="sentiment-chart" class="chart-container">{{template "chart" .}}</div>
</div>

<!-- ═══════ DETAIL ═══════ -->
<div class="section">
  <h2>🔎 Signal Explanation</h2>
  <label for="stock">Select a stock to inspect</label>
  <select id="stock" name="stock" form="controls">
    {{range .Stocks}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>
    {{end}}
  </select>
  <noscript><button type="submit" form="controls">Inspect</button></noscript>
  <div id="signal-detail">{{template "detail" .}}</div>
</div>

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <hr>
  <p class="caption">This demo simulates a production research workflow in which qualitative financial text
  is transformed into quantitative trading signals to support portfolio decision-making.</p>
  <p class="muted" id="cycle">Cycle <span id="cycle-id">{{.CycleID}}</span>{{if .GeneratedAt}} · <span id="generated-at">{{.GeneratedAt}}</span>{{end}}</p>
</div>

<script src="/static/dashboard.js"></script>
</body>
</html>{{end}}

{{define "table"}}<table class="signals">
  <thead>
    <tr><th>Stock</th><th>Sentiment Score</th><th>Signal</th><th>Confidence (%)</th><th>Justification</th></tr>
  </thead>
  <tbody>
  {{range .Rows}}<tr data-stock="{{.Name}}">
    <td class="stock">{{.Name}}</td>
    <td class="score">{{.Score}}</td>
    <td class="signal"><span class="signal-badge {{.SignalClass}}">{{.Signal}}</span></td>
    <td class="confidence">{{.Confidence}}</td>
    <td class="justification">{{.Justification}}</td>
  </tr>
  {{else}}<tr class="empty"><td colspan="5" class="muted">No signals generated.</td></tr>
  {{end}}
  </tbody>
</table>{{end}}

{{define "chart"}}{{.Chart}}{{end}}

{{define "detail"}}{{with .Detail}}<div class="detail {{.SignalClass}}" data-stock="{{.Name}}">
  <div class="detail-text">
    <p><strong>Signal:</strong> <span class="detail-signal signal-badge {{.SignalClass}}">{{.Signal}}</span></p>
    <p><strong>Confidence:</strong> <span class="detail-confidence">{{.Confidence}}%</span></p>
    <p><strong>Sentiment Score:</strong> <span class="detail-score">{{.Score}}</span></p>
    <p><strong>Rationale:</strong></p>
    <p class="detail-rationale">{{.Justification}}</p>
  </div>
  <div class="gauge-inline">{{$.Gauge}}</div>
</div>{{end}}{{end}}

{{define "error"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Status}} · Quant Signal Explainer</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<div class="header"><h1>{{.Title}}</h1></div>
<div class="error-box">
  <h2>{{.Status}}</h2>
  <p class="error-message">{{.Message}}</p>
  <p><a href="/">Back to dashboard</a></p>
</div>
</body>
</html>{{end}}`
