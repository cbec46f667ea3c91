package dashboard

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/ui/resources"
)

var templates = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"static":     resources.StaticPath,
	"value":      common.FormatValue,
	"jsonString": jsonString,
}).Parse(layout))

// render adapts a named html/template to a templ component so it can be
// patched with datastar like any other component.
func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

// jsonString quotes s as a JavaScript string literal for signal
// initializers.
func jsonString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

// Page is the full HTML document.
func Page(v ViewData) templ.Component { return render("page", v) }

// Fragments below are patched over SSE and morph by their root id:
// #suggestions, #history and #results.

// Suggestions is the suggestion dropdown fragment.
func Suggestions(v ViewData) templ.Component { return render("suggestions", v) }

// Sidebar is the query history fragment.
func Sidebar(v ViewData) templ.Component { return render("sidebar", v) }

// Results is the results panel fragment.
func Results(v ViewData) templ.Component { return render("results", v) }

const layout = `
{{define "page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - LeapDash</title>
<link rel="stylesheet" href="{{static "dashboard.css"}}">
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"></script>
</head>
<body>
<div id="app" class="ui-app" data-signals:query="{{jsonString .Query}}" data-init="@get('/updates')">
{{if .IsDev}}<div data-init="@get('/reload')"></div>{{end}}
<header class="ui-header"><h1>{{.Title}}</h1></header>
<div class="ui-layout">
{{template "sidebar" .}}
<main class="ui-content">
<div class="query-box">
<div class="query-row">
<input id="query-input" type="text" autocomplete="off"
	placeholder="Ask anything about your data..."
	value="{{.Query}}"
	data-bind:query
	data-on:input__debounce.150ms="@post('/api/query/input')"
	data-on:focus="@post('/api/query/input')"
	data-on:keydown="if (['ArrowDown','ArrowUp','Enter','Escape'].includes(evt.key)) { evt.preventDefault(); @post('/api/query/key/' + evt.key) }">
<button type="button" class="query-clear" data-show="$query != ''" data-on:click="@post('/api/query/clear')">&times;</button>
<button type="button" class="query-submit" data-on:click="@post('/api/query/execute')">Ask</button>
</div>
{{template "suggestions" .}}
</div>
{{template "results" .}}
</main>
</div>
</div>
</body>
</html>
{{end}}

{{define "suggestions"}}<div id="suggestions" class="suggestions">
{{- if .ShowSuggestions}}
<ul>
{{- range .Suggestions}}
<li class="suggestion{{if .Active}} active{{end}}" data-on:click="@post('/api/query/suggestion/{{.Index}}')">{{.Text}}</li>
{{- end}}
</ul>
{{- end}}
</div>{{end}}

{{define "sidebar"}}<aside id="history" class="ui-sidebar">
<h2>Query History</h2>
{{- if .Sidebar.Empty}}
<p class="muted">No queries yet</p>
{{- else}}
<ul>
{{- range .Sidebar.History}}
<li class="history-item" data-on:click="@post('/api/history/{{.ID}}')">
<span class="history-text">{{.Text}}</span>
<span class="history-time">{{.Time}}</span>
</li>
{{- end}}
</ul>
{{- end}}
</aside>{{end}}

{{define "results"}}<section id="results" class="results">
{{- if .Error}}
<div class="alert alert-error" role="alert">{{.Error}}</div>
{{- end}}
{{- if .Loading}}
<div class="loading" aria-busy="true">Analyzing your query...</div>
{{- else if .Result}}
{{- with .Result}}
<div class="result-card">
<h2>{{.Title}}</h2>
<p class="result-description">{{.Description}}</p>
<figure class="chart chart-{{.Chart.Type}}" aria-label="{{.ChartLabel}}">
{{template "chart" .Chart}}
</figure>
{{- if .Insights}}
<div class="insights">
<h3>Key Insights</h3>
<ul>
{{- range .Insights}}
<li>{{.}}</li>
{{- end}}
</ul>
</div>
{{- end}}
<table class="result-data">
{{- range .Data}}
<tr><td>{{.Name}}</td><td>{{value .Value}}</td></tr>
{{- end}}
</table>
</div>
{{- end}}
{{- else}}
<div class="empty">
<h2>Ask a question</h2>
<p class="muted">Try one of the suggestions to see your data.</p>
</div>
{{- end}}
</section>{{end}}

{{define "chart"}}<svg viewBox="0 0 {{.Width}} {{.Height}}" role="img">
{{- range .Bars}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Color}}"><title>{{.Label}}: {{.Value}}</title></rect>
{{- end}}
{{- if .Points}}
<polyline points="{{.Polyline}}" fill="none" stroke="#4f46e5" stroke-width="2"/>
{{- range .Points}}
<circle cx="{{.X}}" cy="{{.Y}}" r="3" fill="#4f46e5"><title>{{.Label}}: {{.Value}}</title></circle>
{{- end}}
{{- end}}
{{- range .Slices}}
<path d="{{.Path}}" fill="{{.Color}}"><title>{{.Label}}: {{.Value}} ({{.Percent}})</title></path>
{{- end}}
</svg>{{end}}
`
