package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version        string
	Summary        suite.Summary
	Tests          []HTMLTest
	Duration       float64
	Time           string
	PassedPercent  float64
	FailedPercent  float64
	ErroredPercent float64
}

// HTMLTest represents a single suite for HTML output
type HTMLTest struct {
	Name        string
	Report      string
	Passed      bool
	StatusClass string
	Assertions  []HTMLAssertion
}

// HTMLAssertion represents an assertion for HTML output
type HTMLAssertion struct {
	Name        string
	Location    string
	StatusClass string
	Error       string
	Clues       []string
}

// HTMLFormatter formats assertion reports as HTML
type HTMLFormatter struct {
	writer  io.Writer
	results []HTMLTest
	summary suite.Summary
	version string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer:  os.Stdout,
		results: make([]HTMLTest, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		f.writer = w
	}
}

// FormatResult accumulates a report
func (f *HTMLFormatter) FormatResult(result *Result) {
	for _, t := range result.Tests {
		test := HTMLTest{
			Name:        t.Name,
			Report:      result.Name,
			Passed:      t.Passed(),
			StatusClass: "passed",
		}
		if !test.Passed {
			test.StatusClass = "failed"
		}

		for _, a := range t.Assertions() {
			ha := HTMLAssertion{
				Name:        a.Name(),
				StatusClass: a.Value().Kind().String(),
			}
			if loc, ok := a.At(); ok {
				ha.Location = loc.String()
			}
			if err := a.Value().Err(); err != nil {
				ha.Error = err.Error()
			}
			if !a.Passed() {
				for _, c := range a.Clues() {
					ha.Clues = append(ha.Clues, c.String())
				}
			}
			test.Assertions = append(test.Assertions, ha)
		}

		f.summary = f.summary.Add(t.Summary())
		f.results = append(f.results, test)
	}
}

// FormatError handles errors (no-op for HTML)
func (f *HTMLFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush(totalDuration time.Duration) error {
	s := f.summary
	var passedPct, failedPct, erroredPct float64
	if s.Total > 0 {
		passedPct = float64(s.Passed) / float64(s.Total) * 100
		failedPct = float64(s.Failed) / float64(s.Total) * 100
		erroredPct = float64(s.Errored) / float64(s.Total) * 100
	}

	output := HTMLOutput{
		Version:        f.version,
		Summary:        s,
		Tests:          f.results,
		Duration:       float64(totalDuration.Milliseconds()),
		Time:           time.Now().Format("2006-01-02 15:04:05"),
		PassedPercent:  passedPct,
		FailedPercent:  failedPct,
		ErroredPercent: erroredPct,
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>clueassert Report</title>
    <style>
        :root {
            --bg-primary: #1a1a2e;
            --bg-secondary: #16213e;
            --text-primary: #eee;
            --text-secondary: #aaa;
            --success: #00d26a;
            --error: #ff4757;
            --warning: #ffa502;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg-primary);
            color: var(--text-primary);
            margin: 0;
            padding: 2rem;
        }
        .container { max-width: 1000px; margin: 0 auto; }
        .meta { color: var(--text-secondary); margin-bottom: 2rem; }
        .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(120px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .card { background: var(--bg-secondary); padding: 1rem; border-radius: 8px; text-align: center; }
        .card .value { font-size: 1.5rem; font-weight: bold; }
        .test { background: var(--bg-secondary); border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
        .test h2 { margin: 0 0 0.5rem 0; font-size: 1.1rem; }
        .assertion { font-family: ui-monospace, monospace; margin: 0.25rem 0; }
        .assertion .detail { color: var(--text-secondary); margin-left: 1.5rem; }
        .passed { color: var(--success); }
        .failed { color: var(--error); }
        .errored { color: var(--warning); }
    </style>
</head>
<body>
    <div class="container">
        <h1>clueassert Report</h1>
        <div class="meta">{{if .Version}}clueassert {{.Version}} · {{end}}{{.Time}} · {{printf "%.0f" .Duration}}ms</div>
        <div class="summary">
            <div class="card"><div class="value">{{.Summary.Total}}</div><div>Total</div></div>
            <div class="card passed"><div class="value">{{.Summary.Passed}}</div><div>Passed ({{printf "%.1f" .PassedPercent}}%)</div></div>
            <div class="card failed"><div class="value">{{.Summary.Failed}}</div><div>Failed ({{printf "%.1f" .FailedPercent}}%)</div></div>
            <div class="card errored"><div class="value">{{.Summary.Errored}}</div><div>Errored ({{printf "%.1f" .ErroredPercent}}%)</div></div>
        </div>
        {{range .Tests}}
        <div class="test">
            <h2 class="{{.StatusClass}}">{{.Name}}{{if .Report}} <small>({{.Report}})</small>{{end}}</h2>
            {{range .Assertions}}
            <div class="assertion">
                <div class="{{.StatusClass}}">{{if eq .StatusClass "passed"}}✔{{else}}✖{{end}} {{.Name}}</div>
                {{if ne .StatusClass "passed"}}
                {{if .Location}}<div class="detail">{{.Location}}</div>{{end}}
                {{if .Error}}<div class="detail">error = {{.Error}}</div>{{end}}
                {{range .Clues}}<div class="detail">{{.}}</div>{{end}}
                {{end}}
            </div>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>`
