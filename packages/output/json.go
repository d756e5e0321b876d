package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary  `json:"summary"`
	Reports  []JSONReport `json:"reports"`
	Duration float64      `json:"duration"`
	Time     string       `json:"time"`
}

// JSONSummary represents the assertion summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
}

// JSONReport represents one rendered report
type JSONReport struct {
	ID    string     `json:"id,omitempty"`
	Name  string     `json:"name"`
	File  string     `json:"file"`
	Tests []JSONTest `json:"tests"`
}

// JSONTest represents a single suite
type JSONTest struct {
	Name       string          `json:"name"`
	Passed     bool            `json:"passed"`
	Assertions []JSONAssertion `json:"assertions"`
}

// JSONAssertion represents an assertion result
type JSONAssertion struct {
	Name     string   `json:"name"`
	Location string   `json:"location,omitempty"`
	Outcome  string   `json:"outcome"`
	Passed   bool     `json:"passed"`
	Error    string   `json:"error,omitempty"`
	Clues    []string `json:"clues,omitempty"`
}

// JSONFormatter formats assertion reports as JSON
type JSONFormatter struct {
	writer  io.Writer
	reports []JSONReport
	summary suite.Summary
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		reports: make([]JSONReport, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *Result) {
	rep := JSONReport{
		ID:    result.ID,
		Name:  result.Name,
		File:  result.File,
		Tests: make([]JSONTest, 0, len(result.Tests)),
	}

	for _, t := range result.Tests {
		test := JSONTest{
			Name:       t.Name,
			Passed:     t.Passed(),
			Assertions: make([]JSONAssertion, 0),
		}
		for _, a := range t.Assertions() {
			ja := JSONAssertion{
				Name:    a.Name(),
				Outcome: a.Value().Kind().String(),
				Passed:  a.Passed(),
			}
			if loc, ok := a.At(); ok {
				ja.Location = loc.String()
			}
			if err := a.Value().Err(); err != nil {
				ja.Error = err.Error()
			}
			for _, c := range a.Clues() {
				ja.Clues = append(ja.Clues, c.String())
			}
			test.Assertions = append(test.Assertions, ja)
		}
		rep.Tests = append(rep.Tests, test)
	}

	f.summary = f.summary.Add(result.Summary())
	f.reports = append(f.reports, rep)
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	output := JSONOutput{
		Summary: JSONSummary{
			Total:   f.summary.Total,
			Passed:  f.summary.Passed,
			Failed:  f.summary.Failed,
			Errored: f.summary.Errored,
		},
		Reports:  f.reports,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
