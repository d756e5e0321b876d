package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
)

// TAPFormatter formats assertions in TAP (Test Anything Protocol) format,
// one test point per assertion.
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
}

type tapResult struct {
	number   int
	name     string
	passed   bool
	location string
	error    string
	clues    []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *Result) {
	for _, t := range result.Tests {
		for _, a := range t.Assertions() {
			f.testCount++
			f.results = append(f.results, newTAPResult(f.testCount, t.Name, a))
		}
	}
}

func newTAPResult(number int, testName string, a *assertion.Assertion) tapResult {
	tr := tapResult{
		number: number,
		name:   testName + ": " + a.Name(),
		passed: a.Passed(),
	}
	if loc, ok := a.At(); ok {
		tr.location = fmt.Sprintf("%s:%d", loc.File, loc.Line)
	}
	if err := a.Value().Err(); err != nil {
		tr.error = err.Error()
	}
	for _, c := range a.Clues() {
		tr.clues = append(tr.clues, c.String())
	}
	return tr
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		fmt.Fprintf(f.writer, "  ---\n")
		if r.error != "" {
			fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.error))
			fmt.Fprintf(f.writer, "  severity: error\n")
		} else {
			fmt.Fprintf(f.writer, "  severity: fail\n")
		}
		if r.location != "" {
			fmt.Fprintf(f.writer, "  at: %s\n", escapeYAML(r.location))
		}
		if len(r.clues) > 0 {
			fmt.Fprintf(f.writer, "  clues:\n")
			for _, c := range r.clues {
				fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(c))
			}
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
