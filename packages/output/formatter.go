package output

import (
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// Formatter interface for all output formatters
type Formatter interface {
	FormatResult(result *Result)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable interface for formatters that need to flush output
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Result is one report's suites, as handed to a Formatter.
type Result struct {
	File  string
	ID    string
	Name  string
	Tests []*suite.Test
}

// FromDocument rebuilds the suites of doc, loaded from file.
func FromDocument(file string, doc *report.Document) (*Result, error) {
	tests, err := doc.Suites()
	if err != nil {
		return nil, err
	}
	return &Result{File: file, ID: doc.ID, Name: doc.Name, Tests: tests}, nil
}

func (r *Result) Summary() suite.Summary {
	var s suite.Summary
	for _, t := range r.Tests {
		s = s.Add(t.Summary())
	}
	return s
}
