package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/google/uuid"
)

// Document is the on-disk form of a set of suites.
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Tests     []Test    `json:"tests"`
}

// Test is one suite in a Document.
type Test struct {
	Name       string      `json:"name"`
	Assertions []Assertion `json:"assertions"`
}

// Assertion is the serialized form of an assertion.Assertion.
type Assertion struct {
	Name     string              `json:"name"`
	Location *assertion.Location `json:"location,omitempty"`
	Outcome  string              `json:"outcome"`
	Error    string              `json:"error,omitempty"`
	Clues    []string            `json:"clues,omitempty"`
}

// FromSuites snapshots tests into a new Document with a fresh ID.
func FromSuites(name string, tests ...*suite.Test) *Document {
	doc := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Tests:     make([]Test, 0, len(tests)),
	}
	for _, t := range tests {
		rt := Test{Name: t.Name, Assertions: make([]Assertion, 0)}
		for _, a := range t.Assertions() {
			rt.Assertions = append(rt.Assertions, fromAssertion(a))
		}
		doc.Tests = append(doc.Tests, rt)
	}
	return doc
}

func fromAssertion(a *assertion.Assertion) Assertion {
	ra := Assertion{
		Name:    a.Name(),
		Outcome: a.Value().Kind().String(),
	}
	if loc, ok := a.At(); ok {
		ra.Location = &loc
	}
	if err := a.Value().Err(); err != nil {
		ra.Error = err.Error()
	}
	for _, c := range a.Clues() {
		ra.Clues = append(ra.Clues, string(c))
	}
	return ra
}

// Suites rebuilds the suites held by d.
func (d *Document) Suites() ([]*suite.Test, error) {
	tests := make([]*suite.Test, 0, len(d.Tests))
	for _, rt := range d.Tests {
		t := suite.New(rt.Name)
		for i, ra := range rt.Assertions {
			a, err := ra.toAssertion()
			if err != nil {
				return nil, fmt.Errorf("test %q assertion %d: %w", rt.Name, i, err)
			}
			t.Add(a)
		}
		tests = append(tests, t)
	}
	return tests, nil
}

func (ra Assertion) toAssertion() (*assertion.Assertion, error) {
	if ra.Name == "" {
		return nil, fmt.Errorf("%w: assertion without a name", ErrInvalidReport)
	}
	kind, ok := assertion.ParseKind(ra.Outcome)
	if !ok {
		return nil, fmt.Errorf("%w: unknown outcome %q", ErrInvalidReport, ra.Outcome)
	}

	var v assertion.Value
	switch kind {
	case assertion.Passed:
		v = assertion.Pass()
	case assertion.Errored:
		v = assertion.ErroredWith(errors.New(ra.Error))
	default:
		v = assertion.Fail()
	}

	clues := make([]assertion.Clue, 0, len(ra.Clues))
	for _, c := range ra.Clues {
		clues = append(clues, assertion.Clue(c))
	}
	return assertion.New(ra.Name, ra.Location, v, clues...), nil
}

// Summary totals every test in d.
func (d *Document) Summary() suite.Summary {
	var s suite.Summary
	for _, rt := range d.Tests {
		for _, ra := range rt.Assertions {
			s.Total++
			switch ra.Outcome {
			case "passed":
				s.Passed++
			case "errored":
				s.Errored++
			default:
				s.Failed++
			}
		}
	}
	return s
}

// Write encodes d as indented JSON.
func (d *Document) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// WriteFile writes d to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := d.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

// Parse validates data against the report schema and decodes it.
func Parse(data []byte) (*Document, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	return &doc, nil
}

// Load reads and parses the report at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
