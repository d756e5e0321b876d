// Package suite holds named groups of assertions.
package suite

import (
	"sync"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
)

// Test is a named, ordered collection of assertions. Add may be called from
// several goroutines.
type Test struct {
	Name string

	mu         sync.Mutex
	assertions []*assertion.Assertion
}

func New(name string) *Test {
	return &Test{Name: name}
}

// Add appends assertions in order and returns the first one, so a check can be
// recorded and inspected in one expression.
func (t *Test) Add(as ...*assertion.Assertion) *assertion.Assertion {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assertions = append(t.assertions, as...)
	if len(as) == 0 {
		return nil
	}
	return as[0]
}

// Assertions returns a snapshot of the recorded assertions.
func (t *Test) Assertions() []*assertion.Assertion {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*assertion.Assertion(nil), t.assertions...)
}

// Summary counts assertions by outcome.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errored int
}

func (s Summary) Add(other Summary) Summary {
	return Summary{
		Total:   s.Total + other.Total,
		Passed:  s.Passed + other.Passed,
		Failed:  s.Failed + other.Failed,
		Errored: s.Errored + other.Errored,
	}
}

func (t *Test) Summary() Summary {
	var s Summary
	for _, a := range t.Assertions() {
		s.Total++
		switch a.Value().Kind() {
		case assertion.Passed:
			s.Passed++
		case assertion.Errored:
			s.Errored++
		default:
			s.Failed++
		}
	}
	return s
}

// Passed reports whether every assertion passed. An empty test passes.
func (t *Test) Passed() bool {
	s := t.Summary()
	return s.Passed == s.Total
}
