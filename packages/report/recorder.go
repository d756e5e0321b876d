package report

import (
	"sync"

	"github.com/abdul-hamid-achik/clueassert/packages/suite"
)

// Recorder collects suites created during a test run and writes them as one
// report. A Recorder with an empty path records but never writes.
type Recorder struct {
	name string
	path string

	mu    sync.Mutex
	tests []*suite.Test
}

func NewRecorder(name, path string) *Recorder {
	return &Recorder{name: name, path: path}
}

// Test returns a new suite registered with the recorder.
func (r *Recorder) Test(name string) *suite.Test {
	t := suite.New(name)
	r.mu.Lock()
	r.tests = append(r.tests, t)
	r.mu.Unlock()
	return t
}

// Document snapshots everything recorded so far.
func (r *Recorder) Document() *Document {
	r.mu.Lock()
	tests := append([]*suite.Test(nil), r.tests...)
	r.mu.Unlock()
	return FromSuites(r.name, tests...)
}

// Flush writes the report to the recorder's path.
func (r *Recorder) Flush() error {
	if r.path == "" {
		return nil
	}
	return r.Document().WriteFile(r.path)
}
