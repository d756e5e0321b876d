package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/capture/source"
	"github.com/abdul-hamid-achik/clueassert/packages/snapshot"
	"github.com/abdul-hamid-achik/clueassert/packages/style"
	"github.com/google/go-cmp/cmp"
)

// callerOfAPI is the runtime.Caller depth of the code calling an exported
// function of this package, seen from callSite.
const callerOfAPI = 2

type site struct {
	file    string // as reported by the runtime, used to read the source
	display string
	line    int
	ok      bool
}

func callSite(skip int) site {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return site{}
	}
	return site{file: file, display: displayPath(file), line: line, ok: true}
}

// displayPath shortens file to a path relative to the working directory when
// the file lives below it.
func displayPath(file string) string {
	wd, err := os.Getwd()
	if err != nil {
		return file
	}
	rel, err := filepath.Rel(wd, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return rel
}

func (s site) args(funcName string) *source.Call {
	if !s.ok {
		return nil
	}
	call, err := source.Lookup(s.file, s.line, funcName)
	if err != nil {
		return nil
	}
	return call
}

func (s site) start(name string) *assertion.Asserting {
	b := assertion.That(name)
	if s.ok {
		b.At(s.display, uint32(s.line))
	}
	return b
}

// That asserts that cond holds. Each clue is attached with its source text as
// the label.
func That(cond bool, clues ...any) *assertion.Assertion {
	s := callSite(callerOfAPI)
	call := s.args("That")

	name := "condition"
	if call != nil && len(call.Args) > 0 {
		name = call.Args[0]
	}

	b := s.start(name)
	for i, clue := range clues {
		b.WithClue(clue, clueLabel(call, i))
	}
	return b.IsTrue(cond)
}

func clueLabel(call *source.Call, i int) string {
	// Args[0] is the condition.
	if call == nil || call.Spread || i+1 >= len(call.Args) {
		return fmt.Sprintf("clue[%d]", i)
	}
	return call.Args[i+1]
}

// Equal asserts a == b and attaches both operands as clues.
func Equal[T comparable](a, b T) *assertion.Assertion {
	s := callSite(callerOfAPI)
	left, right := operands(s.args("Equal"))

	return s.start(left+" == "+right).
		WithClue(a, left).
		WithClue(b, right).
		IsTrue(a == b)
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

// DeepEqual asserts that a and b are structurally equal, unexported fields
// included. A failing comparison carries an extra "diff" clue.
func DeepEqual(a, b any) *assertion.Assertion {
	s := callSite(callerOfAPI)
	left, right := operands(s.args("DeepEqual"))

	equal := cmp.Equal(a, b, exportAll)
	result := s.start("DeepEqual("+left+", "+right+")").
		WithClue(a, left).
		WithClue(b, right).
		IsTrue(equal)
	if !equal {
		result.WithClue(strings.TrimSpace(cmp.Diff(a, b, exportAll)), "diff")
	}
	return result
}

func operands(call *source.Call) (string, string) {
	if call == nil || call.Spread || len(call.Args) != 2 {
		return "a", "b"
	}
	return call.Args[0], call.Args[1]
}

// UpdateSnapshotsEnv names the environment variable that switches Snapshot
// to update mode.
const UpdateSnapshotsEnv = "CLUEASSERT_UPDATE_SNAPSHOTS"

var snapshots = sync.OnceValue(func() *snapshot.Manager {
	v := os.Getenv(UpdateSnapshotsEnv)
	return snapshot.NewManager(v == "1" || v == "true" || v == "yes")
})

// Snapshot asserts that actual matches the JSON snapshot stored under key in
// __snapshots__ next to the calling file.
func Snapshot(key string, actual any) *assertion.Assertion {
	s := callSite(callerOfAPI)
	if !s.ok {
		return assertion.That(fmt.Sprintf("snapshot %q matches", key)).
			Errored(fmt.Errorf("caller location unavailable"))
	}
	return snapshots().Match(s.file, &assertion.Location{File: s.display, Line: uint32(s.line)}, key, actual)
}

// Check reports a to t. A failed assertion marks the test as failed with the
// report rendered by style.Plain and Check returns false; the test keeps
// running.
func Check(t testing.TB, a *assertion.Assertion) bool {
	t.Helper()
	if a.Passed() {
		return true
	}
	t.Error("\n" + a.Format(style.Plain()))
	return false
}

// Require is like Check but stops the test on failure.
func Require(t testing.TB, a *assertion.Assertion) {
	t.Helper()
	if !a.Passed() {
		t.Fatal("\n" + a.Format(style.Plain()))
	}
}
