package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/abdul-hamid-achik/clueassert/packages/style"
	"github.com/abdul-hamid-achik/clueassert/packages/suite"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func sampleResult() *Result {
	math := suite.New("math")
	math.Add(
		assertion.That("one == 1").At("math_test.go", 3).WithClue(1, "one").IsTrue(true),
		assertion.That("one == two").At("math_test.go", 4).WithClue(1, "one").WithClue(2, "two").IsTrue(false),
	)
	io := suite.New("io")
	io.Add(assertion.That("read(path)").WithClue("a.txt", "path").Errored(errors.New("permission denied")))

	return &Result{File: "report.json", ID: "abc", Name: "unit", Tests: []*suite.Test{math, io, suite.New("empty")}}
}

func TestFromDocument(t *testing.T) {
	s := suite.New("t")
	s.Add(assertion.That("x").IsTrue(false))
	doc := report.FromSuites("doc", s)

	result, err := FromDocument("r.json", doc)
	require.NoError(t, err)
	assert.Equal(t, "r.json", result.File)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, suite.Summary{Total: 1, Failed: 1}, result.Summary())
}

func TestConsoleFormatter(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithStyler(style.Plain()))
	f.FormatResult(sampleResult())

	expected := strings.Join([]string{
		"",
		"Report: unit",
		"",
		"  math",
		"    + one == 1",
		"    x one == two",
		"      at math_test.go:4",
		"      one = 1",
		"      two = 2",
		"  io",
		"    x read(path)",
		"      error = permission denied",
		`      path = "a.txt"`,
		"  empty",
		"    (no assertions)",
		"",
		"Assertions: 1 passed, 1 failed, 1 errored, 3 total",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestConsoleFormatter_OnlyFailedAndVerbose(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf), WithStyler(style.Plain()), WithOnlyFailed(true), WithVerbose(true))
	f.FormatResult(sampleResult())

	out := buf.String()
	assert.Contains(t, out, "(report.json, id abc)")
	assert.NotContains(t, out, "+ one == 1")
	assert.Contains(t, out, "x one == two")
	assert.Contains(t, out, "3 total")
}

func TestConsoleFormatter_ErrorAndHeader(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	f := NewConsoleFormatter(WithWriter(&buf))
	f.FormatHeader("v1.2.3")
	f.FormatError(errors.New("bad file"))

	assert.Equal(t, "clueassert v1.2.3\nError: bad file\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(JSONWithWriter(&buf))
	f.FormatResult(sampleResult())
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(1500*time.Millisecond))

	var out JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, JSONSummary{Total: 6, Passed: 2, Failed: 2, Errored: 2}, out.Summary)
	assert.Equal(t, float64(1500), out.Duration)
	require.Len(t, out.Reports, 2)
	require.Len(t, out.Reports[0].Tests, 3)

	failed := out.Reports[0].Tests[0].Assertions[1]
	assert.Equal(t, JSONAssertion{
		Name:     "one == two",
		Location: "at math_test.go:4",
		Outcome:  "failed",
		Clues:    []string{"one = 1", "two = 2"},
	}, failed)
	assert.Equal(t, "permission denied", out.Reports[0].Tests[1].Assertions[0].Error)
	assert.True(t, out.Reports[0].Tests[2].Passed)
}

func TestTAPFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewTAPFormatter(TAPWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	expected := strings.Join([]string{
		"TAP version 13",
		"1..3",
		"ok 1 - math: one == 1",
		"not ok 2 - math: one == two",
		"  ---",
		"  severity: fail",
		`  at: "math_test.go:4"`,
		"  clues:",
		"    - one = 1",
		"    - two = 2",
		"  ...",
		"not ok 3 - io: read(path)",
		"  ---",
		"  message: permission denied",
		"  severity: error",
		"  clues:",
		`    - "path = \"a.txt\""`,
		"  ...",
		"",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestEscapeYAML(t *testing.T) {
	assert.Equal(t, "plain", escapeYAML("plain"))
	assert.Equal(t, `"a: b"`, escapeYAML("a: b"))
	assert.Equal(t, `"line\nbreak"`, escapeYAML("line\nbreak"))
}

func TestJUnitFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJUnitFormatter(JUnitWithWriter(&buf))
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(2*time.Second))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"))

	var suites JUnitTestSuites
	require.NoError(t, xml.Unmarshal([]byte(strings.SplitN(out, "\n", 2)[1]), &suites))

	assert.Equal(t, "clueassert", suites.Name)
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Errors)
	require.Len(t, suites.TestSuites, 3)

	math := suites.TestSuites[0]
	assert.Equal(t, "math", math.Name)
	require.Len(t, math.TestCases, 2)
	assert.Nil(t, math.TestCases[0].Failure)
	require.NotNil(t, math.TestCases[1].Failure)
	assert.Equal(t, "x one == two\n  at math_test.go:4\n  one = 1\n  two = 2\n", math.TestCases[1].Failure.Content)
	assert.Equal(t, "math_test.go", math.TestCases[1].File)
	assert.Equal(t, uint32(4), math.TestCases[1].Line)

	io := suites.TestSuites[1]
	require.NotNil(t, io.TestCases[0].Error)
	assert.Equal(t, "permission denied", io.TestCases[0].Error.Message)
}

func TestHTMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewHTMLFormatter(HTMLWithWriter(&buf))
	f.FormatHeader("v0.1.0")
	f.FormatResult(sampleResult())
	require.NoError(t, f.Flush(time.Second))

	out := buf.String()
	assert.Contains(t, out, "clueassert v0.1.0")
	assert.Contains(t, out, "one == two")
	assert.Contains(t, out, "at math_test.go:4")
	assert.Contains(t, out, "error = permission denied")
	assert.Contains(t, out, "path = &#34;a.txt&#34;")
}
