package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/assertion"
	"github.com/abdul-hamid-achik/clueassert/packages/style"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one suite of a report
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single assertion
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr,omitempty"`
	Line      uint32        `xml:"line,attr,omitempty"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents a failed assertion
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents an errored assertion
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats assertion reports as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatResult(result *Result) {
	for _, t := range result.Tests {
		assertions := t.Assertions()
		suite := JUnitTestSuite{
			Name:      t.Name,
			Tests:     len(assertions),
			Timestamp: time.Now().Format(time.RFC3339),
			TestCases: make([]JUnitTestCase, 0, len(assertions)),
		}

		for _, a := range assertions {
			suite.TestCases = append(suite.TestCases, junitCase(t.Name, a))
			switch a.Value().Kind() {
			case assertion.Passed:
			case assertion.Errored:
				suite.Errors++
			default:
				suite.Failures++
			}
		}

		f.testSuites = append(f.testSuites, suite)
	}
}

func junitCase(className string, a *assertion.Assertion) JUnitTestCase {
	tc := JUnitTestCase{
		Name:      a.Name(),
		ClassName: className,
	}
	if loc, ok := a.At(); ok {
		tc.File = loc.File
		tc.Line = loc.Line
	}
	if a.Passed() {
		return tc
	}

	content := a.Format(style.Plain())
	if err := a.Value().Err(); err != nil {
		tc.Error = &JUnitError{
			Message: err.Error(),
			Type:    "Error",
			Content: content,
		}
		return tc
	}
	tc.Failure = &JUnitFailure{
		Message: "Assertion failed",
		Type:    "AssertionError",
		Content: content,
	}
	return tc
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	var totalTests, totalFailures, totalErrors int
	for _, suite := range f.testSuites {
		totalTests += suite.Tests
		totalFailures += suite.Failures
		totalErrors += suite.Errors
	}

	suites := JUnitTestSuites{
		Name:       "clueassert",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
