package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/clueassert/packages/style"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer     io.Writer
	verbose    bool
	noColor    bool
	onlyFailed bool
	styler     style.Styler
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	if f.styler == nil {
		f.styler = style.Default()
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// WithOnlyFailed hides passed assertions; the summary still counts them.
func WithOnlyFailed(only bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.onlyFailed = only
	}
}

// WithStyler replaces the styler chosen from the color settings.
func WithStyler(s style.Styler) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.styler = s
	}
}

// indent prefixes every non-empty line of text.
func indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		sb.WriteString(prefix)
		sb.WriteString(line)
	}
	return sb.String()
}

func (f *ConsoleFormatter) FormatResult(result *Result) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	title := result.Name
	if title == "" {
		title = result.File
	}
	fmt.Fprintf(f.writer, "\n%s\n", bold("Report: "+title))
	if f.verbose {
		fmt.Fprintf(f.writer, "%s\n", cyan(fmt.Sprintf("(%s, id %s)", result.File, result.ID)))
	}
	fmt.Fprintf(f.writer, "\n")

	for _, t := range result.Tests {
		assertions := t.Assertions()
		fmt.Fprintf(f.writer, "  %s\n", bold(t.Name))
		if len(assertions) == 0 {
			fmt.Fprintf(f.writer, "    %s\n", yellow("(no assertions)"))
			continue
		}
		for _, a := range assertions {
			if f.onlyFailed && a.Passed() {
				continue
			}
			fmt.Fprint(f.writer, indent(a.Format(f.styler), "    "))
		}
	}

	s := result.Summary()
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Assertions: ")
	if s.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Errored > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d errored", s.Errored)))
	}
	fmt.Fprintf(f.writer, "%d total\n", s.Total)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("clueassert"), version)
}
