package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/clueassert/packages/logging"
	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	diffOutputFlag string
	diffAllFlag    bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-report> <new-report>",
	Short: "Compare two report files",
	Long: `Compare the assertions of two reports and show which ones regressed,
were fixed, appeared or disappeared. Exits with status 1 when any assertion
regressed.

Examples:
  clueassert diff main.json branch.json
  clueassert diff main.json branch.json --all
  clueassert diff main.json branch.json -o json`,
	Args: cobra.ExactArgs(2),
	RunE: diffCommand,
}

func init() {
	diffCmd.Flags().StringVarP(&diffOutputFlag, "output", "o", "console", "Output format: console, json")
	diffCmd.Flags().BoolVar(&diffAllFlag, "all", false, "Also list unchanged assertions")
}

func diffCommand(cmd *cobra.Command, args []string) error {
	oldDoc, err := report.Load(args[0])
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}
	newDoc, err := report.Load(args[1])
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}

	diff := report.Compare(oldDoc, newDoc)
	logger.Debug("compared reports",
		logging.Int("regressed", diff.Counts[report.Regressed]),
		logging.Int("fixed", diff.Counts[report.Fixed]),
	)

	switch strings.ToLower(diffOutputFlag) {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(diff); err != nil {
			return err
		}
	case "console":
		outputDiffConsole(cmd, args[0], args[1], diff)
	default:
		return &ExitError{Code: ExitUsageError, Err: fmt.Errorf("unknown output format %q (use console or json)", diffOutputFlag)}
	}

	if len(diff.Regressions()) > 0 {
		return &ExitError{Code: ExitAssertionFailure}
	}
	return nil
}

func outputDiffConsole(cmd *cobra.Command, file1, file2 string, diff *report.Diff) {
	w := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", bold("Report Comparison"))
	fmt.Fprintf(w, "  %s: %s\n", cyan("Old"), file1)
	fmt.Fprintf(w, "  %s: %s\n\n", cyan("New"), file2)

	fmt.Fprintf(w, "%s\n", bold("Summary"))
	fmt.Fprintf(w, "  Regressed:  %s\n", red(fmt.Sprintf("%d", diff.Counts[report.Regressed])))
	fmt.Fprintf(w, "  Fixed:      %s\n", green(fmt.Sprintf("%d", diff.Counts[report.Fixed])))
	fmt.Fprintf(w, "  Added:      %s\n", cyan(fmt.Sprintf("%d", diff.Counts[report.Added])))
	fmt.Fprintf(w, "  Removed:    %s\n", yellow(fmt.Sprintf("%d", diff.Counts[report.Removed])))
	fmt.Fprintf(w, "  Unchanged:  %d\n\n", diff.Counts[report.Unchanged])

	fmt.Fprintf(w, "%s\n", bold("Details"))
	for _, c := range diff.Comparisons {
		var symbol string
		paint := fmt.Sprint
		switch c.Change {
		case report.Regressed:
			symbol, paint = "↓", red
		case report.Fixed:
			symbol, paint = "↑", green
		case report.Added:
			symbol, paint = "+", cyan
		case report.Removed:
			symbol, paint = "-", yellow
		default:
			if !diffAllFlag {
				continue
			}
			symbol = "="
		}

		fmt.Fprintf(w, "  %s %s / %s  %s\n", paint(symbol), c.Test, c.Name, paint(outcomeTransition(c)))
	}
	fmt.Fprintln(w)
}

func outcomeTransition(c report.Comparison) string {
	switch {
	case c.OldOutcome == "":
		return "(new, " + c.NewOutcome + ")"
	case c.NewOutcome == "":
		return "(removed, was " + c.OldOutcome + ")"
	}
	return c.OldOutcome + " → " + c.NewOutcome
}
