package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/spf13/cobra"
)

var listFailedFlag bool

var listCmd = &cobra.Command{
	Use:   "list <report|directory>...",
	Short: "List the tests in report files",
	Long: `List the tests recorded in report files with their assertion counts.

Examples:
  clueassert list clueassert-report.json
  clueassert list ./reports/ --failed`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func init() {
	listCmd.Flags().BoolVar(&listFailedFlag, "failed", false, "List only the names of assertions that did not pass")
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}

	if len(files) == 0 {
		return &ExitError{Code: ExitInvalidReport, Err: fmt.Errorf("no .json report files found")}
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error reading %s: %v\n", file, err)
			continue
		}
		doc, err := report.Parse(data)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		if listFailedFlag {
			for _, name := range report.FailedNames(data) {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
			}
			continue
		}

		for _, t := range doc.Tests {
			passed := 0
			for _, a := range t.Assertions {
				if a.Outcome == "passed" {
					passed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%d/%d passed)\n", t.Name, passed, len(t.Assertions))
		}
	}

	return nil
}
