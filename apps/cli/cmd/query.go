package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <report> <path>",
	Short: "Extract a value from a report",
	Long: `Extract a value from a report file with a gjson path.

Examples:
  clueassert query report.json name
  clueassert query report.json 'tests.#.name'
  clueassert query report.json 'tests.0.assertions.#(outcome=="failed")#.name'`,
	Args: cobra.ExactArgs(2),
	RunE: queryCommand,
}

func queryCommand(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: fmt.Errorf("failed to read report: %w", err)}
	}

	value, err := report.Query(data, args[1])
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
