package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report|directory>...",
	Short: "Validate report files against the report schema",
	Long: `Validate report files against the report JSON schema without rendering them.

Examples:
  clueassert validate clueassert-report.json
  clueassert validate ./reports/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}

	if len(files) == 0 {
		return &ExitError{Code: ExitInvalidReport, Err: fmt.Errorf("no .json report files found")}
	}

	hasErrors := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			err = report.Validate(data)
		}
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s\n", file)
			continue
		}

		hasErrors = true
		var ve *report.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(cmd.OutOrStderr(), "Invalid: %s\n", file)
			for _, msg := range ve.Errors {
				fmt.Fprintf(cmd.OutOrStderr(), "  - %s\n", msg)
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStderr(), "Error in %s: %v\n", file, err)
	}

	if hasErrors {
		return &ExitError{Code: ExitInvalidReport, Err: fmt.Errorf("validation failed")}
	}

	return nil
}
