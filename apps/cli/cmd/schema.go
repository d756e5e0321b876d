package cmd

import (
	"github.com/abdul-hamid-achik/clueassert/packages/report"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of report files",
	Long:  "Print the JSON schema that validate and render check report files against.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cmd.OutOrStdout().Write(report.Schema())
		return err
	},
}
