package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abdul-hamid-achik/clueassert/packages/history"
	"github.com/abdul-hamid-achik/clueassert/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyDBFlag    string
	historyLimitFlag int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs saved in the history database",
	Long: `List runs saved with render --history, newest first.

Examples:
  clueassert history --db sqlite://.clueassert/history.db
  clueassert history --limit 5
  clueassert history show 0b6f...`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Render a saved run",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBFlag, "db", getEnvString("CLUEASSERT_HISTORY", ""), "History database (default from config historyDB) (env: CLUEASSERT_HISTORY)")
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.AddCommand(historyShowCmd)
}

func openHistory(cmd *cobra.Command) (*history.Store, error) {
	location := historyDBFlag
	if location == "" {
		location = settings.HistoryDB
	}
	if location == "" {
		return nil, &ExitError{Code: ExitUsageError, Err: fmt.Errorf("no history database: pass --db or set historyDB in the config file")}
	}
	store, err := history.Open(cmd.Context(), location)
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Err: err}
	}
	return store, nil
}

func historyCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tPASSED\tFAILED\tERRORED\tTOTAL")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.ID, r.Name, r.CreatedAt.Local().Format(time.DateTime),
			r.Summary.Passed, r.Summary.Failed, r.Summary.Errored, r.Summary.Total)
	}
	return tw.Flush()
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Run(cmd.Context(), args[0])
	if err != nil {
		return &ExitError{Code: ExitUsageError, Err: err}
	}

	result, err := output.FromDocument("history:"+doc.ID, doc)
	if err != nil {
		return &ExitError{Code: ExitInvalidReport, Err: err}
	}

	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithNoColor(settings.GetNoColor()),
		output.WithOnlyFailed(!settings.GetShowPassed()),
	)
	formatter.FormatResult(result)
	return nil
}
