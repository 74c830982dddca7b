package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vsu-automation/pwrun/packages/history"
	"github.com/vsu-automation/pwrun/packages/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous test sessions",
	Long: `List the sessions recorded by "pwrun run", most recent first.

Examples:
  pwrun history
  pwrun history --limit 5 --output json`,
	Args: cobra.NoArgs,
	RunE: historyCommand,
}

var (
	historyLimitFlag  int
	historyOutputFlag string
	historyPathFlag   string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", getEnvInt("PWRUN_HISTORY_LIMIT", 20), "Number of sessions to show, 0 for all (env: PWRUN_HISTORY_LIMIT)")
	historyCmd.Flags().StringVarP(&historyOutputFlag, "output", "o", "table", "Output format: table, json")
	historyCmd.Flags().StringVar(&historyPathFlag, "history-db", getEnvString("PWRUN_HISTORY_DB", history.DefaultPath), "Run history database (env: PWRUN_HISTORY_DB)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(historyPathFlag); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
		return nil
	}

	store, err := history.Open(historyPathFlag)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	return output.WriteHistory(cmd.OutOrStdout(), historyOutputFlag, entries)
}
