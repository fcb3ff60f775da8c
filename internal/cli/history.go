package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/samvad-api-client/internal/app"
	"github.com/samvad-hq/samvad-api-client/internal/config"
)

var (
	// History command flags
	historyLimit int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [flags]",
	Short: "Show recently dispatched calls",
	Long: `Show recently dispatched calls from the local journal, newest first.
Failed calls carry the error instead of a status code.

Examples:
  # Show the most recent calls
  apicall history

  # Show the last fifty calls
  apicall history --limit 50

  # Show history in JSON format
  apicall history -j`,
	Args: cobra.NoArgs,
	RunE: showHistory,
}

// showHistory reads the call journal and prints recent entries
func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := app.OpenHistory(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(historyLimit)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(records)
		return nil
	}
	if len(records) == 0 {
		fmt.Println("history is empty")
		return nil
	}

	for _, rec := range records {
		ts := rec.StartedAt.Local().Format("2006-01-02 15:04:05")
		if rec.Failed() {
			errorLabel.Printf("%s  %-6s %-20s FAIL  %s\n", ts, rec.Method, rec.Endpoint, rec.Err)
			continue
		}
		fmt.Printf("%s  %-6s %-20s %d  %dms\n", ts, rec.Method, rec.Endpoint, rec.StatusCode, rec.DurationMS)
	}
	return nil
}

// init initializes the history command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(historyCmd)

	// Add flags
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show")
}
