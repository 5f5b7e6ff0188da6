package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sulai/p8lua/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [module]",
	Short: "Show recent sync runs",
	Long: `Shows the most recent sync runs, newest first. If a module name is
provided, only runs for that module are shown. Requires history to be
enabled ('p8lua config set history.enabled true').`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyStore == nil {
		return fmt.Errorf("%w; run 'p8lua config set history.enabled true'", domain.ErrHistoryUnavailable)
	}

	module := ""
	if len(args) > 0 {
		module = args[0]
	}

	runs, err := historyStore.Recent(context.Background(), module, historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No sync runs recorded.")
		return nil
	}

	for _, run := range runs {
		status := "ok"
		if !run.Success {
			status = "FAILED"
		}
		cmd.Printf("%s  %-6s  %-20s  %s", run.StartedAt.Local().Format("2006-01-02 15:04:05"), status, run.Module, run.Cartridge)
		if run.Success {
			cmd.Printf("  %d bytes", run.BytesWritten)
		} else {
			cmd.Printf("  %s", run.Error)
		}
		cmd.Println()
	}
	return nil
}
