package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [module]",
	Short: "Synchronise modules into their cartridges",
	Long: `Expands module files and splices the result into the __lua__ section
of the matching cartridges. If a module name is provided, only that
module is synchronised. Otherwise, every cartridge with a matching
module file is synchronised.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		module := args[0]
		cmd.Printf("Synchronising module: %s...\n", module)

		if err := syncOrchestrator.Sync(ctx, module); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Printf("Module %s synchronised successfully.\n", module)
	} else {
		cmd.Println("Synchronising all modules...")

		if err := syncOrchestrator.SyncAll(ctx); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Println("All modules synchronised successfully.")
	}

	return nil
}
