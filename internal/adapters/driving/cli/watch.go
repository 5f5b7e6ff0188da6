package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sulai/p8lua/internal/core/services"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch module directories and sync on change",
	Long: `Watches the configured directories for module changes and
synchronises the matching cartridge after every save. New cartridges
get a module file extracted for them. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if syncOrchestrator == nil {
		return errors.New("sync service not configured")
	}

	watcher, err := newWatcher()
	if err != nil {
		return err
	}

	runner := services.NewRunner(watcher, syncOrchestrator, extractorService, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cmd.Println("\nStopping...")
		cancel()
	}()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")
	if err := runner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return runner.Stop()
}
