package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Create module files from cartridges",
	Long: `Creates a module file for every cartridge that does not have one
yet, seeded with the cartridge's __lua__ section. Existing module
files are never overwritten.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	if extractorService == nil {
		return errors.New("extract service not configured")
	}

	created, err := extractorService.ExtractAll(context.Background())
	if err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}

	if len(created) == 0 {
		cmd.Println("All cartridges already have module files.")
		return nil
	}

	for _, name := range created {
		cmd.Printf("Created module: %s\n", name)
	}
	cmd.Printf("%d module(s) created.\n", len(created))
	return nil
}
