package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage p8lua configuration",
	Long: `View and change p8lua settings.

Keys:
  marker            directive marker (default "--")
  section           target cartridge section (default "lua")
  module_suffix     module file suffix (default ".lua")
  cartridge_suffix  cartridge file suffix (default ".p8")
  dirs              directories to search and watch (default ["."])
  symbols           symbols defined for every run
  debounce_ms       watch debounce window in milliseconds
  history.enabled   record sync runs in the history store
  history.keep      runs retained per cartridge`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>...",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately. Multiple
values form a list ('p8lua config set dirs carts lib'). Booleans and
integers are detected from the value.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// configKeys is the display order for 'config show'.
var configKeys = []string{
	keyMarker,
	keySection,
	keyModuleSuffix,
	keyCartridgeSuffix,
	keyDirs,
	keySymbols,
	keyPostProcessors,
	keyDebounceMs,
	keyHistoryEnabled,
	keyHistoryKeep,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s)\n", configStore.Path())
	for _, key := range configKeys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-18s (default)\n", key)
			continue
		}
		cmd.Printf("  %-18s %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if err := configStore.Set(key, parseConfigValue(args[1:])); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}
	cmd.Println(configStore.Path())
	return nil
}

// parseConfigValue turns command arguments into a typed config value.
func parseConfigValue(values []string) any {
	if len(values) > 1 {
		return values
	}

	value := values[0]
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return value
}
