// Package cli implements the p8lua command line interface.
package cli

import (
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/sulai/p8lua/internal/adapters/driven/config/file"
	storagefile "github.com/sulai/p8lua/internal/adapters/driven/storage/file"
	"github.com/sulai/p8lua/internal/adapters/driven/storage/sqlite"
	"github.com/sulai/p8lua/internal/adapters/driven/watch"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/core/ports/driving"
	"github.com/sulai/p8lua/internal/core/services"
	"github.com/sulai/p8lua/internal/logger"
	"github.com/sulai/p8lua/internal/postprocessors"
	"github.com/sulai/p8lua/internal/preprocessor"
)

// version is set at build time via -ldflags.
var version = "dev"

// Configuration keys.
const (
	keyMarker          = "marker"
	keySection         = "section"
	keyModuleSuffix    = "module_suffix"
	keyCartridgeSuffix = "cartridge_suffix"
	keyDirs            = "dirs"
	keySymbols         = "symbols"
	keyPostProcessors  = "postprocessors"
	keyDebounceMs      = "debounce_ms"
	keyHistoryEnabled  = "history.enabled"
	keyHistoryKeep     = "history.keep"
)

// defaultHistoryKeep bounds retained runs per cartridge when
// history.keep is unset.
const defaultHistoryKeep = 100

// Flags.
var (
	verbose   bool
	configDir string
)

// Wired services, populated by initialiseApp.
var (
	configStore      *configfile.ConfigStore
	moduleStore      *storagefile.ModuleStore
	cartridgeStore   *storagefile.CartridgeStore
	historyStore     driven.HistoryStore
	syncOrchestrator driving.SyncOrchestrator
	extractorService driving.Extractor
)

var rootCmd = &cobra.Command{
	Use:   "p8lua",
	Short: "Keep PICO-8 cartridges in sync with external Lua modules",
	Long: `p8lua lets you write PICO-8 code in standalone Lua files with
include and conditional directives, and splices the expanded result
into the __lua__ section of the matching .p8 cartridge. All other
cartridge sections are preserved byte for byte.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if syncOrchestrator != nil {
			// Already wired (tests inject their own services).
			return nil
		}
		return initialiseApp()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		shutdownApp()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.p8lua)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// initialiseApp wires the stores, engines and services from
// configuration. Called before every command.
func initialiseApp() error {
	var err error
	configStore, err = configfile.NewConfigStore(configDir)
	if err != nil {
		return err
	}

	dirs := configStore.GetStringSlice(keyDirs)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	moduleStore = storagefile.NewModuleStore(dirs, configStore.GetString(keyModuleSuffix))
	cartridgeStore = storagefile.NewCartridgeStore(dirs, configStore.GetString(keyCartridgeSuffix))

	historyKeep := 0
	if configStore.GetBool(keyHistoryEnabled) {
		store, err := sqlite.NewStore(historyDataDir())
		if err != nil {
			return err
		}
		historyStore = store.HistoryStore()
		historyKeep = configStore.GetInt(keyHistoryKeep)
		if historyKeep <= 0 {
			historyKeep = defaultHistoryKeep
		}
	}

	var opts []preprocessor.Option
	if marker := configStore.GetString(keyMarker); marker != "" {
		opts = append(opts, preprocessor.WithMarker(marker))
	}
	if symbols := configStore.GetStringSlice(keySymbols); len(symbols) > 0 {
		opts = append(opts, preprocessor.WithSymbols(symbols...))
	}
	expander := preprocessor.New(moduleStore, opts...)

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	section := configStore.GetString(keySection)
	syncOrchestrator = services.NewSyncOrchestrator(
		moduleStore,
		cartridgeStore,
		expander,
		pipeline,
		historyStore,
		section,
		historyKeep,
	)
	extractorService = services.NewExtractor(moduleStore, cartridgeStore, section)

	return nil
}

// historyDataDir resolves where the history database lives. With
// --config it sits next to the config file, so a custom config
// directory keeps all state together; otherwise the store's own
// ~/.p8lua/data default applies.
func historyDataDir() string {
	if configDir == "" {
		return ""
	}
	return filepath.Join(configDir, "data")
}

// shutdownApp releases anything initialiseApp opened.
func shutdownApp() {
	if historyStore != nil {
		if err := historyStore.Close(); err != nil {
			logger.Warn("Failed to close history store: %v", err)
		}
		historyStore = nil
	}
}

// newPipeline builds the post-processing pipeline. When the
// postprocessors key lists processor names, only those are built, in
// the listed order; otherwise every built-in processor is available
// and the activation symbols decide what runs.
func newPipeline() (*postprocessors.Pipeline, error) {
	names := configStore.GetStringSlice(keyPostProcessors)
	if len(names) == 0 {
		return postprocessors.DefaultPipeline(), nil
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	pipeline := postprocessors.NewPipeline()
	for _, name := range names {
		processor, err := registry.Build(name, nil)
		if err != nil {
			return nil, err
		}
		pipeline.Add(processor)
	}
	return pipeline, nil
}

// newWatcher builds the filesystem watcher from configuration.
func newWatcher() (driven.ChangeWatcher, error) {
	dirs := configStore.GetStringSlice(keyDirs)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	cartSuffix := configStore.GetString(keyCartridgeSuffix)
	if cartSuffix == "" {
		cartSuffix = storagefile.DefaultCartridgeSuffix
	}
	debounce := time.Duration(configStore.GetInt(keyDebounceMs)) * time.Millisecond

	return watch.NewWatcher(dirs, cartSuffix, moduleStore.NameFor, debounce)
}
