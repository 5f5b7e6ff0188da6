// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ModuleStore: Reads module source text by symbolic name
//   - CartridgeStore: Reads and atomically replaces cartridge files
//   - Expander: Runs the macro-expansion pass over one module
//   - PostProcessorPipeline: Transforms expanded text before merge
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Sync run persistence. Without it, runs are not recorded
//     and `p8lua history` has nothing to show.
//   - ChangeWatcher: Filesystem change notifications. Only the watch
//     command needs one; one-shot sync does not.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or engine package
package driven
