// Package services implements the core use cases behind the driving
// ports: the sync orchestrator that carries one module change through
// expansion and merge, the extractor that seeds module files from
// existing cartridges, and the runner that serialises watcher events
// into sync runs.
package services
