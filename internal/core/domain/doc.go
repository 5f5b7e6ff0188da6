// Package domain defines the core business entities for p8lua.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Module: An externally edited source text file
//   - Directive: A parsed preprocessor instruction
//   - SymbolSet: The symbols defined during one expansion pass
//   - ExpansionContext: Transient state for one expansion pass
//   - ChangeEvent: A module change notification from the watcher
//   - SyncResult: The recorded outcome of one sync run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
