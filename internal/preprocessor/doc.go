// Package preprocessor implements the macro-expansion engine: directive
// parsing, conditional-block evaluation and recursive include
// resolution, composed into a single pass over a module's text.
//
// The engine is a dumb text machine. It does not parse or validate the
// Lua it emits; it only recognises whole lines that start (after
// leading whitespace) with the directive marker, e.g.
//
//	--#include lib/collisions
//	--#define debug
//	--#undefine debug
//	--#if debug
//	--#end debug
//
// Expansion is deterministic and idempotent for fixed inputs: the merge
// step compares output across runs and relies on byte-identical results
// for unchanged sources.
package preprocessor
