package driven

import (
	"context"

	"github.com/sulai/p8lua/internal/core/domain"
)

// ExpandResult is the outcome of one macro-expansion pass.
type ExpandResult struct {
	// Text is the fully expanded text, one '\n'-terminated line per
	// emitted source line.
	Text string

	// Symbols is the symbol set as it stood when the pass finished.
	// Post-processors inspect it for activation symbols such as
	// "removecomments".
	Symbols domain.SymbolSet
}

// Expander runs the macro-expansion pass over one module: directive
// parsing, include resolution and conditional evaluation in a single
// deterministic sweep. Expanding unchanged input twice yields
// byte-identical output; the merge step relies on this.
type Expander interface {
	// Expand expands the named module with a fresh ExpansionContext.
	// Fails with domain.ErrModuleNotFound, domain.ErrCyclicInclude or
	// domain.ErrUnbalancedConditional.
	Expand(ctx context.Context, module string) (*ExpandResult, error)
}
