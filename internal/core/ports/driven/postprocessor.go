package driven

import (
	"context"

	"github.com/sulai/p8lua/internal/core/domain"
)

// PostProcessor transforms expanded text before it is merged into the
// cartridge. Processors are chained in a pipeline and each decides from
// the pass's symbol set whether it applies (e.g. comment stripping only
// runs when "removecommentssingle" was defined).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Active reports whether this processor applies for the given
	// symbol set.
	Active(symbols domain.SymbolSet) bool

	// Process transforms the text and returns the result.
	Process(ctx context.Context, text string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the text through every processor whose Active
	// reports true, in registration order.
	Process(ctx context.Context, text string, symbols domain.SymbolSet) (string, error)
}
