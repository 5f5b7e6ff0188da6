// Package postprocessors provides transforms applied to expanded text
// before it is merged into the cartridge. Each processor is activated
// by a preprocessor symbol (e.g. "--#define removecomments"), so a
// module opts into transforms from inside its own source.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
	"github.com/sulai/p8lua/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline chains multiple PostProcessors and runs them in order.
type Pipeline struct {
	processors []driven.PostProcessor
}

// NewPipeline creates a new processing pipeline with the given
// processors. Processors are executed in the order provided.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the text through every processor whose Active reports
// true for the pass's symbol set. Inactive processors are skipped
// without touching the text.
func (p *Pipeline) Process(ctx context.Context, text string, symbols domain.SymbolSet) (string, error) {
	for _, processor := range p.processors {
		if !processor.Active(symbols) {
			continue
		}
		logger.Debug("post-processing with %s", processor.Name())

		var err error
		text, err = processor.Process(ctx, text)
		if err != nil {
			return "", fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return text, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
