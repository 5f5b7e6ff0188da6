package preprocessor

import (
	"context"
	"fmt"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// Ensure Expander implements the interface.
var _ driven.Expander = (*Expander)(nil)

// Expander composes directive parsing, conditional evaluation and
// include resolution into a single pass producing expanded text for
// one module.
type Expander struct {
	modules driven.ModuleStore
	marker  string
	symbols []string
}

// Option configures an Expander.
type Option func(*Expander)

// WithMarker sets the two-character directive marker (default "--").
func WithMarker(marker string) Option {
	return func(e *Expander) {
		if marker != "" {
			e.marker = marker
		}
	}
}

// WithSymbols seeds every pass's symbol set, as if each listed symbol
// had been defined before the module's first line.
func WithSymbols(symbols ...string) Option {
	return func(e *Expander) {
		e.symbols = append(e.symbols, symbols...)
	}
}

// New creates an expander that resolves includes through the given
// module store.
func New(modules driven.ModuleStore, opts ...Option) *Expander {
	e := &Expander{
		modules: modules,
		marker:  DefaultMarker,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand runs one top-level expansion pass over the named module.
// A fresh ExpansionContext is created for the pass and discarded when
// it completes; defined symbols never leak across runs.
func (e *Expander) Expand(ctx context.Context, module string) (*driven.ExpandResult, error) {
	ectx := domain.NewExpansionContext(module, e.symbols...)

	text, err := e.expand(ctx, module, ectx)
	if err != nil {
		return nil, err
	}

	return &driven.ExpandResult{
		Text:    text,
		Symbols: ectx.Symbols,
	}, nil
}

// expand processes one module's lines in order. Includes recurse into
// this function sharing the same context, so a #define earlier in the
// including module affects conditionals inside the included one.
// Conditional state is per module: an #if must be closed in the module
// that opened it.
func (e *Expander) expand(ctx context.Context, module string, ectx *domain.ExpansionContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mod, err := e.modules.Get(ctx, module)
	if err != nil {
		return "", fmt.Errorf("module %q: %w", module, err)
	}

	var out strings.Builder
	cond := NewEvaluator()

	for _, line := range splitLines(mod.Content) {
		directive := ParseLine(line, e.marker)

		switch directive.Kind {
		case domain.KindPlainLine:
			if cond.Active() {
				out.WriteString(line)
				out.WriteByte('\n')
			}

		case domain.KindDefine:
			if cond.Active() {
				ectx.Symbols.Define(directive.Argument)
			}

		case domain.KindUndefine:
			if cond.Active() {
				ectx.Symbols.Undefine(directive.Argument)
			}

		case domain.KindIf:
			cond.Push(ectx.Symbols.Defined(directive.Argument))

		case domain.KindEnd:
			if err := cond.Pop(); err != nil {
				return "", fmt.Errorf("module %q: #end without #if: %w", module, err)
			}

		case domain.KindInclude:
			if !cond.Active() {
				continue
			}
			included, err := e.include(ctx, module, directive.Argument, ectx)
			if err != nil {
				return "", err
			}
			out.WriteString(included)
		}
	}

	if open := cond.Open(); open > 0 {
		return "", fmt.Errorf("module %q: %d #if block(s) not closed: %w",
			module, open, domain.ErrUnbalancedConditional)
	}

	return out.String(), nil
}

// include expands the target module in place of the directive line.
// The cycle check runs before recursing, so a self-referential chain is
// reported precisely rather than after a depth budget runs out.
func (e *Expander) include(ctx context.Context, from, target string, ectx *domain.ExpansionContext) (string, error) {
	if target == "" {
		return "", fmt.Errorf("module %q: #include without module name: %w", from, domain.ErrInvalidInput)
	}

	if ectx.Expanding(target) {
		return "", fmt.Errorf("module %q includes %q which is already being expanded: %w",
			from, target, domain.ErrCyclicInclude)
	}

	ectx.Enter(target)
	defer ectx.Leave(target)

	return e.expand(ctx, target, ectx)
}

// splitLines splits module text into lines without terminators.
// A trailing newline does not produce a phantom empty line, and CRLF
// input is tolerated by dropping the carriage return.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
