package preprocessor

import "github.com/sulai/p8lua/internal/core/domain"

// Evaluator tracks conditional-block state during one pass over one
// module's text. Each #if pushes a level that is active only when its
// symbol is defined AND the enclosing level is active; #end pops the
// innermost level regardless of its label. There is no cross-matching
// of which symbol opened which block: callers must nest correctly, and
// mismatches are a hard error rather than being silently ignored.
type Evaluator struct {
	stack []bool
}

// NewEvaluator creates an evaluator with no open blocks.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Active reports whether lines at the current position pass through.
// A line outside any open block is always active.
func (e *Evaluator) Active() bool {
	return len(e.stack) == 0 || e.stack[len(e.stack)-1]
}

// Push opens a new conditional level. defined is whether the guarding
// symbol is in the symbol set; the new level is active only when both
// the symbol is defined and the enclosing level is active.
func (e *Evaluator) Push(defined bool) {
	e.stack = append(e.stack, defined && e.Active())
}

// Pop closes the innermost conditional level.
// Returns domain.ErrUnbalancedConditional if no level is open.
func (e *Evaluator) Pop() error {
	if len(e.stack) == 0 {
		return domain.ErrUnbalancedConditional
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

// Open returns the number of levels still open. A non-zero count at
// end of input means an #if was never closed.
func (e *Evaluator) Open() int {
	return len(e.stack)
}
