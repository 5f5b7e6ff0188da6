package domain

// SymbolSet holds the symbol names considered defined during one
// expansion pass. Definitions take effect from their point of occurrence
// onward, including into modules included after the define.
type SymbolSet map[string]struct{}

// NewSymbolSet creates a symbol set pre-populated with the given symbols.
func NewSymbolSet(symbols ...string) SymbolSet {
	s := make(SymbolSet, len(symbols))
	for _, sym := range symbols {
		s.Define(sym)
	}
	return s
}

// Define marks a symbol as defined.
func (s SymbolSet) Define(symbol string) {
	s[symbol] = struct{}{}
}

// Undefine removes a symbol. Removing an unknown symbol is a no-op.
func (s SymbolSet) Undefine(symbol string) {
	delete(s, symbol)
}

// Defined reports whether a symbol is currently defined.
func (s SymbolSet) Defined(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// ExpansionContext is the transient state for one top-level expansion
// pass. A fresh context is created per change event and discarded when
// the pass completes; no state survives across runs.
type ExpansionContext struct {
	// Symbols is the pass's symbol set, shared across includes so a
	// define earlier in the including module affects conditionals
	// inside the included module.
	Symbols SymbolSet

	// Depth is the current include-recursion depth, for diagnostics.
	Depth int

	// expanding tracks the modules in the active include call chain.
	// It is the cycle guard: a module already present here must not be
	// entered again.
	expanding map[string]struct{}
}

// NewExpansionContext creates a context for expanding the named root
// module, seeding the symbol set with any pre-defined symbols.
func NewExpansionContext(rootModule string, symbols ...string) *ExpansionContext {
	return &ExpansionContext{
		Symbols:   NewSymbolSet(symbols...),
		expanding: map[string]struct{}{rootModule: {}},
	}
}

// Expanding reports whether the named module is already being expanded
// somewhere in the active call chain.
func (c *ExpansionContext) Expanding(name string) bool {
	_, ok := c.expanding[name]
	return ok
}

// Enter records that expansion of the named module has begun.
// Callers must check Expanding first; Enter does not.
func (c *ExpansionContext) Enter(name string) {
	c.expanding[name] = struct{}{}
	c.Depth++
}

// Leave records that expansion of the named module has finished,
// allowing it to be included again on a sibling branch.
func (c *ExpansionContext) Leave(name string) {
	delete(c.expanding, name)
	c.Depth--
}
