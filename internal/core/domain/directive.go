package domain

// DirectiveKind classifies a preprocessor directive.
// Dispatch in the expander is a structural switch over this enum
// rather than string comparisons scattered through control flow.
type DirectiveKind int

const (
	// KindPlainLine marks a line that is not a directive at all.
	KindPlainLine DirectiveKind = iota

	// KindInclude splices another module's expanded content.
	KindInclude

	// KindDefine adds a symbol to the pass's symbol set.
	KindDefine

	// KindUndefine removes a symbol from the pass's symbol set.
	KindUndefine

	// KindIf opens a conditional block guarded by a symbol.
	KindIf

	// KindEnd closes the innermost open conditional block.
	KindEnd
)

// String returns the directive keyword as written in source.
func (k DirectiveKind) String() string {
	switch k {
	case KindInclude:
		return "include"
	case KindDefine:
		return "define"
	case KindUndefine:
		return "undefine"
	case KindIf:
		return "if"
	case KindEnd:
		return "end"
	default:
		return "plain"
	}
}

// Directive is one parsed preprocessor instruction extracted from a line.
type Directive struct {
	// Kind classifies the directive.
	Kind DirectiveKind

	// Argument is the remainder of the line, trimmed of surrounding
	// whitespace: a module name for include, a symbol name for
	// define/undefine/if, and an ignored human-readable label for end.
	Argument string

	// SourceLine is the original line the directive was parsed from.
	SourceLine string
}
