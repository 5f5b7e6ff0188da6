package preprocessor

import (
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
)

// DefaultMarker is the comment-start sequence that introduces
// directives. PICO-8 Lua comments start with "--", so directive lines
// read as ordinary comments to the console.
const DefaultMarker = "--"

// ParseLine classifies one line of module text. A line is a directive
// only if, after stripping leading whitespace, it starts with the
// marker immediately followed by '#' and a recognised keyword. The
// keyword must be delimited by whitespace or end-of-line, so
// "--#iffy" is content, not a malformed #if. Anything that merely
// resembles a directive passes through as a plain line.
func ParseLine(line, marker string) domain.Directive {
	trimmed := strings.TrimLeft(line, " \t")

	prefix := marker + "#"
	if !strings.HasPrefix(trimmed, prefix) {
		return domain.Directive{Kind: domain.KindPlainLine, SourceLine: line}
	}

	body := trimmed[len(prefix):]
	keyword, rest := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		keyword, rest = body[:i], body[i+1:]
	}

	kind, ok := keywordKind(keyword)
	if !ok {
		return domain.Directive{Kind: domain.KindPlainLine, SourceLine: line}
	}

	return domain.Directive{
		Kind:       kind,
		Argument:   strings.TrimSpace(rest),
		SourceLine: line,
	}
}

// keywordKind maps a directive keyword to its kind.
func keywordKind(keyword string) (domain.DirectiveKind, bool) {
	switch keyword {
	case "include":
		return domain.KindInclude, true
	case "define":
		return domain.KindDefine, true
	case "undefine":
		return domain.KindUndefine, true
	case "if":
		return domain.KindIf, true
	case "end":
		return domain.KindEnd, true
	default:
		return domain.KindPlainLine, false
	}
}
