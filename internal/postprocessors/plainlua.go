package postprocessors

import (
	"context"
	"regexp"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// SymbolPlainLua activates conversion of PICO-8 shorthand into plain
// Lua, for editors and tooling that only understand the real language.
const SymbolPlainLua = "plainlua"

// operand matches the left/right side of the shorthand operators:
// identifiers, table fields, index expressions and simple literals.
const operand = `[\w.\[\]/*+-]+`

var (
	notEqualRE     = regexp.MustCompile(`(` + operand + `)(\s*)!=(\s*)([\w"']+)`)
	slashCommentRE = regexp.MustCompile(`(\s+)//(\s*)`)
	ifShorthandRE  = regexp.MustCompile(`^(\s*)if\s*\(`)

	// compoundOps are handled in a fixed order so output stays
	// deterministic across runs.
	compoundOps = []string{"+", "-", "*", "/", "%"}

	compoundREs = func() map[string]*regexp.Regexp {
		res := make(map[string]*regexp.Regexp, len(compoundOps))
		for _, op := range compoundOps {
			res[op] = regexp.MustCompile(
				`(` + operand + `)\s*` + regexp.QuoteMeta(op) + `=\s*([\w"']+)`)
		}
		return res
	}()
)

// Ensure PlainLuaConverter implements the interface.
var _ driven.PostProcessor = (*PlainLuaConverter)(nil)

// PlainLuaConverter rewrites PICO-8 specific syntax into plain Lua:
// compound assignment operators, "!=", the single-line if shorthand
// and "//" comments.
type PlainLuaConverter struct{}

// NewPlainLuaConverter creates a plain-Lua converter.
func NewPlainLuaConverter() *PlainLuaConverter {
	return &PlainLuaConverter{}
}

// Name returns the processor name.
func (p *PlainLuaConverter) Name() string {
	return "plain_lua"
}

// Active reports whether the activation symbol was defined.
func (p *PlainLuaConverter) Active(symbols domain.SymbolSet) bool {
	return symbols.Defined(SymbolPlainLua)
}

// Process applies all conversions in a fixed order.
func (p *PlainLuaConverter) Process(_ context.Context, text string) (string, error) {
	for _, op := range compoundOps {
		text = compoundREs[op].ReplaceAllString(text, "${1}=${1} "+op+" ${2}")
	}

	text = notEqualRE.ReplaceAllString(text, "${1}${2}~=${3}${4}")
	text = convertIfShorthand(text)
	text = slashCommentRE.ReplaceAllString(text, "${1}--${2}")

	return text, nil
}

// convertIfShorthand rewrites "if (cond) stmt" lines without a "then"
// into a three-line if/then/end block, keeping the line's indentation.
func convertIfShorthand(text string) string {
	var out strings.Builder

	for _, raw := range strings.SplitAfter(text, "\n") {
		if raw == "" {
			continue
		}

		terminator := ""
		content := raw
		if strings.HasSuffix(content, "\n") {
			terminator = "\n"
			content = strings.TrimSuffix(content, "\n")
		}

		m := ifShorthandRE.FindStringSubmatch(content)
		if m == nil || strings.Contains(content, "then") {
			out.WriteString(raw)
			continue
		}

		cond, stmt, ok := splitIfCondition(content)
		if !ok || strings.TrimSpace(stmt) == "" {
			out.WriteString(raw)
			continue
		}

		indent := m[1]
		out.WriteString(indent + "if " + cond + " then\n")
		out.WriteString(indent + "\t" + strings.TrimSpace(stmt) + "\n")
		out.WriteString(indent + "end" + terminator)
	}

	return out.String()
}

// splitIfCondition extracts the balanced parenthesised condition from
// an if-shorthand line and returns it with the trailing statement.
func splitIfCondition(s string) (cond, stmt string, ok bool) {
	depth := -1
	start, stop := 0, 0

	for i, c := range s {
		if c == '(' {
			if depth == -1 {
				depth = 0
				start = i
			}
			depth++
		}
		if c == ')' {
			depth--
		}
		if depth == 0 {
			stop = i
			break
		}
	}

	if depth != 0 || stop <= start {
		return "", "", false
	}
	return s[start+1 : stop], s[stop+1:], true
}
