package postprocessors

import (
	"context"
	"regexp"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
	"github.com/sulai/p8lua/internal/core/ports/driven"
)

// Activation symbols for the comment strippers. A module defines these
// to shed comments from the generated cartridge, typically when close
// to the console's character limit.
const (
	// SymbolStripSingle activates single-line comment removal.
	SymbolStripSingle = "removecommentssingle"

	// SymbolStripBlock activates block comment removal.
	SymbolStripBlock = "removecomments"
)

// blockCommentRE matches a Lua block comment bracketed the PICO-8 way,
// across lines.
var blockCommentRE = regexp.MustCompile(`(?s)--\[\[.*?\]\]--`)

// Ensure the processors implement the interface.
var (
	_ driven.PostProcessor = (*SingleCommentStripper)(nil)
	_ driven.PostProcessor = (*BlockCommentStripper)(nil)
)

// SingleCommentStripper removes single-line "--" comments: whole
// comment lines are dropped and trailing comments are cut. Block
// comment brackets ("--[[") are left alone; those belong to the block
// stripper.
type SingleCommentStripper struct{}

// NewSingleCommentStripper creates a single-line comment stripper.
func NewSingleCommentStripper() *SingleCommentStripper {
	return &SingleCommentStripper{}
}

// Name returns the processor name.
func (s *SingleCommentStripper) Name() string {
	return "strip_single_comments"
}

// Active reports whether the activation symbol was defined.
func (s *SingleCommentStripper) Active(symbols domain.SymbolSet) bool {
	return symbols.Defined(SymbolStripSingle)
}

// Process drops whole-line comments and cuts trailing ones.
// This is dumb text surgery: a "--" inside a string literal is cut
// too, exactly like the tool this replaces.
func (s *SingleCommentStripper) Process(_ context.Context, text string) (string, error) {
	var out strings.Builder

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		stripped, drop := stripSingleComment(line)
		if drop {
			continue
		}
		out.WriteString(stripped)
	}

	return out.String(), nil
}

// stripSingleComment handles one raw line (terminator included).
// Returns the line with any trailing comment cut, and whether the
// whole line was a comment and should be dropped.
func stripSingleComment(line string) (string, bool) {
	terminator := ""
	content := line
	if strings.HasSuffix(content, "\n") {
		terminator = "\n"
		content = strings.TrimSuffix(content, "\n")
	}

	for i := 0; ; {
		j := strings.Index(content[i:], "--")
		if j < 0 {
			return line, false
		}
		pos := i + j

		// Block comment brackets ("--[[" and "]]--") are not
		// single-line comments.
		if strings.HasPrefix(content[pos+2:], "[[") ||
			(pos >= 2 && content[pos-2:pos] == "]]") {
			i = pos + 2
			continue
		}

		before := strings.TrimRight(content[:pos], " \t")
		if before == "" {
			// Full-line comment: drop the line, terminator and all
			return "", true
		}
		return before + terminator, false
	}
}

// BlockCommentStripper removes "--[[ ... ]]--" block comments,
// replacing each with a single newline so surrounding code keeps its
// line separation.
type BlockCommentStripper struct{}

// NewBlockCommentStripper creates a block comment stripper.
func NewBlockCommentStripper() *BlockCommentStripper {
	return &BlockCommentStripper{}
}

// Name returns the processor name.
func (b *BlockCommentStripper) Name() string {
	return "strip_block_comments"
}

// Active reports whether the activation symbol was defined.
func (b *BlockCommentStripper) Active(symbols domain.SymbolSet) bool {
	return symbols.Defined(SymbolStripBlock)
}

// Process removes every block comment from the text.
func (b *BlockCommentStripper) Process(_ context.Context, text string) (string, error) {
	return blockCommentRE.ReplaceAllString(text, "\n"), nil
}
