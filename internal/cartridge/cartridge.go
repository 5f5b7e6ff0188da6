package cartridge

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sulai/p8lua/internal/core/domain"
)

// LuaTag is the tag of the section that receives expanded module
// content in a PICO-8 cartridge.
const LuaTag = "lua"

// headerRE matches a section header line: the tag name wrapped in two
// underscores on each side, alone on its line (e.g. "__lua__",
// "__gfx__").
var headerRE = regexp.MustCompile(`^__(\w+)__$`)

// Section is one named region of the cartridge.
type Section struct {
	// Tag is the section identifier without its underscore delimiters.
	Tag string

	// headerLine is the header exactly as read, terminator included.
	headerLine string

	// body is the raw text between this header and the next one (or
	// end of file), terminators included.
	body string
}

// Body returns the section's raw body text.
func (s *Section) Body() string {
	return s.body
}

// Document is a parsed cartridge: a preamble (the lines before the
// first section header, carrying the format banner and version) and an
// ordered list of sections.
type Document struct {
	preamble string
	sections []Section
}

// Parse partitions cartridge bytes into preamble and sections.
// Parsing never fails: a file without headers is all preamble.
func Parse(data []byte) *Document {
	doc := &Document{}
	current := -1

	rest := string(data)
	for len(rest) > 0 {
		line, remainder := nextLine(rest)
		rest = remainder

		if tag, ok := matchHeader(line); ok {
			doc.sections = append(doc.sections, Section{Tag: tag, headerLine: line})
			current = len(doc.sections) - 1
			continue
		}

		if current < 0 {
			doc.preamble += line
		} else {
			doc.sections[current].body += line
		}
	}

	return doc
}

// Serialize reassembles the document. For a document that was parsed
// and not modified, the output is byte-identical to the input.
func (d *Document) Serialize() []byte {
	var out strings.Builder
	out.WriteString(d.preamble)
	for i := range d.sections {
		out.WriteString(d.sections[i].headerLine)
		out.WriteString(d.sections[i].body)
	}
	return []byte(out.String())
}

// Tags returns the section tags in document order.
func (d *Document) Tags() []string {
	tags := make([]string, len(d.sections))
	for i := range d.sections {
		tags[i] = d.sections[i].Tag
	}
	return tags
}

// Section returns the first section with the given tag.
// Returns domain.ErrSectionNotFound if no section carries the tag.
func (d *Document) Section(tag string) (*Section, error) {
	for i := range d.sections {
		if d.sections[i].Tag == tag {
			return &d.sections[i], nil
		}
	}
	return nil, fmt.Errorf("section %q: %w", tag, domain.ErrSectionNotFound)
}

// Replace swaps the body of the tagged section for the given text,
// leaving the header line, every other section and the section order
// untouched. The merger never creates sections implicitly: replacing a
// missing tag is domain.ErrSectionNotFound.
//
// If the new body is non-empty, lacks a final newline and another
// section follows, a newline is appended so the next header keeps its
// own line. Expanded module text is always newline-terminated, so the
// guard never fires on the sync path.
func (d *Document) Replace(tag, body string) error {
	for i := range d.sections {
		if d.sections[i].Tag != tag {
			continue
		}
		if body != "" && !strings.HasSuffix(body, "\n") && i < len(d.sections)-1 {
			body += "\n"
		}
		d.sections[i].body = body
		return nil
	}
	return fmt.Errorf("section %q: %w", tag, domain.ErrSectionNotFound)
}

// nextLine splits off the first line of s, keeping its terminator.
// The final line of a file without a trailing newline comes back as-is.
func nextLine(s string) (line, rest string) {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	return s, ""
}

// matchHeader reports whether a raw line (terminator included) is a
// section header, and with which tag. A carriage return before the
// newline is tolerated so CRLF cartridges still parse.
func matchHeader(line string) (string, bool) {
	content := strings.TrimSuffix(line, "\n")
	content = strings.TrimSuffix(content, "\r")
	m := headerRE.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}
