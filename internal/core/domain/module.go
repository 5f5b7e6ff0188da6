package domain

// Module represents one externally edited source text file.
// Modules are read-only to the core; the editor owns their content.
type Module struct {
	// Name is the symbolic module name used in #include directives,
	// e.g. "lib/collisions". It never carries the file suffix.
	Name string

	// Path is the resolved filesystem location, if known.
	Path string

	// Content is the raw text as read from disk.
	Content string
}
