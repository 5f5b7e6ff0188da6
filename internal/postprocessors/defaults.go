package postprocessors

import "github.com/sulai/p8lua/internal/core/ports/driven"

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("strip_single_comments", func(_ map[string]any) (driven.PostProcessor, error) {
		return NewSingleCommentStripper(), nil
	})
	r.Register("strip_block_comments", func(_ map[string]any) (driven.PostProcessor, error) {
		return NewBlockCommentStripper(), nil
	})
	r.Register("plain_lua", func(_ map[string]any) (driven.PostProcessor, error) {
		return NewPlainLuaConverter(), nil
	})
}

// DefaultPipeline builds the standard pipeline in its canonical order:
// single-line comment stripping, block comment stripping, then
// plain-Lua conversion. The order matters: comments are removed before
// "//" rewriting could create new "--" comments.
func DefaultPipeline() *Pipeline {
	return NewPipeline(
		NewSingleCommentStripper(),
		NewBlockCommentStripper(),
		NewPlainLuaConverter(),
	)
}
