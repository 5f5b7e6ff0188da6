package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolSet_DefineUndefine(t *testing.T) {
	s := NewSymbolSet()

	assert.False(t, s.Defined("debug"))

	s.Define("debug")
	assert.True(t, s.Defined("debug"))

	s.Undefine("debug")
	assert.False(t, s.Defined("debug"))

	// Undefining an unknown symbol is a no-op
	s.Undefine("never-defined")
	assert.False(t, s.Defined("never-defined"))
}

func TestNewSymbolSet_Seeded(t *testing.T) {
	s := NewSymbolSet("debug", "testing")

	assert.True(t, s.Defined("debug"))
	assert.True(t, s.Defined("testing"))
	assert.False(t, s.Defined("release"))
}

func TestExpansionContext_CycleGuard(t *testing.T) {
	ctx := NewExpansionContext("game")

	// The root module is guarded from the start
	assert.True(t, ctx.Expanding("game"))
	assert.False(t, ctx.Expanding("lib/collisions"))

	ctx.Enter("lib/collisions")
	assert.True(t, ctx.Expanding("lib/collisions"))
	assert.Equal(t, 1, ctx.Depth)

	ctx.Leave("lib/collisions")
	assert.False(t, ctx.Expanding("lib/collisions"))
	assert.Equal(t, 0, ctx.Depth)

	// A module may be included again once its expansion has finished
	ctx.Enter("lib/collisions")
	assert.True(t, ctx.Expanding("lib/collisions"))
}

func TestNewExpansionContext_SeedsSymbols(t *testing.T) {
	ctx := NewExpansionContext("game", "debug")

	require.NotNil(t, ctx.Symbols)
	assert.True(t, ctx.Symbols.Defined("debug"))
}

func TestDirectiveKind_String(t *testing.T) {
	tests := []struct {
		kind DirectiveKind
		want string
	}{
		{KindInclude, "include"},
		{KindDefine, "define"},
		{KindUndefine, "undefine"},
		{KindIf, "if"},
		{KindEnd, "end"},
		{KindPlainLine, "plain"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.kind.String())
	}
}
