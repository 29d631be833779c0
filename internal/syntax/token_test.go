package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens for `if (x) y;` laid out by hand.
func sampleTokens() *Tokens {
	return NewTokens([]Token{
		{Kind: Keyword, Value: "if", Start: 0, End: 2, Line: 1, Column: 1},
		{Kind: Punctuator, Value: "(", Start: 3, End: 4, Line: 1, Column: 4},
		{Kind: Identifier, Value: "x", Start: 4, End: 5, Line: 1, Column: 5},
		{Kind: Punctuator, Value: ")", Start: 5, End: 6, Line: 1, Column: 6},
		{Kind: Identifier, Value: "y", Start: 7, End: 8, Line: 1, Column: 8},
		{Kind: Punctuator, Value: ";", Start: 8, End: 9, Line: 1, Column: 9},
	})
}

func TestTokensNeighbours(t *testing.T) {
	t.Parallel()
	toks := sampleTokens()

	require.Equal(t, 6, toks.Len())
	assert.Nil(t, toks.Before(0))
	assert.Nil(t, toks.After(5))
	assert.Nil(t, toks.At(-1))
	assert.Nil(t, toks.At(6))

	assert.Equal(t, "(", toks.Before(2).Value)
	assert.Equal(t, ")", toks.After(2).Value)
}

func TestTokensIndexFrom(t *testing.T) {
	t.Parallel()
	toks := sampleTokens()

	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{6, 4},
		{7, 4},
		{9, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toks.IndexFrom(tt.offset), "offset %d", tt.offset)
	}
}

func TestTokensIndexUntil(t *testing.T) {
	t.Parallel()
	toks := sampleTokens()

	tests := []struct {
		offset int
		want   int
	}{
		{0, -1},
		{2, 0},
		{3, 0},
		{6, 3},
		{7, 3},
		{9, 5},
		{100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toks.IndexUntil(tt.offset), "offset %d", tt.offset)
	}
}

func TestKindStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RegularExpression", RegularExpression.String())
	assert.Equal(t, "TokenKind(?)", TokenKind(42).String())
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "jump(?)", JumpKind(9).String())
}

func TestFileText(t *testing.T) {
	t.Parallel()
	f := &File{Source: []byte("if (x) y;"), Tokens: sampleTokens()}

	s := Span{Start: 7, End: 9, First: 4, Last: 5}
	assert.Equal(t, "y;", f.Text(s))

	var stmt Stmt = &Other{Span: s, Kind: "expression_statement"}
	assert.Equal(t, s, stmt.Bounds())
}
