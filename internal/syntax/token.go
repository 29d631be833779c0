// Package syntax is a read-only, statement-level view of a parsed
// JavaScript or TypeScript source file.
package syntax

import "sort"

// TokenKind classifies a token.
type TokenKind int

const (
	Punctuator TokenKind = iota
	Keyword
	Identifier
	String
	Template
	RegularExpression
	Numeric
	JSXText
)

var tokenKindNames = [...]string{
	Punctuator:        "Punctuator",
	Keyword:           "Keyword",
	Identifier:        "Identifier",
	String:            "String",
	Template:          "Template",
	RegularExpression: "RegularExpression",
	Numeric:           "Numeric",
	JSXText:           "JSXText",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(?)"
	}
	return tokenKindNames[k]
}

// Token is the smallest anchored slice of source text. Comments are not
// tokens; string, template, regex and number literals are single tokens.
type Token struct {
	Kind   TokenKind
	Value  string
	Start  int // byte offset, inclusive
	End    int // byte offset, exclusive
	Line   int // 1-based
	Column int // 1-based, in UTF-16 code units as editors count
}

// Tokens is an immutable token sequence ordered by offset.
type Tokens struct {
	list []Token
}

// NewTokens wraps list, which must be sorted by Start and non-overlapping.
func NewTokens(list []Token) *Tokens {
	return &Tokens{list: list}
}

// Len returns the number of tokens.
func (t *Tokens) Len() int {
	return len(t.list)
}

// At returns the token at index i, or nil when i is out of range.
func (t *Tokens) At(i int) *Token {
	if i < 0 || i >= len(t.list) {
		return nil
	}
	return &t.list[i]
}

// Before returns the token preceding index i, or nil.
func (t *Tokens) Before(i int) *Token {
	return t.At(i - 1)
}

// After returns the token following index i, or nil.
func (t *Tokens) After(i int) *Token {
	return t.At(i + 1)
}

// IndexFrom returns the index of the first token starting at or after offset,
// or Len() if there is none.
func (t *Tokens) IndexFrom(offset int) int {
	return sort.Search(len(t.list), func(i int) bool {
		return t.list[i].Start >= offset
	})
}

// IndexUntil returns the index of the last token ending at or before offset,
// or -1 if there is none.
func (t *Tokens) IndexUntil(offset int) int {
	return sort.Search(len(t.list), func(i int) bool {
		return t.list[i].End > offset
	}) - 1
}
