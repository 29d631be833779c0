// Package parse builds the syntax view of a source file using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf16"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/syntax"
)

// ErrSyntax is returned for sources tree-sitter could only parse with
// error recovery. Such files are not linted.
var ErrSyntax = errors.New("syntax error")

// atomic node types are emitted as a single token even though tree-sitter
// gives them children.
var atomic = map[string]bool{
	"string":          true,
	"template_string": true,
	"regex":           true,
	"number":          true,
}

var identifierTypes = map[string]bool{
	"identifier":                            true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"private_property_identifier":           true,
	"statement_identifier":                  true,
	"type_identifier":                       true,
}

var jumpKinds = map[string]syntax.JumpKind{
	"return_statement":   syntax.Return,
	"throw_statement":    syntax.Throw,
	"break_statement":    syntax.Break,
	"continue_statement": syntax.Continue,
}

// statementLists are node types whose named children form a statement list.
var statementLists = map[string]bool{
	"program":         true,
	"statement_block": true,
	"switch_case":     true,
	"switch_default":  true,
}

// File parses source and returns its syntax view.
// The parser must be created for the correct language.
// path is used only for syntax.File.Path.
func File(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, path string) (*syntax.File, error) {
	if len(source) == 0 {
		return &syntax.File{Path: path, Language: l.Name, Source: source, Tokens: syntax.NewTokens(nil)}, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%s: %w", path, ErrSyntax)
	}

	tz := &tokenizer{source: source}
	tz.collect(root)

	c := &converter{source: source, tokens: syntax.NewTokens(tz.tokens)}
	f := &syntax.File{
		Path:        path,
		Language:    l.Name,
		Source:      source,
		Tokens:      c.tokens,
		Substituted: tz.substituted,
	}

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			if query.CaptureNameForId(capture.Index) != lang.ConditionalCapture {
				continue
			}
			if capture.Node.Type() != "if_statement" {
				continue
			}
			f.Conditionals = append(f.Conditionals, c.conditional(capture.Node))
		}
	}

	return f, nil
}

type tokenizer struct {
	source      []byte
	tokens      []syntax.Token
	substituted []syntax.Token

	// UTF-16 column bookkeeping for the row being tokenized.
	row    uint32
	offset int
	units  int
}

// collect appends the leaves of node in source order, skipping comments
// and zero-width (missing or automatic) tokens.
func (tz *tokenizer) collect(node *sitter.Node) {
	typ := node.Type()
	if typ == "comment" || typ == "html_comment" {
		return
	}

	if node.ChildCount() == 0 || atomic[typ] {
		if tok, ok := tz.token(node); ok {
			tz.tokens = append(tz.tokens, tok)
		}
		if typ == "template_string" {
			tz.substitutions(node)
		}
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		tz.collect(node.Child(i))
	}
}

// substitutions records the identifiers inside the ${} parts of a
// template, nested templates included.
func (tz *tokenizer) substitutions(node *sitter.Node) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if identifierTypes[child.Type()] {
			if tok, ok := tz.token(child); ok {
				tz.substituted = append(tz.substituted, tok)
			}
			continue
		}
		tz.substitutions(child)
	}
}

func (tz *tokenizer) token(node *sitter.Node) (syntax.Token, bool) {
	start, end := int(node.StartByte()), int(node.EndByte())
	if start == end {
		return syntax.Token{}, false
	}
	value := string(tz.source[start:end])
	point := node.StartPoint()
	return syntax.Token{
		Kind:   tokenKind(node, value),
		Value:  value,
		Start:  start,
		End:    end,
		Line:   int(point.Row) + 1,
		Column: tz.column(point, start),
	}, true
}

// column converts a tree-sitter byte column into a 1-based UTF-16 column.
// Tokens mostly arrive in order, so the count continues from the previous
// token on the same row.
func (tz *tokenizer) column(point sitter.Point, start int) int {
	lineStart := start - int(point.Column)
	if point.Row != tz.row || tz.offset < lineStart || tz.offset > start {
		tz.row, tz.offset, tz.units = point.Row, lineStart, 0
	}
	for _, r := range string(tz.source[tz.offset:start]) {
		tz.units += utf16.RuneLen(r)
	}
	tz.offset = start
	return tz.units + 1
}

func tokenKind(node *sitter.Node, value string) syntax.TokenKind {
	typ := node.Type()
	switch typ {
	case "string":
		return syntax.String
	case "template_string":
		return syntax.Template
	case "regex":
		return syntax.RegularExpression
	case "number":
		return syntax.Numeric
	case "jsx_text":
		return syntax.JSXText
	}
	if identifierTypes[typ] {
		return syntax.Identifier
	}
	if !node.IsNamed() {
		if isWord(value) {
			return syntax.Keyword
		}
		return syntax.Punctuator
	}
	// true, false, null, this, super and friends
	return syntax.Keyword
}

func isWord(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c == '$') {
			return false
		}
	}
	return s != ""
}
