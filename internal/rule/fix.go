package rule

import (
	"strings"

	"github.com/phobologic/noelse/internal/model"
	"github.com/phobologic/noelse/internal/syntax"
)

// asiHazards are leading characters that continue a preceding expression
// statement that has no semicolon.
const asiHazards = "([/+`-"

func startsHazard(tok *syntax.Token) bool {
	return tok != nil && tok.Value != "" && strings.IndexByte(asiHazards, tok.Value[0]) >= 0
}

func isSemicolon(tok *syntax.Token) bool {
	return tok != nil && tok.Kind == syntax.Punctuator && tok.Value == ";"
}

// rewrite replaces `else <body>` with the body, unbraced. It fails when
// removing the keyword or the braces could join statements under automatic
// semicolon insertion, or otherwise change what the code does.
func rewrite(f *syntax.File, c chain, opts Options) (model.Fix, bool) {
	// Outside a statement list the body would leave an unbraced loop or
	// branch body.
	if !c.head.InStatementList {
		return model.Fix{}, false
	}

	toks := f.Tokens
	span := c.final.Bounds()
	start := toks.At(span.First)
	elseTok := toks.Before(span.First)
	lastIfTok := toks.Before(span.First - 1)
	if start == nil || elseTok == nil || lastIfTok == nil {
		return model.Fix{}, false
	}

	block, braced := c.final.(*syntax.Block)

	firstInner := start
	if braced {
		firstInner = toks.After(span.First)
	}

	_, ifBraced := c.last.Consequent.(*syntax.Block)
	ifBlockMaybeUnsafe := !ifBraced && !isSemicolon(lastIfTok)
	elseBlockUnsafe := startsHazard(firstInner)
	if ifBlockMaybeUnsafe && elseBlockUnsafe {
		return model.Fix{}, false
	}

	if lastTok := toks.Before(span.Last); lastTok != nil && !isSemicolon(lastTok) {
		if next := toks.After(span.Last); next != nil {
			sameLine := next.Line == lastTok.Line
			if startsHazard(next) || (sameLine && next.Value != "}") {
				return model.Fix{}, false
			}
		}
	}

	// A hoisted let, const or class that redeclares a parameter or a
	// sibling is an early error.
	if braced && redeclares(c.head, block) {
		return model.Fix{}, false
	}
	if braced && opts.PreserveScope && collides(f, c.head, block) {
		return model.Fix{}, false
	}

	text := f.Text(span)
	if braced {
		text = text[1 : len(text)-1]
	}
	// Comments between the keyword and the body stay in front of it.
	if gap := string(f.Source[elseTok.End:span.Start]); strings.TrimSpace(gap) != "" {
		text = strings.TrimLeft(gap, " \t") + text
	}
	return model.Fix{Start: elseTok.Start, End: span.End, Text: text}, true
}

func lexicalSet(block *syntax.Block) map[string]struct{} {
	names := make(map[string]struct{}, len(block.Lexical))
	for _, name := range block.Lexical {
		names[name] = struct{}{}
	}
	return names
}

// redeclares reports whether a name block binds is already a parameter or
// catch binding of the enclosing list, or is declared directly in it.
func redeclares(head *syntax.If, block *syntax.Block) bool {
	if len(block.Lexical) == 0 {
		return false
	}
	names := lexicalSet(block)
	for _, list := range [][]string{head.Bindings, head.Siblings} {
		for _, name := range list {
			if _, ok := names[name]; ok {
				return true
			}
		}
	}
	return false
}

// collides reports whether a name block binds appears as an identifier in
// the enclosing statement list outside block, template substitutions
// included.
func collides(f *syntax.File, head *syntax.If, block *syntax.Block) bool {
	if len(block.Lexical) == 0 {
		return false
	}
	names := lexicalSet(block)

	for i := head.Container.First; i <= head.Container.Last; i++ {
		if i == block.First {
			i = block.Last
			continue
		}
		tok := f.Tokens.At(i)
		if tok == nil || tok.Kind != syntax.Identifier {
			continue
		}
		if _, ok := names[tok.Value]; ok {
			return true
		}
	}

	for _, tok := range f.Substituted {
		if tok.Start < head.Container.Start || tok.End > head.Container.End {
			continue
		}
		if tok.Start >= block.Start && tok.End <= block.End {
			continue
		}
		if _, ok := names[tok.Value]; ok {
			return true
		}
	}
	return false
}
