// Package rule reports `else` blocks made redundant because every preceding
// branch of their if/else-if chain ends in return, throw, break or continue,
// and computes a rewrite that removes the `else` wrapper when that is safe.
package rule

import (
	"sort"

	"github.com/phobologic/noelse/internal/model"
	"github.com/phobologic/noelse/internal/syntax"
)

const (
	// Name identifies the rule in diagnostics.
	Name = "no-else-after-jump"

	// Message is the text of every diagnostic.
	Message = "Unnecessary 'else' after a branch that always exits."
)

// Options tunes the rewrite.
type Options struct {
	// PreserveScope withholds the rewrite when hoisting the else block's
	// let, const, class or function bindings into the enclosing statement
	// list could clash with a name used there.
	PreserveScope bool
}

// Check returns one diagnostic per eligible chain of f, ordered by the
// position of the reported `else`.
func Check(f *syntax.File, opts Options) []model.Diagnostic {
	var diags []model.Diagnostic
	for _, head := range f.Conditionals {
		if head.Chained {
			continue // analyzed from its chain head
		}
		if d, ok := checkChain(f, head, opts); ok {
			diags = append(diags, d)
		}
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Offset < diags[j].Offset
	})
	return diags
}

// chain is an if/else-if/else sequence ending in a plain else.
type chain struct {
	head     *syntax.If
	last     *syntax.If // the link owning the final else
	branches []syntax.Stmt
	final    syntax.Stmt
}

// walkChain follows alternates from head. It fails when a link has no
// alternate, leaving no else to remove.
func walkChain(head *syntax.If) (chain, bool) {
	c := chain{head: head}
	for n := head; ; {
		c.branches = append(c.branches, n.Consequent)
		switch alt := n.Alternate.(type) {
		case nil:
			return chain{}, false
		case *syntax.If:
			n = alt
		default:
			c.last, c.final = n, alt
			return c, true
		}
	}
}

func checkChain(f *syntax.File, head *syntax.If, opts Options) (model.Diagnostic, bool) {
	c, ok := walkChain(head)
	if !ok {
		return model.Diagnostic{}, false
	}
	for _, b := range c.branches {
		if b == nil || !Terminates(b) {
			return model.Diagnostic{}, false
		}
	}

	elseTok := f.Tokens.Before(c.final.Bounds().First)
	if elseTok == nil {
		return model.Diagnostic{}, false
	}

	d := model.Diagnostic{
		Path:    f.Path,
		Rule:    Name,
		Message: Message,
		Line:    elseTok.Line,
		Column:  elseTok.Column,
		Offset:  elseTok.Start,
	}
	if fix, ok := rewrite(f, c, opts); ok {
		d.Fix = &fix
	}
	return d, true
}
