// Package lint runs the rule over whole files: parse, check, and apply
// fixes until the source stops changing.
package lint

import (
	"bytes"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/model"
	"github.com/phobologic/noelse/internal/parse"
	"github.com/phobologic/noelse/internal/patch"
	"github.com/phobologic/noelse/internal/rule"
)

// MaxPasses bounds the fix loop. Nested chains produce overlapping fixes,
// so each pass applies the ones that do not overlap and the rest are
// recomputed on the rewritten source.
const MaxPasses = 10

// Linter checks files of one language. It owns a tree-sitter parser and
// is therefore not safe for concurrent use.
type Linter struct {
	lang   *lang.Language
	parser *sitter.Parser
	query  *sitter.Query
	opts   rule.Options
}

// New returns a Linter for l.
func New(l *lang.Language, opts rule.Options) (*Linter, error) {
	q, err := l.GetConditionalQuery()
	if err != nil {
		return nil, fmt.Errorf("%s query: %w", l.Name, err)
	}
	return &Linter{lang: l, parser: l.NewParser(), query: q, opts: opts}, nil
}

// Language returns the name of the language the linter parses.
func (l *Linter) Language() string {
	return l.lang.Name
}

// Check parses source and returns its diagnostics.
func (l *Linter) Check(path string, source []byte) ([]model.Diagnostic, error) {
	f, err := parse.File(l.lang, l.parser, l.query, source, path)
	if err != nil {
		return nil, err
	}
	return rule.Check(f, l.opts), nil
}

// Fix applies fixes to source until none remain or MaxPasses is reached.
// The returned result carries the diagnostics left in the final text.
func (l *Linter) Fix(path string, source []byte) (model.FileResult, error) {
	res := model.FileResult{Path: path, Language: l.lang.Name, Original: source}

	current := source
	diags, err := l.Check(path, current)
	if err != nil {
		return res, err
	}

	for res.Passes < MaxPasses {
		next, applied := patch.Apply(current, patch.Fixes(diags))
		if applied == 0 || bytes.Equal(next, current) {
			break
		}
		nextDiags, err := l.Check(path, next)
		if err != nil {
			return res, fmt.Errorf("pass %d rewrote %s into unparsable source: %w", res.Passes+1, path, err)
		}
		current, diags = next, nextDiags
		res.Passes++
	}

	if res.Passes > 0 {
		res.Fixed = current
	}
	res.Diagnostics = diags
	return res, nil
}
