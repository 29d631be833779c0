// Package model defines core data structures for noelse.
package model

// Fix replaces the source bytes [Start, End) with Text.
type Fix struct {
	Start int
	End   int
	Text  string
}

// Diagnostic is a single finding anchored at a token.
type Diagnostic struct {
	Path    string
	Rule    string
	Message string
	Line    int
	Column  int
	Offset  int

	// Fix is nil when no safe rewrite exists.
	Fix *Fix
}

// Fixable reports whether the diagnostic carries a rewrite.
func (d *Diagnostic) Fixable() bool {
	return d.Fix != nil
}

// FileResult holds the outcome of linting a single file.
type FileResult struct {
	Path        string
	Language    string
	Diagnostics []Diagnostic

	// Original is the source as read. Fixed is the source after all fix
	// passes, or nil when nothing was rewritten.
	Original []byte
	Fixed    []byte
	Passes   int
}

// Changed reports whether fixes rewrote the file.
func (r *FileResult) Changed() bool {
	return r.Fixed != nil
}

// Report is the complete lint outcome, ready for serialization.
type Report struct {
	Root  string
	Files []FileResult
}

// Counts returns the number of diagnostics and how many of them are fixable.
func (r *Report) Counts() (problems, fixable int) {
	for i := range r.Files {
		for j := range r.Files[i].Diagnostics {
			problems++
			if r.Files[i].Diagnostics[j].Fixable() {
				fixable++
			}
		}
	}
	return problems, fixable
}
