package syntax

// File is the syntax view of one source file.
type File struct {
	Path     string
	Language string
	Source   []byte
	Tokens   *Tokens

	// Substituted holds the identifiers inside template substitutions.
	// Templates are single tokens in Tokens, so these are kept apart, in
	// source order.
	Substituted []Token

	// Conditionals lists every if statement of the file in source order,
	// chained `else if` links included.
	Conditionals []*If
}

// Text returns the source text covered by s.
func (f *File) Text(s Span) string {
	return string(f.Source[s.Start:s.End])
}
