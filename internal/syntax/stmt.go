package syntax

// Span locates a node both as a byte range and as an inclusive token range.
type Span struct {
	Start, End  int // byte offsets, End exclusive
	First, Last int // token indices
}

// Bounds returns the span itself so every statement exposes its location.
func (s Span) Bounds() Span { return s }

// Stmt is a statement. The set of implementations is closed: Block, Jump,
// If and Other.
type Stmt interface {
	Bounds() Span
	isStmt()
}

// Block is a braced statement sequence.
type Block struct {
	Span
	Body []Stmt

	// Lexical holds the names bound by let, const, class and function
	// declarations directly inside the block.
	Lexical []string
}

// JumpKind is the kind of control transfer performed by a Jump.
type JumpKind int

const (
	Return JumpKind = iota
	Throw
	Break
	Continue
)

func (k JumpKind) String() string {
	switch k {
	case Return:
		return "return"
	case Throw:
		return "throw"
	case Break:
		return "break"
	case Continue:
		return "continue"
	}
	return "jump(?)"
}

// Jump is a return, throw, break or continue statement. Labels and
// arguments are not recorded.
type Jump struct {
	Span
	Kind JumpKind
}

// If is a conditional statement. Alternate is nil, another *If for an
// `else if`, or the final else body.
type If struct {
	Span
	Consequent Stmt
	Alternate  Stmt

	// Chained is set when the statement is itself the alternate of an
	// enclosing If.
	Chained bool

	// InStatementList is set when the statement sits directly in a program,
	// block or switch case body. Container is that list's span.
	InStatementList bool
	Container       Span

	// Bindings are parameter or catch names of the function or catch clause
	// whose body is Container.
	Bindings []string

	// Siblings are the names declared directly in Container.
	Siblings []string
}

// Other is any statement the analysis does not look into.
type Other struct {
	Span
	Kind string
}

func (*Block) isStmt() {}
func (*Jump) isStmt()  {}
func (*If) isStmt()    {}
func (*Other) isStmt() {}
