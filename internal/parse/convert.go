package parse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/noelse/internal/lang"
	"github.com/phobologic/noelse/internal/syntax"
)

type converter struct {
	source []byte
	tokens *syntax.Tokens
}

func (c *converter) span(n *sitter.Node) syntax.Span {
	start, end := int(n.StartByte()), int(n.EndByte())
	return syntax.Span{
		Start: start,
		End:   end,
		First: c.tokens.IndexFrom(start),
		Last:  c.tokens.IndexUntil(end),
	}
}

// stmt converts a statement node. Nodes the analysis does not look into
// become syntax.Other.
func (c *converter) stmt(n *sitter.Node) syntax.Stmt {
	typ := n.Type()
	switch typ {
	case "statement_block":
		return c.block(n)
	case "if_statement":
		return c.ifStmt(n)
	}
	if kind, ok := jumpKinds[typ]; ok {
		return &syntax.Jump{Span: c.span(n), Kind: kind}
	}
	return &syntax.Other{Span: c.span(n), Kind: typ}
}

func (c *converter) block(n *sitter.Node) *syntax.Block {
	b := &syntax.Block{Span: c.span(n)}
	for _, child := range statements(n) {
		b.Body = append(b.Body, c.stmt(child))
		b.Lexical = lexicalNames(child, c.source, b.Lexical)
	}
	return b
}

func (c *converter) ifStmt(n *sitter.Node) *syntax.If {
	s := &syntax.If{Span: c.span(n)}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		s.Consequent = c.stmt(cons)
	}
	if elseClause := n.ChildByFieldName("alternative"); elseClause != nil {
		if body := elseBody(elseClause); body != nil {
			s.Alternate = c.stmt(body)
		}
	}
	if parent := n.Parent(); parent != nil && parent.Type() == "else_clause" {
		s.Chained = true
	}
	return s
}

// conditional converts an if statement matched by the query and records
// the facts about its surroundings the rewrite safety checks need.
func (c *converter) conditional(n *sitter.Node) *syntax.If {
	s := c.ifStmt(n)
	if s.Chained {
		return s
	}
	parent := n.Parent()
	if parent == nil || !statementLists[parent.Type()] {
		return s
	}
	s.InStatementList = true
	s.Container = c.span(parent)
	s.Bindings = enclosingBindings(parent, c.source)
	s.Siblings = declaredNames(parent, c.source)
	return s
}

// elseBody returns the statement of an else_clause.
func elseBody(elseClause *sitter.Node) *sitter.Node {
	var body *sitter.Node
	for i := 0; i < int(elseClause.NamedChildCount()); i++ {
		child := elseClause.NamedChild(i)
		if child.Type() != "comment" && child.Type() != "html_comment" {
			body = child
		}
	}
	return body
}

// statements returns the named, non-comment children of a statement list.
func statements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" || child.Type() == "html_comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// lexicalNames appends the block-scoped names a declaration statement binds.
func lexicalNames(n *sitter.Node, source []byte, out []string) []string {
	switch n.Type() {
	case "lexical_declaration":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			decl := n.NamedChild(i)
			if decl.Type() == "variable_declarator" {
				out = bindingNames(decl.ChildByFieldName("name"), source, out)
			}
		}
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration", "enum_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			out = append(out, lang.NodeText(name, source))
		}
	}
	return out
}

// declaredNames returns the names declared directly in a statement list.
// The cases of a switch share one scope, so a case reports them all.
func declaredNames(list *sitter.Node, source []byte) []string {
	lists := []*sitter.Node{list}
	if t := list.Type(); t == "switch_case" || t == "switch_default" {
		if body := list.Parent(); body != nil {
			lists = statements(body)
		}
	}
	var out []string
	for _, l := range lists {
		for _, child := range statements(l) {
			out = lexicalNames(child, source, out)
			if child.Type() == "variable_declaration" {
				for i := 0; i < int(child.NamedChildCount()); i++ {
					if decl := child.NamedChild(i); decl.Type() == "variable_declarator" {
						out = bindingNames(decl.ChildByFieldName("name"), source, out)
					}
				}
			}
		}
	}
	return out
}

// bindingNames appends the identifiers bound by a binding pattern.
func bindingNames(n *sitter.Node, source []byte, out []string) []string {
	if n == nil {
		return out
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return append(out, lang.NodeText(n, source))
	case "pair_pattern":
		return bindingNames(n.ChildByFieldName("value"), source, out)
	case "assignment_pattern", "object_assignment_pattern":
		return bindingNames(n.ChildByFieldName("left"), source, out)
	case "required_parameter", "optional_parameter":
		return bindingNames(n.ChildByFieldName("pattern"), source, out)
	case "type_annotation", "decorator", "accessibility_modifier":
		return out
	}
	// object_pattern, array_pattern, rest_pattern, formal_parameters
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = bindingNames(n.NamedChild(i), source, out)
	}
	return out
}

var functionTypes = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// enclosingBindings returns the parameter names of the function, or the
// parameter of the catch clause, whose body is list.
func enclosingBindings(list *sitter.Node, source []byte) []string {
	if list.Type() != "statement_block" {
		return nil
	}
	owner := list.Parent()
	if owner == nil {
		return nil
	}
	switch {
	case owner.Type() == "catch_clause":
		return bindingNames(owner.ChildByFieldName("parameter"), source, nil)
	case functionTypes[owner.Type()]:
		if params := owner.ChildByFieldName("parameters"); params != nil {
			return bindingNames(params, source, nil)
		}
		return bindingNames(owner.ChildByFieldName("parameter"), source, nil)
	}
	return nil
}
