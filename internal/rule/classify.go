package rule

import "github.com/phobologic/noelse/internal/syntax"

// Terminates reports whether body always leaves its control path through
// a jump statement. Only the last statement of a block is inspected, so a
// block with code after its jump is never considered terminating.
func Terminates(body syntax.Stmt) bool {
	if b, ok := body.(*syntax.Block); ok {
		if len(b.Body) == 0 {
			return false
		}
		return terminal(b.Body[len(b.Body)-1])
	}
	return terminal(body)
}

// terminal is the single-statement test: a jump, or an if/else whose both
// branches terminate. An if without a plain else can fall through.
func terminal(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.Jump:
		return true
	case *syntax.If:
		switch s.Alternate.(type) {
		case nil, *syntax.If:
			return false
		}
		return Terminates(s.Consequent) && Terminates(s.Alternate)
	case *syntax.Block, *syntax.Other:
		return false
	}
	return false
}
