package parselly

import (
	"github.com/ydah/parselly/ast"
	"github.com/ydah/parselly/lexer"
	"github.com/ydah/parselly/parser"
)

// Node is the AST node type every parsed selector tree is built from.
type Node = ast.Node

// LexError is raised when the lexer encounters a character no
// scanning rule accepts, or an unterminated string literal.
type LexError = lexer.Error

// ParseError is raised when the grammar driver encounters a token it
// doesn't expect at the current production.
type ParseError = parser.ParseError

// Parse parses a CSS selector string into its abstract syntax tree.
// The root node is always a selector_list. Parsing is fail-fast: on
// the first LexError or ParseError no partial tree is returned.
func Parse(input string) (*Node, error) {
	return parser.Parse(input)
}
