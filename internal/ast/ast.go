// Package ast defines the abstract syntax tree produced by
// internal/parser and walked by internal/interp.
package ast

import "github.com/ssrlive/ecmacore/internal/token"

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Statement is implemented by statement nodes.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by expression nodes.
type Expression interface {
	Node
	exprNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Body   []Statement
	Strict bool
}

func (p *Program) Pos() token.Position {
	if len(p.Body) == 0 {
		return token.Position{Line: 1, Column: 1}
	}
	return p.Body[0].Pos()
}

// Base embeds a Position and satisfies Node for every node that embeds it.
type Base struct{ Position token.Position }

func (b Base) Pos() token.Position { return b.Position }

// At constructs a Base from a position; parser call sites use this to
// stamp new nodes (e.g. ast.Expression literal with Base: ast.At(pos)).
func At(p token.Position) Base { return Base{Position: p} }
