// Package ast defines the tagged AST node types produced by the lexer/parser
// front end and consumed by the semantic checker, TAC generator, and MIPS
// code generator. The front end is an external collaborator with a fixed
// contract (see spec §6); this package only defines the shapes it hands us.
//
// The original source backpatches two AST slots in place during the semantic
// pass (a variable binding's child scope, a function's child scope). This
// package keeps the AST immutable instead: the checker produces a side table
// keyed by node identity (internal/checker.Result), and later passes read
// scopes and types from there rather than from the node itself.
package ast

import "github.com/hulklang/hulkc/internal/token"

// Node is the base interface satisfied by every AST node.
type Node interface {
	GetToken() token.Token
	Line() int
}

// Statement is a Node that appears in statement position.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that yields a value. HULK is expression-oriented:
// most statements are themselves expressions (a compound instruction's
// value is its last statement's value).
type Expression interface {
	Node
	expressionNode()
}

// Base carries the token every node needs for line-numbered diagnostics.
type Base struct {
	Token token.Token
}

func (b Base) GetToken() token.Token { return b.Token }
func (b Base) Line() int             { return b.Token.Line }

// Program is the root of every parse: zero or more function and type
// declarations, followed by the single top-level expression ("main").
type Program struct {
	Base
	Functions []*Function
	Types     []*TypeDeclaration
	Main      Expression
}

func (p *Program) expressionNode() {}
