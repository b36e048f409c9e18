package parser

import "github.com/hulklang/hulkc/internal/token"

// Precedence levels, lowest first. Grounded on internal/parser/expressions_core.go's
// parseExpression(precedence) Pratt-parser shape (teacher), with the level
// table cut down to HULK's operator set (§4.3 binop rules).
const (
	LOWEST int = iota
	ASSIGNP    // :=, right-associative
	OR         // ||
	AND        // &&
	EQUALSP    // == !=
	COMPARE    // < <= > >=
	CONCAT     // @ @@
	SUM        // + -
	PRODUCT    // * /
	PREFIX     // unary -, +, !
	CALL       // f(...), a[i], a.b, x as T
)

var precedences = map[token.Kind]int{
	token.ASSIGN:   ASSIGNP,
	token.OR:       OR,
	token.AND:      AND,
	token.EQ:       EQUALSP,
	token.NEQ:      EQUALSP,
	token.LT:       COMPARE,
	token.LE:       COMPARE,
	token.GT:       COMPARE,
	token.GE:       COMPARE,
	token.AT:       CONCAT,
	token.ATAT:     CONCAT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
	token.DOT:      CALL,
	token.AS:       CALL,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Kind]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Kind]; ok {
		return prec
	}
	return LOWEST
}
