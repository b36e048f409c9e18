package parser

import (
	"strconv"

	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/token"
)

// parseExpression is the Pratt-parser core: a prefix parse for curToken,
// then a loop absorbing infix operators whose precedence exceeds
// precedence. Grounded on expressions_core.go's parseExpression (teacher),
// minus its newline-continuation and recursion-depth-guard machinery —
// HULK statements are `;`-terminated, not newline-sensitive.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMI) && precedence < p.peekPrecedence() {
		switch p.peekToken.Kind {
		case token.ASSIGN:
			p.nextToken()
			left = p.parseAssignment(left)
		case token.LPAREN:
			// Only a bare name in call position reaches here; parsePrefix
			// already consumes "name(args)" as one unit, so an LPAREN
			// surviving to infix position is a syntax error the caller
			// will report via expectPeek elsewhere. Nothing to absorb.
			return left
		case token.LBRACKET:
			p.nextToken()
			left = p.parseArrayAccess(left)
		case token.DOT:
			p.nextToken()
			left = p.parseAccess(left)
		case token.AS:
			p.nextToken()
			left = p.parseDowncast(left)
		default:
			p.nextToken()
			left = p.parseBinOp(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.curToken.Kind {
	case token.NUMBER:
		return p.parseNumberLiteral()
	case token.STRING:
		return &ast.StringLiteral{Value: p.curToken.Lexeme, Base: ast.NewBase(p.curToken)}
	case token.TRUE:
		return &ast.BoolLiteral{Value: true, Base: ast.NewBase(p.curToken)}
	case token.FALSE:
		return &ast.BoolLiteral{Value: false, Base: ast.NewBase(p.curToken)}
	case token.SELF:
		return &ast.SelfExpr{Base: ast.NewBase(p.curToken)}
	case token.IDENT:
		return p.parseIdentOrCall()
	case token.LPAREN:
		return p.parseGrouped()
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.MINUS, token.PLUS, token.NOT:
		return p.parseUnary()
	case token.NEW:
		return p.parseInstance()
	case token.LET:
		return p.parseVarInst()
	case token.IF:
		return p.parseConditional()
	case token.WHILE:
		return p.parseWhileLoop()
	case token.LBRACE:
		return p.parseCompoundInstruction()
	default:
		p.errorAtCur("unexpected token %q while parsing an expression", p.curToken.Lexeme)
		return nil
	}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		p.errorAtCur("invalid number literal %q", tok.Lexeme)
		return nil
	}
	return &ast.NumberLiteral{Value: v, Base: ast.NewBase(tok)}
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.curToken
	op := tok.Lexeme
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.Unary{Op: op, Operand: operand, Base: ast.NewBase(tok)}
}

func (p *Parser) parseGrouped() ast.Expression {
	tok := p.curToken
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if inner == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return &ast.Grouped{Inner: inner, Base: ast.NewBase(tok)}
}

// parseIdentOrCall distinguishes a bare name reference from a call by
// whether '(' immediately follows — HULK has no first-class function
// values to call through a parenthesized expression, so this lookahead is
// unambiguous.
func (p *Parser) parseIdentOrCall() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // consume name, cur == LPAREN
		args := p.parseArgs()
		return &ast.FunctionCall{Name: tok.Lexeme, Args: args, Base: ast.NewBase(tok)}
	}
	return &ast.Name{Value: tok.Lexeme, Base: ast.NewBase(tok)}
}

// parseArgs parses a parenthesized, comma-separated argument list. curToken
// must be LPAREN on entry; curToken is RPAREN on return.
func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return args
	}
	return args
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	var items []ast.Expression
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ArrayDeclarationExplicit{Items: items, Base: ast.NewBase(tok)}
	}
	p.nextToken()
	items = append(items, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		items = append(items, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ArrayDeclarationExplicit{Items: items, Base: ast.NewBase(tok)}
}

func (p *Parser) parseArrayAccess(left ast.Expression) ast.Expression {
	tok := p.curToken // LBRACKET
	p.nextToken()
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.ArrayAccess{Array: left, Index: idx, Base: ast.NewBase(tok)}
}

func (p *Parser) parseAccess(left ast.Expression) ast.Expression {
	tok := p.curToken // DOT
	p.nextToken()
	var right ast.Expression
	switch p.curToken.Kind {
	case token.IDENT:
		right = p.parseIdentOrCall()
	default:
		p.errorAtCur("expected property or method name after '.', got %q", p.curToken.Lexeme)
		return nil
	}
	return &ast.Access{Left: left, Right: right, Base: ast.NewBase(tok)}
}

func (p *Parser) parseDowncast(left ast.Expression) ast.Expression {
	tok := p.curToken // AS
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.Downcast{Expr: left, TypeName: p.curToken.Lexeme, Base: ast.NewBase(tok)}
}

func (p *Parser) parseInstance() ast.Expression {
	tok := p.curToken // NEW
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	typeName := p.curToken.Lexeme
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args := p.parseArgs()
	return &ast.Instance{TypeName: typeName, Args: args, Base: ast.NewBase(tok)}
}

// parseBinOp classifies a binary operator token into either a plain BinOp or
// the dedicated StrConcat node (§6: "str_concat carries a boolean
// isDouble"). Both are left-associative: the right operand is parsed at the
// operator's own precedence.
func (p *Parser) parseBinOp(left ast.Expression) ast.Expression {
	tok := p.curToken
	if tok.Kind == token.AT || tok.Kind == token.ATAT {
		precedence := p.curPrecedence()
		p.nextToken()
		right := p.parseExpression(precedence)
		return &ast.StrConcat{IsDouble: tok.Kind == token.ATAT, Left: left, Right: right, Base: ast.NewBase(tok)}
	}
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.BinOp{Op: tok.Lexeme, Left: left, Right: right, Base: ast.NewBase(tok)}
}

// parseAssignment handles "target := value", right-associative (":="
// binds its right operand down to ASSIGNP - 1 so a chain like
// "a := b := c" parses as "a := (b := c)").
func (p *Parser) parseAssignment(target ast.Expression) ast.Expression {
	tok := p.curToken // ASSIGN
	p.nextToken()
	value := p.parseExpression(ASSIGNP - 1)
	return &ast.Assignment{Target: target, Value: value, Base: ast.NewBase(tok)}
}
