package parser

import (
	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/token"
)

// parseVarInst parses "let d1, d2, ... in Body" (§6 var_inst). curToken is
// LET on entry.
func (p *Parser) parseVarInst() ast.Expression {
	tok := p.curToken
	p.nextToken()

	decls := []*ast.Declaration{p.parseDeclaration()}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		decls = append(decls, p.parseDeclaration())
	}

	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return &ast.VarInst{Declarations: decls, Body: body, Base: ast.NewBase(tok)}
}

// parseDeclaration parses "name [: Annotation] = Value" with curToken on
// the binding's name.
func (p *Parser) parseDeclaration() *ast.Declaration {
	tok := p.curToken
	if !p.curTokenIs(token.IDENT) {
		p.errorAtCur("expected identifier in declaration, got %q", p.curToken.Lexeme)
		return nil
	}
	name := p.curToken.Lexeme

	annotation := ""
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		annotation = p.curToken.Lexeme
	}

	if !p.expectPeek(token.EQUALS) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.Declaration{Name: name, Annotation: annotation, Value: value, Base: ast.NewBase(tok)}
}

// parseAnnotatedIdentifier parses "name : Annotation" (function/constructor
// parameters, where the annotation is mandatory per spec.md §1's "Non-goals:
// ... type inference for unannotated parameters").
func (p *Parser) parseAnnotatedIdentifier() *ast.AnnotatedIdentifier {
	tok := p.curToken
	if !p.curTokenIs(token.IDENT) {
		p.errorAtCur("expected parameter name, got %q", p.curToken.Lexeme)
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.COLON) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	return &ast.AnnotatedIdentifier{Name: name, Annotation: p.curToken.Lexeme, Base: ast.NewBase(tok)}
}

// parseParams parses a parenthesized, comma-separated parameter list.
// curToken must be LPAREN on entry; curToken is RPAREN on return.
func (p *Parser) parseParams() *ast.Params {
	tok := p.curToken
	params := &ast.Params{Base: ast.NewBase(tok)}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	params.List = append(params.List, p.parseAnnotatedIdentifier())
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		params.List = append(params.List, p.parseAnnotatedIdentifier())
	}
	if !p.expectPeek(token.RPAREN) {
		return params
	}
	return params
}

// parseCompoundInstruction parses "{ stmt; stmt; ... }" (§6
// compound_instruction). The last statement may omit its trailing ';'.
func (p *Parser) parseCompoundInstruction() ast.Expression {
	tok := p.curToken // LBRACE
	block := &ast.CompoundInstruction{Base: ast.NewBase(tok)}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.peekTokenIs(token.SEMI) {
			p.nextToken()
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAtCur("expected '}' to close block, got %q", p.curToken.Lexeme)
		return nil
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return &ast.BreakStatement{Base: ast.NewBase(p.curToken)}
	case token.CONTINUE:
		return &ast.ContinueStatement{Base: ast.NewBase(p.curToken)}
	default:
		tok := p.curToken
		expr := p.parseExpression(LOWEST)
		return &ast.ExecutableExpression{Expr: expr, Base: ast.NewBase(tok)}
	}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.curToken
	if p.peekTokenIs(token.SEMI) || p.peekTokenIs(token.RBRACE) {
		return &ast.ReturnStatement{Base: ast.NewBase(tok)}
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.ReturnStatement{Value: value, Base: ast.NewBase(tok)}
}

// parseWhileLoop parses "while (Cond) Body" (§6 while_loop). curToken is
// WHILE on entry.
func (p *Parser) parseWhileLoop() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return &ast.WhileLoop{Cond: cond, Body: body, Base: ast.NewBase(tok)}
}

// parseConditional parses "if (Cond) Body (elif (Cond) Body)* else Body"
// (§6 conditional). Every conditional requires an else arm — spec.md §9
// notes the source makes every conditional total.
func (p *Parser) parseConditional() ast.Expression {
	tok := p.curToken // IF
	ifArm, ok := p.parseCondArm()
	if !ok {
		return nil
	}
	cond := &ast.Conditional{If: &ast.IfStatement{Cond: ifArm.cond, Body: ifArm.body, Base: ast.NewBase(tok)}, Base: ast.NewBase(tok)}

	for p.peekTokenIs(token.ELIF) {
		p.nextToken()
		elifTok := p.curToken
		arm, ok := p.parseCondArm()
		if !ok {
			return nil
		}
		cond.Elifs = append(cond.Elifs, &ast.ElifStatement{Cond: arm.cond, Body: arm.body, Base: ast.NewBase(elifTok)})
	}

	if !p.expectPeek(token.ELSE) {
		return nil
	}
	elseTok := p.curToken
	p.nextToken()
	elseBody := p.parseExpression(LOWEST)
	cond.Else = &ast.ElseStatement{Body: elseBody, Base: ast.NewBase(elseTok)}
	return cond
}

type condArm struct {
	cond ast.Expression
	body ast.Expression
}

// parseCondArm parses "(Cond) Body" with curToken on IF/ELIF.
func (p *Parser) parseCondArm() (condArm, bool) {
	if !p.expectPeek(token.LPAREN) {
		return condArm{}, false
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return condArm{}, false
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	return condArm{cond: cond, body: body}, true
}

// parseFunctionDeclaration parses "function name(params):Return => Body;"
// (§6 function). curToken is FUNCTION on entry.
func (p *Parser) parseFunctionDeclaration() *ast.Function {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params := p.parseParams()

	returnAnnotation := ""
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		returnAnnotation = p.curToken.Lexeme
	}

	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMI) {
		p.nextToken()
	}
	return &ast.Function{Name: name, Params: params, ReturnAnnotation: returnAnnotation, Body: body, Base: ast.NewBase(tok)}
}

// parseTypeDeclaration parses "type Name(params) [inherits Parent[(args)]]
// { property*; method* }" (§6 type_declaration). curToken is TYPE on entry.
func (p *Parser) parseTypeDeclaration() *ast.TypeDeclaration {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme

	td := &ast.TypeDeclaration{Name: name, Base: ast.NewBase(tok)}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		td.CtorParams = p.parseParams()
	}

	if p.peekTokenIs(token.INHERITS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		td.ParentName = p.curToken.Lexeme
		if p.peekTokenIs(token.LPAREN) {
			p.nextToken()
			td.ParentArgs = p.parseArgs()
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		switch p.curToken.Kind {
		case token.FUNCTION:
			if m := p.parseFunctionDeclaration(); m != nil {
				td.Methods = append(td.Methods, m)
			}
		case token.IDENT:
			if prop := p.parseDeclaration(); prop != nil {
				td.Properties = append(td.Properties, prop)
			}
			if p.peekTokenIs(token.SEMI) {
				p.nextToken()
			}
		default:
			p.errorAtCur("expected property or method declaration in type body, got %q", p.curToken.Lexeme)
			return td
		}
		p.nextToken()
	}
	if !p.curTokenIs(token.RBRACE) {
		p.errorAtCur("expected '}' to close type %s, got %q", name, p.curToken.Lexeme)
	}
	return td
}
