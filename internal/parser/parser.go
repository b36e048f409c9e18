// Package parser turns a token.Token stream into an ast.Program. Out of
// scope per the core specification (the AST contract is taken as given
// from an external front end), this package exists only so cmd/hulkc has
// a complete text-to-assembly path to drive — HULK's grammar, pared down
// from Funxy's much larger one.
//
// Grounded on internal/parser/processor.go's cur/peek token-cursor and
// prefix/infix-function-table shape (teacher): a Pratt expression parser
// plus recursive-descent statement parsing, errors accumulated rather
// than raised as panics.
package parser

import (
	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/errors"
	"github.com/hulklang/hulkc/internal/lexer"
	"github.com/hulklang/hulkc/internal/token"
)

// ErrSyntax is the one error code this package ever raises; the semantic
// codes in internal/errors all belong to later phases.
const ErrSyntax errors.Code = "E000"

// Parser holds a two-token lookahead cursor over a lexer's token stream.
type Parser struct {
	l    *lexer.Lexer
	errs *errors.Bag

	curToken  token.Token
	peekToken token.Token
}

// New returns a Parser reading from l, recording syntax errors into errs.
func New(l *lexer.Lexer, errs *errors.Bag) *Parser {
	p := &Parser{l: l, errs: errs}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.Next()
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

// expectPeek advances past the peek token if it matches k, else records a
// syntax error and leaves the cursor where it was.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %v, got %v (%q) instead", k, p.peekToken.Kind, p.peekToken.Lexeme)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs.Addf(ErrSyntax, p.peekToken.Line, p.peekToken.Col, format, args...)
}

func (p *Parser) errorAtCur(format string, args ...any) {
	p.errs.Addf(ErrSyntax, p.curToken.Line, p.curToken.Col, format, args...)
}

// ParseProgram parses a full HULK source: zero or more function and type
// declarations, in any order, followed by the single top-level expression.
func ParseProgram(src string) (*ast.Program, *errors.Bag) {
	errs := errors.NewBag()
	l := lexer.New(src)
	p := New(l, errs)
	return p.parseProgram(), errs
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	prog.Token = p.curToken

	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Kind {
		case token.FUNCTION:
			if fn := p.parseFunctionDeclaration(); fn != nil {
				prog.Functions = append(prog.Functions, fn)
			}
		case token.TYPE:
			if td := p.parseTypeDeclaration(); td != nil {
				prog.Types = append(prog.Types, td)
			}
		default:
			prog.Main = p.parseExpression(LOWEST)
			switch {
			case p.peekTokenIs(token.SEMI):
				p.nextToken() // cur == SEMI
				p.nextToken() // step past it, onto whatever follows (normally EOF)
			case p.peekTokenIs(token.EOF):
				p.nextToken() // a trailing ';' is optional at the very end of the source
			}
			if !p.curTokenIs(token.EOF) {
				p.errorAtCur("unexpected %q after top-level expression", p.curToken.Lexeme)
			}
			return prog
		}
		p.nextToken()
	}

	if prog.Main == nil {
		p.errorAtCur("program has no top-level expression")
	}
	return prog
}
