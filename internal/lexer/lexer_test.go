package lexer

import (
	"testing"

	"github.com/hulklang/hulkc/internal/token"
)

func scanKinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	l := New(input)
	var kinds []token.Kind
	for {
		tok := l.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestNextTokenScansDeclarationAndAssignment(t *testing.T) {
	got := scanKinds(t, `let x : Number = 1 + (1 - -1) in x := x * 2;`)
	want := []token.Kind{
		token.LET, token.IDENT, token.COLON, token.IDENT, token.EQUALS,
		token.NUMBER, token.PLUS, token.LPAREN, token.NUMBER, token.MINUS,
		token.MINUS, token.NUMBER, token.RPAREN, token.IN, token.IDENT,
		token.ASSIGN, token.IDENT, token.STAR, token.NUMBER, token.SEMI,
		token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got kind %v, want %v", i, got[i], k)
		}
	}
}

func TestNextTokenScansStringEscapes(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.Next()
	if tok.Kind != token.STRING {
		t.Fatalf("got kind %v, want STRING", tok.Kind)
	}
	if tok.Lexeme != "hello\nworld" {
		t.Fatalf("got lexeme %q, want %q", tok.Lexeme, "hello\nworld")
	}
}

func TestNextTokenRecognizesKeywordsAndConcatOperators(t *testing.T) {
	got := scanKinds(t, `type T inherits Base { function f():Number => self.x @@ "a" @ "b"; }`)
	want := []token.Kind{
		token.TYPE, token.IDENT, token.INHERITS, token.IDENT, token.LBRACE,
		token.FUNCTION, token.IDENT, token.LPAREN, token.RPAREN, token.COLON,
		token.IDENT, token.ARROW, token.SELF, token.DOT, token.IDENT,
		token.ATAT, token.STRING, token.AT, token.STRING, token.SEMI,
		token.RBRACE, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got kind %v, want %v", i, got[i], k)
		}
	}
}

func TestNextTokenSkipsLineComments(t *testing.T) {
	got := scanKinds(t, "1 // trailing comment\n+ 2")
	want := []token.Kind{token.NUMBER, token.PLUS, token.NUMBER, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i, k := range want {
		if got[i] != k {
			t.Fatalf("token %d: got kind %v, want %v", i, got[i], k)
		}
	}
}
