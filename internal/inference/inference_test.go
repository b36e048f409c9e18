package inference

import (
	"testing"

	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/symbols"
	"github.com/hulklang/hulkc/internal/types"
)

func num(v float64) *ast.NumberLiteral {
	return &ast.NumberLiteral{Value: v}
}

func TestDeduceBinOpNumber(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()

	e := &ast.BinOp{Op: "+", Left: num(1), Right: num(2)}
	got := s.Deduce(e, root)
	if !got.Equal(types.Number) {
		t.Fatalf("expected number, got %v", got)
	}
}

func TestDeduceBinOpMismatchedOperandsIsUndeducible(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()

	e := &ast.BinOp{Op: "+", Left: num(1), Right: &ast.StringLiteral{Value: "x"}}
	got := s.Deduce(e, root)
	if !got.Equal(types.NoDeducible) {
		t.Fatalf("expected NoDeducible, got %v", got)
	}
}

func TestDeduceStringEquality(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()

	e := &ast.BinOp{Op: "==", Left: &ast.StringLiteral{Value: "a"}, Right: &ast.StringLiteral{Value: "b"}}
	got := s.Deduce(e, root)
	if !got.Equal(types.Bool) {
		t.Fatalf("expected bool from string equality, got %v", got)
	}
}

func TestDeduceArrayAccess(t *testing.T) {
	reg := types.NewRegistry()
	s := New(reg)
	root := symbols.NewRootTable()
	root.DefineVar("xs", reg.MakeArrayType(types.Number, 0), 0)

	e := &ast.ArrayAccess{Array: &ast.Name{Value: "xs"}, Index: num(0)}
	got := s.Deduce(e, root)
	if !got.Equal(types.Number) {
		t.Fatalf("expected number item type, got %v", got)
	}
}

func TestDeduceArrayAccessOnNonArrayIsUndeducible(t *testing.T) {
	reg := types.NewRegistry()
	s := New(reg)
	root := symbols.NewRootTable()
	root.DefineVar("x", types.Number, 0)

	e := &ast.ArrayAccess{Array: &ast.Name{Value: "x"}, Index: num(0)}
	got := s.Deduce(e, root)
	if !got.Equal(types.NoDeducible) {
		t.Fatalf("expected NoDeducible indexing a number, got %v", got)
	}
}

func TestDeduceConditionalUnifiesBranches(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()

	cond := &ast.Conditional{
		If:   &ast.IfStatement{Cond: &ast.BoolLiteral{Value: true}, Body: num(1)},
		Else: &ast.ElseStatement{Body: num(2)},
	}
	got := s.Deduce(cond, root)
	if !got.Equal(types.Number) {
		t.Fatalf("expected number, got %v", got)
	}
}

func TestDeduceConditionalBranchMismatchIsUndeducible(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()

	cond := &ast.Conditional{
		If:   &ast.IfStatement{Cond: &ast.BoolLiteral{Value: true}, Body: num(1)},
		Else: &ast.ElseStatement{Body: &ast.StringLiteral{Value: "x"}},
	}
	got := s.Deduce(cond, root)
	if !got.Equal(types.NoDeducible) {
		t.Fatalf("expected NoDeducible, got %v", got)
	}
}

func TestRecordReturnAccumulatesPerFunction(t *testing.T) {
	s := New(types.NewRegistry())
	root := symbols.NewRootTable()
	root.SetFunction("function_f")

	body := &ast.CompoundInstruction{Statements: []ast.Statement{
		&ast.ReturnStatement{Value: num(1)},
		&ast.ReturnStatement{Value: num(2)},
	}}

	s.Deduce(body, root)

	got := s.ReturnTypes["function_f"]
	if len(got) != 2 {
		t.Fatalf("expected 2 recorded returns, got %d", len(got))
	}
	if !got[0].Equal(types.Number) || !got[1].Equal(types.Number) {
		t.Fatalf("expected both returns to deduce number, got %v", got)
	}
}
