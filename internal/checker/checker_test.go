package checker

import (
	"testing"

	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/errors"
)

func num(v float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }

func hasCode(bag *errors.Bag, code errors.Code) bool {
	for _, e := range bag.Errors() {
		if e.Code == code {
			return true
		}
	}
	return false
}

// TestCheckIdentityFunction exercises spec §8 scenario 1: a single
// top-level function call that type-checks end to end.
func TestCheckIdentityFunction(t *testing.T) {
	fn := &ast.Function{
		Name:             "id",
		Params:           &ast.Params{List: []*ast.AnnotatedIdentifier{{Name: "x", Annotation: "Number"}}},
		ReturnAnnotation: "Number",
		Body:             &ast.Name{Value: "x"},
	}
	prog := &ast.Program{
		Functions: []*ast.Function{fn},
		Main:      &ast.FunctionCall{Name: "id", Args: []ast.Expression{num(1)}},
	}

	res := Check(prog)
	if !res.OK {
		t.Fatalf("expected program to check cleanly, got errors: %v", res.Errors.Errors())
	}
}

// TestCheckInheritanceClosure exercises spec §8 scenario 4: a child type
// whose constructor re-declares its parent's required parameter.
func TestCheckInheritanceClosure(t *testing.T) {
	typeA := &ast.TypeDeclaration{
		Name:       "A",
		CtorParams: &ast.Params{List: []*ast.AnnotatedIdentifier{{Name: "v", Annotation: "Number"}}},
		Properties: []*ast.Declaration{{Name: "v", Annotation: "Number", Value: &ast.Name{Value: "v"}}},
	}
	typeB := &ast.TypeDeclaration{
		Name:       "B",
		ParentName: "A",
		CtorParams: &ast.Params{List: []*ast.AnnotatedIdentifier{{Name: "v", Annotation: "Number"}}},
		ParentArgs: []ast.Expression{&ast.Name{Value: "v"}},
	}
	prog := &ast.Program{
		Types: []*ast.TypeDeclaration{typeA, typeB},
		Main:  &ast.Instance{TypeName: "B", Args: []ast.Expression{num(1)}},
	}

	res := Check(prog)
	if !res.OK {
		t.Fatalf("expected inheriting type to check cleanly, got errors: %v", res.Errors.Errors())
	}

	b, ok := res.Root.GetType("B")
	if !ok {
		t.Fatal("expected B to be defined")
	}
	if b.Properties.Len() != 1 {
		t.Fatalf("expected B to carry A's single inherited property, got %d", b.Properties.Len())
	}
}

// TestCheckMissingInheritedParamIsFatal exercises the inherited-constructor
// subsumption rule (spec §4.1): B drops A's required parameter.
func TestCheckMissingInheritedParamIsFatal(t *testing.T) {
	typeA := &ast.TypeDeclaration{
		Name:       "A",
		CtorParams: &ast.Params{List: []*ast.AnnotatedIdentifier{{Name: "v", Annotation: "Number"}}},
		Properties: []*ast.Declaration{{Name: "v", Annotation: "Number", Value: &ast.Name{Value: "v"}}},
	}
	typeB := &ast.TypeDeclaration{
		Name:       "B",
		ParentName: "A",
		CtorParams: &ast.Params{},
	}
	prog := &ast.Program{
		Types: []*ast.TypeDeclaration{typeA, typeB},
		Main:  num(0),
	}

	res := Check(prog)
	if res.OK {
		t.Fatal("expected a missing inherited parameter to fail the check")
	}
	if !hasCode(res.Errors, errors.ErrInheritParamMiss) {
		t.Fatalf("expected ErrInheritParamMiss, got %v", res.Errors.Errors())
	}
}

// TestCheckBreakOutsideLoopRejected exercises spec §7's break/continue
// context rule.
func TestCheckBreakOutsideLoopRejected(t *testing.T) {
	prog := &ast.Program{
		Main: &ast.CompoundInstruction{Statements: []ast.Statement{&ast.BreakStatement{}}},
	}

	res := Check(prog)
	if res.OK {
		t.Fatal("expected break outside a loop to be rejected")
	}
	if !hasCode(res.Errors, errors.ErrBreakOutsideLoop) {
		t.Fatalf("expected ErrBreakOutsideLoop, got %v", res.Errors.Errors())
	}
}

// TestCheckUndefinedVariableRejected exercises the reference-error path.
func TestCheckUndefinedVariableRejected(t *testing.T) {
	prog := &ast.Program{Main: &ast.Name{Value: "nope"}}

	res := Check(prog)
	if res.OK {
		t.Fatal("expected an undefined variable to be rejected")
	}
	if !hasCode(res.Errors, errors.ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", res.Errors.Errors())
	}
}

// TestCheckWhileConditionMustBeBool exercises the condition-type rule
// shared by while/if/elif.
func TestCheckWhileConditionMustBeBool(t *testing.T) {
	prog := &ast.Program{
		Main: &ast.WhileLoop{Cond: num(1), Body: num(1)},
	}

	res := Check(prog)
	if res.OK {
		t.Fatal("expected a non-bool while condition to be rejected")
	}
	if !hasCode(res.Errors, errors.ErrCondNotBool) {
		t.Fatalf("expected ErrCondNotBool, got %v", res.Errors.Errors())
	}
}
