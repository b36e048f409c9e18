package tac

import (
	"testing"

	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/checker"
)

func num(v float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: v} }

func countOp(code []Instr, op Op) int {
	n := 0
	for _, i := range code {
		if i.Op == op {
			n++
		}
	}
	return n
}

// TestGenerateIdentityFunction exercises spec §8 scenario 1 end to end:
// check, then lower, a single top-level function call.
func TestGenerateIdentityFunction(t *testing.T) {
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

	res := checker.Check(prog)
	if !res.OK {
		t.Fatalf("expected program to check cleanly, got errors: %v", res.Errors.Errors())
	}

	prog2 := New(res).Generate(prog)
	if len(prog2.Functions) != 1 {
		t.Fatalf("expected one lowered function, got %d", len(prog2.Functions))
	}
	fnOut := prog2.Functions[0]
	if fnOut.Name != "function_id" {
		t.Fatalf("expected mangled name function_id, got %s", fnOut.Name)
	}
	if countOp(fnOut.Code, OpGetParams) != 1 {
		t.Fatalf("expected exactly one OpGetParams, got %v", fnOut.Code)
	}
	if countOp(fnOut.Code, OpReturn) != 1 {
		t.Fatalf("expected exactly one OpReturn, got %v", fnOut.Code)
	}

	if countOp(prog2.Main, OpCallStart) != 1 || countOp(prog2.Main, OpCall) != 1 || countOp(prog2.Main, OpCallEnd) != 1 {
		t.Fatalf("expected main to emit one full call sequence, got %v", prog2.Main)
	}
}

// TestGenerateInstanceConstructsAndInherits exercises spec §8 scenario 4:
// inherited property carry-over through the synthesized type_B constructor.
func TestGenerateInstanceConstructsAndInherits(t *testing.T) {
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

	res := checker.Check(prog)
	if !res.OK {
		t.Fatalf("expected program to check cleanly, got errors: %v", res.Errors.Errors())
	}

	out := New(res).Generate(prog)

	var ctorA, ctorB *Function
	for _, fn := range out.Functions {
		switch fn.Name {
		case "type_A":
			ctorA = fn
		case "type_B":
			ctorB = fn
		}
	}
	if ctorA == nil || ctorB == nil {
		t.Fatalf("expected both type_A and type_B constructors, got %v", out.Functions)
	}
	if countOp(ctorA.Code, OpAlloc) != 1 {
		t.Fatalf("expected type_A to allocate itself once, got %v", ctorA.Code)
	}
	if countOp(ctorB.Code, OpCall) != 1 {
		t.Fatalf("expected type_B to call its parent constructor once, got %v", ctorB.Code)
	}
	if countOp(ctorB.Code, OpGet) != 1 || countOp(ctorB.Code, OpSet) != 1 {
		t.Fatalf("expected type_B to copy exactly A's one inherited property, got %v", ctorB.Code)
	}

	if countOp(out.Main, OpCall) != 1 {
		t.Fatalf("expected main to call type_B once, got %v", out.Main)
	}
}

// TestGenerateWhileLoopBreakContinue checks that break/continue resolve to
// distinct labels: continue re-enters the condition check, break lands past
// the loop entirely.
func TestGenerateWhileLoopBreakContinue(t *testing.T) {
	body := &ast.CompoundInstruction{Statements: []ast.Statement{
		&ast.ExecutableExpression{Expr: &ast.Conditional{
			If:   &ast.IfStatement{Cond: &ast.BoolLiteral{Value: true}, Body: &ast.CompoundInstruction{Statements: []ast.Statement{&ast.BreakStatement{}}}},
			Else: &ast.ElseStatement{Body: &ast.CompoundInstruction{Statements: []ast.Statement{&ast.ContinueStatement{}}}},
		}},
	}}
	loop := &ast.WhileLoop{Cond: &ast.BoolLiteral{Value: true}, Body: body}
	prog := &ast.Program{Main: loop}

	res := checker.Check(prog)
	if !res.OK {
		t.Fatalf("expected program to check cleanly, got errors: %v", res.Errors.Errors())
	}

	out := New(res).Generate(prog)
	if countOp(out.Main, OpJump) < 2 {
		t.Fatalf("expected break and continue to each emit a jump, got %v", out.Main)
	}
	if countOp(out.Main, OpLabel) < 3 {
		t.Fatalf("expected at least the loop's three labels (entry, condition, after), got %v", out.Main)
	}
}

// TestGenerateConditionalUnifiesIntoOneDestination guards against the
// original generator's bug (see DESIGN.md): every branch's value must land
// in the same destination variable, not whichever branch is lexically last.
func TestGenerateConditionalUnifiesIntoOneDestination(t *testing.T) {
	cond := &ast.Conditional{
		If:   &ast.IfStatement{Cond: &ast.BoolLiteral{Value: true}, Body: num(1)},
		Else: &ast.ElseStatement{Body: num(2)},
	}
	prog := &ast.Program{Main: cond}

	res := checker.Check(prog)
	if !res.OK {
		t.Fatalf("expected program to check cleanly, got errors: %v", res.Errors.Errors())
	}

	out := New(res).Generate(prog)

	// A merge assign copies a temp into the conditional's shared destination
	// (Src1 names another temp, not a literal); both branches must target
	// the same destination regardless of which one runs.
	var mergeDst string
	for _, i := range out.Main {
		isTempSrc := i.Op == OpAssign && len(i.Src1) > 0 && i.Src1[len(i.Src1)-1] == '#'
		if !isTempSrc {
			continue
		}
		if mergeDst == "" {
			mergeDst = i.Dst
		} else if i.Dst != mergeDst {
			t.Fatalf("expected both branches to merge into %s, got %s", mergeDst, i.Dst)
		}
	}
	if mergeDst == "" {
		t.Fatal("expected at least one merge assignment")
	}
}
