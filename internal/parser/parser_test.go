package parser

import (
	"testing"

	"github.com/hulklang/hulkc/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := ParseProgram(src)
	if errs.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs.Errors())
	}
	return prog
}

func TestParseProgramTopLevelArithmeticExpression(t *testing.T) {
	prog := mustParse(t, `1 + (1 - -1) * 2;`)
	bin, ok := prog.Main.(*ast.BinOp)
	if !ok {
		t.Fatalf("got %T, want *ast.BinOp", prog.Main)
	}
	if bin.Op != "+" {
		t.Fatalf("got op %q, want +", bin.Op)
	}
	if _, ok := bin.Left.(*ast.NumberLiteral); !ok {
		t.Fatalf("left operand is %T, want *ast.NumberLiteral", bin.Left)
	}
	rhs, ok := bin.Right.(*ast.BinOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("right operand is %#v, want a '*' BinOp", bin.Right)
	}
}

func TestParseProgramLetBindingChain(t *testing.T) {
	prog := mustParse(t, `let x : Number = 1, y : Number = x + 1 in print(y);`)
	v, ok := prog.Main.(*ast.VarInst)
	if !ok {
		t.Fatalf("got %T, want *ast.VarInst", prog.Main)
	}
	if len(v.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(v.Declarations))
	}
	if v.Declarations[0].Name != "x" || v.Declarations[0].Annotation != "Number" {
		t.Fatalf("first declaration = %+v", v.Declarations[0])
	}
	call, ok := v.Body.(*ast.FunctionCall)
	if !ok || call.Name != "print" {
		t.Fatalf("body is %#v, want a call to print", v.Body)
	}
}

func TestParseProgramConditionalRequiresElse(t *testing.T) {
	prog := mustParse(t, `if (true) 1 elif (false) 2 else 3;`)
	cond, ok := prog.Main.(*ast.Conditional)
	if !ok {
		t.Fatalf("got %T, want *ast.Conditional", prog.Main)
	}
	if cond.If == nil || cond.Else == nil {
		t.Fatalf("conditional missing if/else arm: %+v", cond)
	}
	if len(cond.Elifs) != 1 {
		t.Fatalf("got %d elif arms, want 1", len(cond.Elifs))
	}
}

func TestParseProgramMissingElseIsSyntaxError(t *testing.T) {
	_, errs := ParseProgram(`if (true) 1 elif (false) 2;`)
	if !errs.HasErrors() {
		t.Fatalf("expected a syntax error for a conditional with no else arm")
	}
}

func TestParseProgramWhileLoopAndAssignment(t *testing.T) {
	prog := mustParse(t, `while (x < 10) x := x + 1;`)
	loop, ok := prog.Main.(*ast.WhileLoop)
	if !ok {
		t.Fatalf("got %T, want *ast.WhileLoop", prog.Main)
	}
	assign, ok := loop.Body.(*ast.Assignment)
	if !ok {
		t.Fatalf("loop body is %T, want *ast.Assignment", loop.Body)
	}
	if _, ok := assign.Target.(*ast.Name); !ok {
		t.Fatalf("assignment target is %T, want *ast.Name", assign.Target)
	}
}

func TestParseProgramFunctionDeclaration(t *testing.T) {
	prog := mustParse(t, `function square(x: Number): Number => x * x; 1;`)
	if len(prog.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "square" || fn.ReturnAnnotation != "Number" {
		t.Fatalf("function = %+v", fn)
	}
	if len(fn.Params.List) != 1 || fn.Params.List[0].Name != "x" || fn.Params.List[0].Annotation != "Number" {
		t.Fatalf("params = %+v", fn.Params.List)
	}
}

func TestParseProgramTypeDeclarationWithInheritance(t *testing.T) {
	prog := mustParse(t, `
		type Animal(name: String) {
			name = name;
			function speak(): String => "...";
		}
		type Dog(name: String) inherits Animal(name) {
			function speak(): String => "Woof";
		}
		new Dog("Rex");
	`)
	if len(prog.Types) != 2 {
		t.Fatalf("got %d types, want 2", len(prog.Types))
	}
	dog := prog.Types[1]
	if dog.Name != "Dog" || dog.ParentName != "Animal" {
		t.Fatalf("Dog declaration = %+v", dog)
	}
	if len(dog.ParentArgs) != 1 {
		t.Fatalf("got %d parent args, want 1", len(dog.ParentArgs))
	}
	inst, ok := prog.Main.(*ast.Instance)
	if !ok || inst.TypeName != "Dog" {
		t.Fatalf("main is %#v, want new Dog(...)", prog.Main)
	}
}

func TestParseProgramArraysAndIndexing(t *testing.T) {
	prog := mustParse(t, `let a = [1, 2, 3] in a[0] + a[1];`)
	v := prog.Main.(*ast.VarInst)
	arr, ok := v.Declarations[0].Value.(*ast.ArrayDeclarationExplicit)
	if !ok || len(arr.Items) != 3 {
		t.Fatalf("declaration value = %#v, want a 3-item array literal", v.Declarations[0].Value)
	}
	bin, ok := v.Body.(*ast.BinOp)
	if !ok {
		t.Fatalf("body is %T, want *ast.BinOp", v.Body)
	}
	if _, ok := bin.Left.(*ast.ArrayAccess); !ok {
		t.Fatalf("left operand is %T, want *ast.ArrayAccess", bin.Left)
	}
}

func TestParseProgramAccessChainAndDowncast(t *testing.T) {
	prog := mustParse(t, `(self.parent as Animal).speak();`)
	access, ok := prog.Main.(*ast.Access)
	if !ok {
		t.Fatalf("got %T, want *ast.Access", prog.Main)
	}
	if _, ok := access.Right.(*ast.FunctionCall); !ok {
		t.Fatalf("access right side is %T, want *ast.FunctionCall", access.Right)
	}
	grouped, ok := access.Left.(*ast.Grouped)
	if !ok {
		t.Fatalf("access left side is %T, want *ast.Grouped", access.Left)
	}
	downcast, ok := grouped.Inner.(*ast.Downcast)
	if !ok || downcast.TypeName != "Animal" {
		t.Fatalf("grouped inner is %#v, want a downcast to Animal", grouped.Inner)
	}
}

func TestParseProgramStringConcatenation(t *testing.T) {
	prog := mustParse(t, `"a" @@ "b" @ "c";`)
	outer, ok := prog.Main.(*ast.StrConcat)
	if !ok {
		t.Fatalf("got %T, want *ast.StrConcat", prog.Main)
	}
	// Concatenation is left-associative: ("a" @@ "b") @ "c".
	if outer.IsDouble {
		t.Fatalf("outer concat should be the single '@' form")
	}
	inner, ok := outer.Left.(*ast.StrConcat)
	if !ok || !inner.IsDouble {
		t.Fatalf("left operand = %#v, want a '@@' (double) concat", outer.Left)
	}
}

func TestParseProgramCompoundInstructionAndControlFlow(t *testing.T) {
	prog := mustParse(t, `{ let x = 1 in x; break; continue; return x; }`)
	block, ok := prog.Main.(*ast.CompoundInstruction)
	if !ok {
		t.Fatalf("got %T, want *ast.CompoundInstruction", prog.Main)
	}
	if len(block.Statements) != 4 {
		t.Fatalf("got %d statements, want 4", len(block.Statements))
	}
	if _, ok := block.Statements[1].(*ast.BreakStatement); !ok {
		t.Fatalf("statement 1 is %T, want *ast.BreakStatement", block.Statements[1])
	}
	if _, ok := block.Statements[2].(*ast.ContinueStatement); !ok {
		t.Fatalf("statement 2 is %T, want *ast.ContinueStatement", block.Statements[2])
	}
	ret, ok := block.Statements[3].(*ast.ReturnStatement)
	if !ok || ret.Value == nil {
		t.Fatalf("statement 3 is %#v, want a return with a value", block.Statements[3])
	}
}

func TestParseProgramUnterminatedBlockIsSyntaxError(t *testing.T) {
	_, errs := ParseProgram(`{ 1; 2;`)
	if !errs.HasErrors() {
		t.Fatalf("expected a syntax error for an unterminated block")
	}
}

func TestParseProgramNoTopLevelExpressionIsSyntaxError(t *testing.T) {
	_, errs := ParseProgram(`function f(): Number => 1;`)
	if !errs.HasErrors() {
		t.Fatalf("expected a syntax error when the program has no top-level expression")
	}
}
