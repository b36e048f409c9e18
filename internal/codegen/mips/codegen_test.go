package mips

import (
	"strings"
	"testing"

	"github.com/hulklang/hulkc/internal/tac"
)

func TestGenerateIdentityFunctionEmitsPrologueAndReturn(t *testing.T) {
	prog := &tac.Program{
		Functions: []*tac.Function{
			{
				Name:         "function_id",
				Params:       []string{"x"},
				ParamIsFloat: []bool{true},
				Code: []tac.Instr{
					{Op: tac.OpGetParams},
					{Op: tac.OpAssign, Dst: "f01#", Src1: "x", IsFloat: true},
					{Op: tac.OpReturn, Src1: "f01#", IsFloat: true},
				},
			},
		},
		Main: []tac.Instr{
			{Op: tac.OpCallStart},
			{Op: tac.OpAssign, Dst: "f02#", Src1: "1", IsFloat: true},
			{Op: tac.OpSetParam, Src1: "f02#", IsFloat: true},
			{Op: tac.OpCall, Dst: "f03#", Operator: "function_id", IsFloat: true},
			{Op: tac.OpCallEnd},
		},
	}

	out := New().Generate(prog)
	rendered := out.Render()

	if !strings.Contains(rendered, "function_id:") {
		t.Fatalf("expected a function_id label, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "jal function_id") {
		t.Fatalf("expected main to call function_id, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "jr $ra") {
		t.Fatalf("expected the standard return epilogue, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "jal exit_program") {
		t.Fatalf("expected main to halt via exit_program, got:\n%s", rendered)
	}
	if strings.Contains(rendered, "main:\n\taddi $sp, $sp, -8") {
		t.Fatalf("main must not get the callee prologue, got:\n%s", rendered)
	}
}

func TestGenerateStringLiteralInternsOnce(t *testing.T) {
	prog := &tac.Program{
		Main: []tac.Instr{
			{Op: tac.OpAssign, Dst: "t01#", Src1: `"hi"`},
			{Op: tac.OpDeclare, Dst: "s", Size: 4},
			{Op: tac.OpAssign, Dst: "s", Src1: "t01#"},
			{Op: tac.OpAssign, Dst: "t02#", Src1: `"hi"`},
			{Op: tac.OpClear, Dst: "s"},
		},
	}

	out := New().Generate(prog)
	rendered := out.Render()

	if strings.Count(rendered, `.asciiz "hi"`) != 1 {
		t.Fatalf("expected \"hi\" to be interned exactly once, got:\n%s", rendered)
	}
}

func TestGenerateFloatComparisonBranchesDeterministically(t *testing.T) {
	prog := &tac.Program{
		Main: []tac.Instr{
			{Op: tac.OpAssign, Dst: "f01#", Src1: "1", IsFloat: true},
			{Op: tac.OpAssign, Dst: "f02#", Src1: "2", IsFloat: true},
			{Op: tac.OpBinop, Dst: "t01#", Operator: "<", Src1: "f01#", Src2: "f02#"},
		},
	}

	out1 := New().Generate(prog)
	out2 := New().Generate(prog)
	if out1.Render() != out2.Render() {
		t.Fatal("expected identical input to produce byte-identical output (no nondeterministic labels)")
	}
	if !strings.Contains(out1.Render(), "c.lt.s") {
		t.Fatalf("expected a c.lt.s comparison, got:\n%s", out1.Render())
	}
}

func TestGenerateObjectConstructionUsesResolvedOffsets(t *testing.T) {
	prog := &tac.Program{
		Functions: []*tac.Function{
			{
				Name: "type_Point",
				Code: []tac.Instr{
					{Op: tac.OpGetParams},
					{Op: tac.OpAlloc, Dst: "t01#", Operator: "Point", Size: 8},
					{Op: tac.OpAssign, Dst: "f01#", Src1: "0", IsFloat: true},
					{Op: tac.OpSet, Src1: "t01#", Operator: "x", Src2: "f01#", Size: 0, IsFloat: true},
					{Op: tac.OpReturn, Src1: "t01#"},
				},
			},
		},
		Main: []tac.Instr{
			{Op: tac.OpCallStart},
			{Op: tac.OpCall, Dst: "t02#", Operator: "type_Point"},
			{Op: tac.OpCallEnd},
			{Op: tac.OpGet, Dst: "f02#", Src1: "t02#", Operator: "x", Size: 0, IsFloat: true},
		},
	}

	rendered := New().Generate(prog).Render()
	if !strings.Contains(rendered, "li $v0, 9") {
		t.Fatalf("expected sbrk allocation for the object, got:\n%s", rendered)
	}
	if !strings.Contains(rendered, "swc1") || !strings.Contains(rendered, "lwc1") {
		t.Fatalf("expected float-register property access, got:\n%s", rendered)
	}
}
