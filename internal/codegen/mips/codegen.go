// Package mips lowers three-address code (internal/tac) into MIPS32
// assembly text (spec §4.6): register allocation, stack-frame addressing,
// and final assembly of one program image. Grounded on
// original_source/src/codegen.py's MIPSCodeManager.
package mips

import (
	"fmt"
	"strconv"

	"github.com/hulklang/hulkc/internal/config"
	"github.com/hulklang/hulkc/internal/tac"
)

// varSlot records how a declared variable or parameter is addressed.
// Locals (bound by OpDeclare) are $sp-relative: their address moves as
// later declarations push the stack further down, so offset holds the
// sp depth at declare time and the live address is recomputed from the
// generator's *current* depth (codegen.py: "sp_value - alias - size").
// Parameters (bound by OpGetParams) sit above the callee's own frame, at
// a fixed offset from $fp that never moves, so fpRelative short-circuits
// that recomputation.
type varSlot struct {
	offset     int
	size       int
	isFloat    bool
	fpRelative bool
}

// Generator lowers one internal/tac.Program into an Output. It is not
// reusable across programs, but Generate resets all per-function state
// itself, so a single Generator can lower every function in a program.
type Generator struct {
	out       *Output
	vars      map[string]varSlot
	sp        int
	intBank   *bank
	floatBank *bank

	intRegs   []string
	floatRegs []string
	logEvict  bool

	paramsSizeStack []int
	paramsSize      int

	pendingParams       []string
	pendingParamIsFloat []bool

	labelCount int
}

// New returns a Generator ready for Generate, using the package-default
// register pools and no eviction logging.
func New() *Generator {
	return NewWithOptions(nil)
}

// NewWithOptions returns a Generator honoring a .hulkc.yaml BuildOptions
// override (register pool sizes, eviction logging) — nil behaves exactly
// like New.
func NewWithOptions(opts *config.BuildOptions) *Generator {
	return &Generator{
		intRegs:   opts.ResolveIntRegisters(),
		floatRegs: opts.ResolveFloatRegisters(),
		logEvict:  opts != nil && opts.LogRegisterEviction,
	}
}

// Generate lowers prog's functions and its top-level expression into a
// complete assembly listing.
func (g *Generator) Generate(prog *tac.Program) *Output {
	g.out = newOutput()
	for _, fn := range prog.Functions {
		g.out.functions = append(g.out.functions, g.lowerFunction(fn))
	}
	g.out.functions = append(g.out.functions, g.lowerMain(prog.Main))
	return g.out
}

// lowerMain lowers the top-level expression as a bare "main" body: no
// prologue or epilogue (there is no caller frame to restore into), and an
// explicit halt once the expression's value has been computed — codegen.py
// gives "main" the same no-frame treatment since it's the entry point, not
// a callable function.
func (g *Generator) lowerMain(code []tac.Instr) funcBody {
	g.resetFunction(nil, nil)
	var lines []string
	for _, instr := range code {
		g.lower(instr, &lines)
	}
	lines = append(lines, "jal exit_program")
	return funcBody{name: "main", lines: lines}
}

// lowerFunction lowers one user function, method, or synthesized type
// constructor: standard prologue, its body, and (codegen.py's
// generate_mips) no synthesized epilogue beyond what OpReturn already
// emitted — every reachable path through Code ends in a return.
func (g *Generator) lowerFunction(fn *tac.Function) funcBody {
	g.resetFunction(fn.Params, fn.ParamIsFloat)
	lines := []string{
		"addi $sp, $sp, -8",
		"sw $ra, 4($sp)",
		"sw $fp, 0($sp)",
		"move $fp, $sp",
	}
	for _, instr := range fn.Code {
		g.lower(instr, &lines)
	}
	return funcBody{name: fn.Name, lines: lines}
}

func (g *Generator) resetFunction(params []string, paramIsFloat []bool) {
	g.vars = make(map[string]varSlot)
	g.sp = 0
	g.intBank = newBank(g.intRegs)
	g.floatBank = newBank(g.floatRegs)
	g.intBank.logEvict = g.logEvict
	g.floatBank.logEvict = g.logEvict
	g.paramsSizeStack = nil
	g.paramsSize = 0
	g.pendingParams = params
	g.pendingParamIsFloat = paramIsFloat
}

func (g *Generator) newLabel(prefix string) string {
	g.labelCount++
	return fmt.Sprintf("%s_%d", prefix, g.labelCount)
}

// addr returns the "offset($reg)" operand addressing name's current
// stack slot.
func (g *Generator) addr(name string) string {
	slot := g.vars[name]
	if slot.fpRelative {
		return fmt.Sprintf("%d($fp)", slot.offset)
	}
	return fmt.Sprintf("%d($sp)", g.sp-slot.offset-slot.size)
}

func isTemp(ref string) bool {
	return len(ref) > 0 && ref[len(ref)-1] == '#'
}

func isFloatTemp(ref string) bool {
	return len(ref) > 0 && ref[0] == 'f'
}

func isStringLiteral(ref string) bool {
	return len(ref) > 0 && ref[0] == '"'
}

func isNumericLiteral(ref string) bool {
	_, err := strconv.ParseFloat(ref, 64)
	return err == nil
}

// regOf returns the register already holding a temp's value — it never
// touches memory, matching codegen.py's assumption (enforced on the
// internal/tac side: every Name reference is first copied into a temp)
// that a bare operand reference is always either a temp or a declared
// variable, never a literal.
func (g *Generator) regOf(ref string) string {
	if isFloatTemp(ref) {
		return g.floatBank.get(ref)
	}
	return g.intBank.get(ref)
}

// operand returns a register holding ref's current value, loading it from
// its stack slot first if ref names a declared variable rather than an
// already-resident temp.
func (g *Generator) operand(ref string, lines *[]string) string {
	if isTemp(ref) {
		return g.regOf(ref)
	}
	return g.loadVar(ref, lines)
}

func (g *Generator) loadVar(name string, lines *[]string) string {
	slot := g.vars[name]
	reg := "$t0"
	instr := "lw"
	if slot.isFloat {
		reg = "$f12"
		instr = "lwc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, %s", instr, reg, g.addr(name)))
	return reg
}
