package mips

import (
	"fmt"
	"strconv"

	"github.com/hulklang/hulkc/internal/tac"
)

// pushAllFrameSize is the byte span push_all/pop_all reserve for
// themselves (spec §4.6: a 92-byte caller-save area) — must match
// lib/code.s exactly.
const pushAllFrameSize = 92

// lower appends instr's MIPS translation to lines. One case per tac.Op,
// grounded case-by-case on codegen.py's generate_* methods (see each
// helper below for its specific counterpart).
func (g *Generator) lower(instr tac.Instr, lines *[]string) {
	switch instr.Op {
	case tac.OpDeclare:
		g.lowerDeclare(instr, lines)
	case tac.OpClear:
		g.lowerClear(instr, lines)
	case tac.OpAssign:
		g.lowerAssign(instr, lines)
	case tac.OpBinop:
		g.lowerBinop(instr, lines)
	case tac.OpUnary:
		g.lowerUnary(instr, lines)
	case tac.OpLabel:
		*lines = append(*lines, instr.Operator+":")
	case tac.OpJump:
		*lines = append(*lines, "j "+instr.Operator)
	case tac.OpJumpNZ:
		reg := g.operand(instr.Src1, lines)
		*lines = append(*lines, fmt.Sprintf("bnez %s, %s", reg, instr.Operator))
	case tac.OpAlloc:
		g.lowerAlloc(instr, lines)
	case tac.OpAllocArray:
		g.lowerAllocArray(instr, lines)
	case tac.OpSet:
		g.lowerSet(instr, lines)
	case tac.OpGet:
		g.lowerGet(instr, lines)
	case tac.OpSetIndex:
		g.lowerSetIndex(instr, lines)
	case tac.OpGetIndex:
		g.lowerGetIndex(instr, lines)
	case tac.OpGetParams:
		g.lowerGetParams(lines)
	case tac.OpCallStart:
		g.paramsSizeStack = append(g.paramsSizeStack, g.paramsSize)
		g.paramsSize = 0
		g.sp += pushAllFrameSize
		*lines = append(*lines, "jal push_all")
	case tac.OpSetParam:
		g.lowerSetParam(instr, lines)
	case tac.OpCall:
		g.lowerCall(instr, lines)
	case tac.OpCallEnd:
		g.sp -= pushAllFrameSize
		n := len(g.paramsSizeStack) - 1
		g.paramsSize = g.paramsSizeStack[n]
		g.paramsSizeStack = g.paramsSizeStack[:n]
	case tac.OpReturn:
		g.lowerReturn(instr, lines)
	}
}

// lowerDeclare reserves instr.Size bytes for a new local, binding it at
// the stack depth *before* the bump (codegen.py: generate_declare).
func (g *Generator) lowerDeclare(instr tac.Instr, lines *[]string) {
	g.vars[instr.Dst] = varSlot{offset: g.sp, size: instr.Size, isFloat: instr.IsFloat}
	g.sp += instr.Size
	*lines = append(*lines, fmt.Sprintf("addi $sp, $sp, -%d", instr.Size))
}

func (g *Generator) lowerClear(instr tac.Instr, lines *[]string) {
	slot := g.vars[instr.Dst]
	delete(g.vars, instr.Dst)
	*lines = append(*lines, fmt.Sprintf("addi $sp, $sp, %d", slot.size))
}

// lowerAssign covers codegen.py's generate_assign's four cases, plus the
// var-to-var case internal/tac's Name lowering relies on (a declared
// variable copied into a fresh temp).
func (g *Generator) lowerAssign(instr tac.Instr, lines *[]string) {
	_, dstIsVar := g.vars[instr.Dst]

	if dstIsVar {
		switch {
		case isTemp(instr.Src1):
			reg := g.regOf(instr.Src1)
			g.storeVar(instr.Dst, reg, lines)
		case isStringLiteral(instr.Src1):
			label := g.out.intern(instr.Src1)
			*lines = append(*lines, fmt.Sprintf("la $t0, %s", label))
			g.storeVar(instr.Dst, "$t0", lines)
		case isNumericLiteral(instr.Src1):
			g.storeLiteral(instr.Dst, instr.Src1, instr.IsFloat, lines)
		default:
			// another declared variable's bare name
			reg := g.loadVar(instr.Src1, lines)
			g.storeVar(instr.Dst, reg, lines)
		}
		return
	}

	// Dst is a temp: materialize Src1 into its register.
	reg := g.regOf(instr.Dst)
	switch {
	case isStringLiteral(instr.Src1):
		label := g.out.intern(instr.Src1)
		*lines = append(*lines, fmt.Sprintf("la %s, %s", reg, label))
	case isNumericLiteral(instr.Src1):
		g.loadLiteralInto(reg, instr.Src1, instr.IsFloat, lines)
	default:
		slot := g.vars[instr.Src1]
		loadInstr := "lw"
		if slot.isFloat {
			loadInstr = "lwc1"
		}
		*lines = append(*lines, fmt.Sprintf("%s %s, %s", loadInstr, reg, g.addr(instr.Src1)))
	}
}

func (g *Generator) storeVar(name, reg string, lines *[]string) {
	slot := g.vars[name]
	instr := "sw"
	if slot.isFloat {
		instr = "swc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, %s", instr, reg, g.addr(name)))
}

func (g *Generator) storeLiteral(name, literal string, isFloat bool, lines *[]string) {
	if isFloat {
		*lines = append(*lines, fmt.Sprintf("li.s $f12, %s", literal))
		g.storeVar(name, "$f12", lines)
		return
	}
	*lines = append(*lines, fmt.Sprintf("li $t0, %s", literalAsInt(literal)))
	g.storeVar(name, "$t0", lines)
}

func (g *Generator) loadLiteralInto(reg, literal string, isFloat bool, lines *[]string) {
	if isFloat {
		*lines = append(*lines, fmt.Sprintf("li.s %s, %s", reg, literal))
		return
	}
	*lines = append(*lines, fmt.Sprintf("li %s, %s", reg, literalAsInt(literal)))
}

// literalAsInt truncates a "1"/"0" boolean literal or an integral Number
// literal to the plain integer text "li" expects.
func literalAsInt(literal string) string {
	if f, err := strconv.ParseFloat(literal, 64); err == nil {
		return strconv.Itoa(int(f))
	}
	return literal
}

var arithmeticOps = map[string]string{"+": "add.s", "-": "sub.s", "*": "mul.s", "/": "div.s"}
var floatCompareOps = map[string]string{"==": "c.eq.s", "!=": "c.eq.s", "<": "c.lt.s", "<=": "c.le.s", ">": "c.lt.s", ">=": "c.le.s"}

// lowerBinop picks arithmetic float math, a float-comparison-plus-branch
// sequence, a string-equality runtime call, or a plain int logical op,
// by instr.Operator — codegen.py's generate_binop switches the exact same
// way on node.value.
func (g *Generator) lowerBinop(instr tac.Instr, lines *[]string) {
	if mnemonic, ok := arithmeticOps[instr.Operator]; ok {
		left := g.operand(instr.Src1, lines)
		right := g.operand(instr.Src2, lines)
		dst := g.regOf(instr.Dst)
		*lines = append(*lines, fmt.Sprintf("%s %s, %s, %s", mnemonic, dst, left, right))
		return
	}

	if instr.Operator == "==" || instr.Operator == "!=" {
		if isFloatTemp(instr.Src1) {
			g.lowerFloatCompare(instr, lines)
		} else {
			g.lowerStringCompare(instr, lines)
		}
		return
	}

	if _, ok := floatCompareOps[instr.Operator]; ok {
		g.lowerFloatCompare(instr, lines)
		return
	}

	// && / || over Bool, which lives in the int bank as 0/1.
	left := g.operand(instr.Src1, lines)
	right := g.operand(instr.Src2, lines)
	dst := g.regOf(instr.Dst)
	mnemonic := "and"
	if instr.Operator == "||" {
		mnemonic = "or"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, %s, %s", mnemonic, dst, left, right))
}

// lowerFloatCompare emits the c.xx.s/branch-on-coprocessor-flag sequence
// MIPS needs to turn a float comparison into a plain 0/1 int value
// (codegen.py: generate_binop's comparison branch, with a deterministic
// label in place of its uuid1-based random_label()).
func (g *Generator) lowerFloatCompare(instr tac.Instr, lines *[]string) {
	left := g.operand(instr.Src1, lines)
	right := g.operand(instr.Src2, lines)
	dst := g.regOf(instr.Dst)
	label := g.newLabel("cmp")

	cond, swapped := instr.Operator, false
	switch cond {
	case ">":
		cond, swapped = "<", true
	case ">=":
		cond, swapped = "<=", true
	}
	a, b := left, right
	if swapped {
		a, b = right, left
	}
	mnemonic := floatCompareOps[cond]
	*lines = append(*lines, fmt.Sprintf("%s %s, %s", mnemonic, a, b))

	branch, trueVal, falseVal := "bc1t", "1", "0"
	if instr.Operator == "!=" {
		trueVal, falseVal = "0", "1"
	}
	*lines = append(*lines,
		fmt.Sprintf("li %s, %s", dst, trueVal),
		fmt.Sprintf("%s %s", branch, label),
		fmt.Sprintf("li %s, %s", dst, falseVal),
		label+":",
	)
}

// lowerStringCompare dispatches to the runtime's byte-wise streq for "=="
// and "!=" over String, which has no direct MIPS instruction.
func (g *Generator) lowerStringCompare(instr tac.Instr, lines *[]string) {
	left := g.operand(instr.Src1, lines)
	right := g.operand(instr.Src2, lines)
	*lines = append(*lines,
		"addi $sp, $sp, -8",
		fmt.Sprintf("sw %s, 4($sp)", left),
		fmt.Sprintf("sw %s, 0($sp)", right),
		"jal streq",
		"addi $sp, $sp, 8",
	)
	dst := g.regOf(instr.Dst)
	if instr.Operator == "!=" {
		*lines = append(*lines, fmt.Sprintf("xori %s, $v0, 1", dst))
		return
	}
	*lines = append(*lines, fmt.Sprintf("move %s, $v0", dst))
}

// lowerUnary: "-" negates a Number, "!" flips a Bool 0/1, "+" is a no-op
// copy (codegen.py's generate_unary emits nothing at all for unary "+";
// this still has to land the value in Dst's own register).
func (g *Generator) lowerUnary(instr tac.Instr, lines *[]string) {
	src := g.operand(instr.Src1, lines)
	dst := g.regOf(instr.Dst)
	switch instr.Operator {
	case "-":
		*lines = append(*lines, fmt.Sprintf("neg.s %s, %s", dst, src))
	case "!":
		*lines = append(*lines, fmt.Sprintf("xori %s, %s, 1", dst, src))
	default:
		*lines = append(*lines, fmt.Sprintf("mov.s %s, %s", dst, src))
	}
}

// lowerAlloc/lowerAllocArray heap-allocate instr.Size bytes via sbrk,
// matching codegen.py's generate_alloc/generate_alloc_array exactly.
func (g *Generator) lowerAlloc(instr tac.Instr, lines *[]string) {
	dst := g.regOf(instr.Dst)
	*lines = append(*lines,
		fmt.Sprintf("li $a0, %d", instr.Size),
		"li $v0, 9",
		"syscall",
		fmt.Sprintf("move %s, $v0", dst),
	)
}

func (g *Generator) lowerAllocArray(instr tac.Instr, lines *[]string) {
	dst := g.regOf(instr.Dst)
	bytes := instr.Size * 4
	*lines = append(*lines,
		fmt.Sprintf("li $a0, %d", bytes),
		"li $v0, 9",
		"syscall",
		fmt.Sprintf("move %s, $v0", dst),
	)
}

// lowerSet/lowerGet use the byte offset internal/tac already resolved
// from the object's static type (instr.Size), so no layout lookup happens
// here at all (codegen.py: generate_set/generate_get).
func (g *Generator) lowerSet(instr tac.Instr, lines *[]string) {
	obj := g.operand(instr.Src1, lines)
	val := g.operand(instr.Src2, lines)
	storeInstr := "sw"
	if instr.IsFloat {
		storeInstr = "swc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, %d(%s)", storeInstr, val, instr.Size, obj))
}

func (g *Generator) lowerGet(instr tac.Instr, lines *[]string) {
	obj := g.operand(instr.Src1, lines)
	dst := g.regOf(instr.Dst)
	loadInstr := "lw"
	if instr.IsFloat {
		loadInstr = "lwc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, %d(%s)", loadInstr, dst, instr.Size, obj))
}

// lowerSetIndex/lowerGetIndex address an array element as base + index*4:
// a constant-literal index folds to a constant offset; a variable index
// is converted from its float representation (cvt.w.s/mfc1) and shifted
// (codegen.py's generate_set_index/generate_get_index).
func (g *Generator) lowerSetIndex(instr tac.Instr, lines *[]string) {
	base := g.operand(instr.Src1, lines)
	val := g.operand(instr.Operator, lines)
	addrReg := g.indexAddr(base, instr.Src2, lines)
	storeInstr := "sw"
	if instr.IsFloat {
		storeInstr = "swc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, 0(%s)", storeInstr, val, addrReg))
}

func (g *Generator) lowerGetIndex(instr tac.Instr, lines *[]string) {
	base := g.operand(instr.Src1, lines)
	dst := g.regOf(instr.Dst)
	addrReg := g.indexAddr(base, instr.Src2, lines)
	loadInstr := "lw"
	if instr.IsFloat {
		loadInstr = "lwc1"
	}
	*lines = append(*lines, fmt.Sprintf("%s %s, 0(%s)", loadInstr, dst, addrReg))
}

// indexAddr leaves the element address (base + index*4) in $t0.
func (g *Generator) indexAddr(base, index string, lines *[]string) string {
	if n, err := strconv.Atoi(index); err == nil {
		*lines = append(*lines, fmt.Sprintf("addi $t0, %s, %d", base, n*4))
		return "$t0"
	}
	idxReg := g.operand(index, lines)
	*lines = append(*lines,
		fmt.Sprintf("cvt.w.s $f12, %s", idxReg),
		"mfc1 $t0, $f12",
		"sll $t0, $t0, 2",
		fmt.Sprintf("add $t0, $t0, %s", base),
	)
	return "$t0"
}

// lowerGetParams binds each declared parameter at its fixed $fp-relative
// offset (codegen.py's generate_get_params: offsets accumulate in reverse
// parameter order, biased by the 8 bytes the prologue's saved $fp/$ra
// occupy).
//
// The caller pushes arguments left to right, each one shrinking $sp by 4
// ahead of the callee's own "jal <callee>"; the callee's prologue then
// shrinks $sp by another 8 for its saved $ra/$fp before setting $fp := $sp.
// So the last-pushed (rightmost) argument ends up closest to $fp, at
// $fp+8, and each earlier argument sits 4 bytes further away — positive
// offsets, above the new frame, never negative slots inside it.
func (g *Generator) lowerGetParams(lines *[]string) {
	total := 0
	for i := len(g.pendingParams) - 1; i >= 0; i-- {
		total += 4
		g.vars[g.pendingParams[i]] = varSlot{
			offset:     total + 4,
			size:       4,
			isFloat:    g.pendingParamIsFloat[i],
			fpRelative: true,
		}
	}
	*lines = append(*lines, "nop")
}

// lowerSetParam pushes one call argument onto the stack, ahead of the
// callee's own frame (codegen.py's generate_set_param).
func (g *Generator) lowerSetParam(instr tac.Instr, lines *[]string) {
	reg := g.operand(instr.Src1, lines)
	g.paramsSize += 4
	g.sp += 4
	storeInstr := "sw"
	if instr.IsFloat {
		storeInstr = "swc1"
	}
	*lines = append(*lines,
		"addi $sp, $sp, -4",
		fmt.Sprintf("%s %s, 0($sp)", storeInstr, reg),
	)
}

// lowerCall invokes the mangled callee, restores the caller's stack depth,
// and moves the return value into Dst's register (codegen.py's
// generate_call: $f0 for a Number return, $v0 otherwise).
func (g *Generator) lowerCall(instr tac.Instr, lines *[]string) {
	*lines = append(*lines,
		"jal "+instr.Operator,
		fmt.Sprintf("addi $sp, $sp, %d", g.paramsSize),
		"jal pop_all",
	)
	g.sp -= g.paramsSize
	if instr.Dst == "" {
		return
	}
	dst := g.regOf(instr.Dst)
	if instr.IsFloat {
		*lines = append(*lines, fmt.Sprintf("mov.s %s, $f0", dst))
	} else {
		*lines = append(*lines, fmt.Sprintf("move %s, $v0", dst))
	}
}

// lowerReturn moves the result into the ABI's return register and runs
// the standard epilogue (codegen.py's generate_return); a bare "return"
// with no value still has to restore the caller's frame.
func (g *Generator) lowerReturn(instr tac.Instr, lines *[]string) {
	if instr.Src1 != "" {
		reg := g.operand(instr.Src1, lines)
		if instr.IsFloat {
			*lines = append(*lines, fmt.Sprintf("mov.s $f0, %s", reg))
		} else {
			*lines = append(*lines, fmt.Sprintf("move $v0, %s", reg))
		}
	}
	*lines = append(*lines,
		"lw $ra, 4($fp)",
		"move $sp, $fp",
		"lw $fp, 0($fp)",
		"addi $sp, $sp, 8",
		"jr $ra",
	)
}
