// Package tac lowers a checked AST into three-address code (spec §4.5):
// one flat instruction list per function, addressed by name rather than by
// stack slot — internal/codegen/mips assigns the actual activation-record
// offsets.
//
// Grounded on original_source/src/tac_generator.py's TacGenerator, and on
// internal/vm/opcodes.go's Opcode enum for how this repo names a fixed,
// compile-time instruction set.
package tac

// Op is one of the spec §4.5 instruction kinds.
type Op byte

const (
	OpDeclare Op = iota // reserve stack space for a named local
	OpClear             // release a named local's stack space
	OpAssign            // Dst = Src1 (Src1 may be a literal, a temp, or another var)
	OpBinop             // Dst = Src1 Operator Src2
	OpUnary             // Dst = Operator Src1
	OpLabel             // Label:
	OpJump              // goto Label
	OpJumpNZ            // if Src1 != 0 goto Label
	OpAlloc             // Dst = heap-allocate Size bytes for an object
	OpAllocArray        // Dst = heap-allocate an array of Size elements
	OpSet               // object Src1 . property Operator := Src2 (Size = property's byte offset)
	OpGet               // Dst = object Src1 . property Operator (Size = property's byte offset)
	OpSetIndex          // array Src1 [ Src2 ] = Src3... (Dst unused, Src3 stashed in Operator slot)
	OpGetIndex          // Dst = array Src1 [ Src2 ]
	OpGetParams         // materialize this function's declared parameters as locals
	OpCallStart         // begin a call's argument-passing sequence
	OpSetParam          // push Src1 as the next call argument
	OpCall              // Dst = call Operator(...) (Operator carries the mangled callee name)
	OpCallEnd           // end a call's argument-passing sequence
	OpReturn            // return Src1 (Src1 == "" for a bare return)
)

// Instr is one TAC instruction. Which fields are meaningful depends on Op;
// see the Op doc comments above — this mirrors the original's variable-length
// tuples with a fixed Go shape instead of a union, the way
// internal/vm/chunk.go keeps one fixed Instruction shape for every Opcode.
//
// IsFloat carries the one piece of static type information
// internal/codegen/mips needs at instruction-selection time (float values
// live in $f13-$f18 and move with swc1/lwc1; everything else lives in
// $t1-$t9/$s1-$s4 and moves with sw/lw) — the original threaded a live
// Type object through its own tuples for the same reason; a plain bool is
// all MIPS selection ever asks of it.
type Instr struct {
	Op       Op
	Dst      string
	Operator string
	Src1     string
	Src2     string
	Size     int
	IsFloat  bool
}

// Function is the lowered form of one source function (or method): its
// mangled name, ordered parameter names (ParamIsFloat parallel to Params),
// and linear instruction stream.
type Function struct {
	Name         string
	Params       []string
	ParamIsFloat []bool
	Code         []Instr
}

// Program is every lowered function plus the top-level expression.
type Program struct {
	Functions []*Function
	Main      []Instr
}
