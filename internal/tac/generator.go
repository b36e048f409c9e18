package tac

import (
	"fmt"
	"strconv"

	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/checker"
	"github.com/hulklang/hulkc/internal/symbols"
	"github.com/hulklang/hulkc/internal/types"
)

// Generator lowers a checked program. It reads the checker's scope/type
// side tables (internal/checker.Result) rather than re-deriving types —
// the whole point of those tables (see internal/ast's package doc) is that
// downstream passes never recompute what the checker already decided.
type Generator struct {
	res     *checker.Result
	counter int
	code    []Instr

	loopContinue  []string
	loopBreak     []string
	returnIsFloat bool
}

// New returns a Generator bound to a successful checker.Result. Callers
// must check res.OK before calling Generate.
func New(res *checker.Result) *Generator {
	return &Generator{res: res}
}

// Generate lowers every top-level function, every method (one per type, in
// declaration order, plus one synthesized "type_<Name>" constructor per
// type), and the top-level expression.
func (g *Generator) Generate(prog *ast.Program) *Program {
	out := &Program{}

	for _, fn := range prog.Functions {
		mangled := "function_" + fn.Name
		params := make([]string, len(fn.Params.List))
		for i, p := range fn.Params.List {
			params[i] = p.Name
		}
		out.Functions = append(out.Functions, g.generateFunction(mangled, params, fn.Body))
	}

	for _, td := range prog.Types {
		for _, m := range td.Methods {
			mangled := "method_" + td.Name + "_" + m.Name
			params := make([]string, len(m.Params.List)+1)
			params[0] = "self"
			for i, p := range m.Params.List {
				params[i+1] = p.Name
			}
			out.Functions = append(out.Functions, g.generateFunction(mangled, params, m.Body))
		}
		out.Functions = append(out.Functions, g.generateConstructor(td))
	}

	g.code = nil
	g.generateExpr(prog.Main)
	out.Main = g.code

	return out
}

func (g *Generator) generateFunction(name string, params []string, body ast.Expression) *Function {
	saved := g.code
	g.code = nil
	savedReturnIsFloat := g.returnIsFloat

	paramIsFloat := make([]bool, len(params))
	g.returnIsFloat = false
	if sym, ok := g.res.Root.GetFunction(name); ok {
		for i, pt := range sym.ParamTypes {
			if i < len(paramIsFloat) {
				paramIsFloat[i] = pt.Equal(types.Number)
			}
		}
		g.returnIsFloat = sym.ReturnType.Equal(types.Number)
	}

	g.emit(Instr{Op: OpGetParams})
	result := g.generateExpr(body)
	if _, isCompound := body.(*ast.CompoundInstruction); !isCompound {
		g.emit(Instr{Op: OpReturn, Src1: result, IsFloat: g.returnIsFloat})
	}

	fn := &Function{Name: name, Params: params, ParamIsFloat: paramIsFloat, Code: g.code}
	g.code = saved
	g.returnIsFloat = savedReturnIsFloat
	return fn
}

// generateConstructor synthesizes "type_<Name>": allocate self, copy
// inherited properties in from a freshly constructed parent instance (same
// parent-first layout a property read/write already assumes, spec §3),
// then run this type's own property initializers and return self. This
// keeps construction expressible with the same Get/Set ops a normal
// property access uses, rather than adding a dedicated "copy object" op to
// the fixed instruction set.
func (g *Generator) generateConstructor(td *ast.TypeDeclaration) *Function {
	saved := g.code
	g.code = nil

	params := make([]string, len(td.CtorParams.List))
	paramIsFloat := make([]bool, len(td.CtorParams.List))
	if ts0, ok := g.res.Root.GetType(td.Name); ok {
		for i, p := range ts0.Params {
			if i < len(paramIsFloat) {
				paramIsFloat[i] = p.Type.Equal(types.Number)
			}
		}
	}
	for i, p := range td.CtorParams.List {
		params[i] = p.Name
	}
	g.emit(Instr{Op: OpGetParams})

	selfType := &types.Type{Annotation: td.Name, CanonicalName: td.Name}
	ts, _ := g.res.Root.GetType(td.Name)

	self := g.newTemp(selfType)
	size := 4
	if ts != nil {
		size = 4*ts.Properties.Len() + 4
	}
	g.emit(Instr{Op: OpAlloc, Dst: self, Operator: td.Name, Size: size})

	if td.ParentName != "" {
		g.emit(Instr{Op: OpCallStart})
		for _, a := range td.ParentArgs {
			v := g.generateExpr(a)
			g.emit(Instr{Op: OpSetParam, Src1: v})
		}
		parentObj := g.newTemp(&types.Type{Annotation: td.ParentName, CanonicalName: td.ParentName})
		g.emit(Instr{Op: OpCall, Dst: parentObj, Operator: "type_" + td.ParentName})
		g.emit(Instr{Op: OpCallEnd})

		if parentSym, ok := g.res.Root.GetType(td.ParentName); ok {
			for _, propName := range parentSym.Properties.Names() {
				prop, _ := parentSym.Properties.Get(propName)
				isFloat := prop.Type.Equal(types.Number)
				v := g.newTemp(prop.Type)
				g.emit(Instr{Op: OpGet, Dst: v, Src1: parentObj, Operator: propName, Size: g.propertyOffset(td.ParentName, propName), IsFloat: isFloat})
				g.emit(Instr{Op: OpSet, Src1: self, Operator: propName, Src2: v, Size: g.propertyOffset(td.Name, propName), IsFloat: isFloat})
			}
		}
	}

	for _, prop := range td.Properties {
		v := g.generateExpr(prop.Value)
		isFloat := false
		if ts != nil {
			if sym, ok := ts.Properties.Get(prop.Name); ok {
				isFloat = sym.Type.Equal(types.Number)
			}
		}
		g.emit(Instr{Op: OpSet, Src1: self, Operator: prop.Name, Src2: v, Size: g.propertyOffset(td.Name, prop.Name), IsFloat: isFloat})
	}

	g.emit(Instr{Op: OpReturn, Src1: self})

	fn := &Function{Name: "type_" + td.Name, Params: params, ParamIsFloat: paramIsFloat, Code: g.code}
	g.code = saved
	return fn
}

func (g *Generator) emit(i Instr) { g.code = append(g.code, i) }

// newTemp names a fresh temporary, picking the "f" (float-register) prefix
// for number-typed values and "t" (integer-register) for everything else —
// booleans, strings, pointers to objects and arrays — matching the bank
// split internal/codegen/mips's register allocator expects.
func (g *Generator) newTemp(t *types.Type) string {
	g.counter++
	prefix := "t"
	if t != nil && t.Equal(types.Number) {
		prefix = "f"
	}
	return fmt.Sprintf("%s%02d#", prefix, g.counter)
}

func (g *Generator) newLabel(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s_%d", prefix, g.counter)
}

// propertyOffset resolves name's byte offset within typeName's object
// layout (spec §3: parent-first, index*4) via the symbol table's
// precomputed address map, so internal/codegen/mips never has to
// reconstruct inheritance layout itself — every Get/Set instruction
// already carries the offset it needs.
func (g *Generator) propertyOffset(typeName, name string) int {
	off, _ := g.res.Root.PropertyOffset(typeName, name)
	return off
}

func (g *Generator) typeOf(e ast.Expression) *types.Type {
	if t, ok := g.res.Types[e]; ok {
		return t
	}
	return types.NoDeducible
}

// generateExpr lowers expr and returns the name of the variable or
// temporary holding its value.
func (g *Generator) generateExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		dst := g.newTemp(types.Number)
		g.emit(Instr{Op: OpAssign, Dst: dst, Src1: strconv.FormatFloat(e.Value, 'f', -1, 64)})
		return dst
	case *ast.StringLiteral:
		dst := g.newTemp(types.String)
		g.emit(Instr{Op: OpAssign, Dst: dst, Src1: strconv.Quote(e.Value)})
		return dst
	case *ast.BoolLiteral:
		dst := g.newTemp(types.Bool)
		lit := "0"
		if e.Value {
			lit = "1"
		}
		g.emit(Instr{Op: OpAssign, Dst: dst, Src1: lit})
		return dst
	case *ast.Name:
		// Mirrors tac_generator.py's identifier(): a reference always copies
		// into a fresh temp rather than handing the bare variable name to the
		// caller, so every consumer (generate_binop, generate_set_param, ...)
		// can assume its operands are always register-resident temps.
		dst := g.newTemp(g.typeOf(e))
		g.emit(Instr{Op: OpAssign, Dst: dst, Src1: e.Value, IsFloat: g.typeOf(e).Equal(types.Number)})
		return dst
	case *ast.SelfExpr:
		return "self"
	case *ast.Grouped:
		return g.generateExpr(e.Inner)
	case *ast.Unary:
		src := g.generateExpr(e.Operand)
		dst := g.newTemp(g.typeOf(e))
		g.emit(Instr{Op: OpUnary, Dst: dst, Operator: e.Op, Src1: src})
		return dst
	case *ast.BinOp:
		left := g.generateExpr(e.Left)
		right := g.generateExpr(e.Right)
		dst := g.newTemp(g.typeOf(e))
		g.emit(Instr{Op: OpBinop, Dst: dst, Operator: e.Op, Src1: left, Src2: right})
		return dst
	case *ast.StrConcat:
		return g.generateStrConcat(e)
	case *ast.ArrayDeclarationExplicit:
		return g.generateArrayLiteral(e)
	case *ast.ArrayAccess:
		arr := g.generateExpr(e.Array)
		idx := g.generateExpr(e.Index)
		dst := g.newTemp(g.typeOf(e))
		g.emit(Instr{Op: OpGetIndex, Dst: dst, Src1: arr, Src2: idx, IsFloat: g.typeOf(e).Equal(types.Number)})
		return dst
	case *ast.FunctionCall:
		return g.generateFunctionCall(e)
	case *ast.Access:
		return g.generateAccess(e)
	case *ast.Instance:
		return g.generateInstance(e)
	case *ast.Downcast:
		// A downcast never changes the runtime representation (spec §3:
		// a subtype's property layout is its ancestor's layout, extended) —
		// it only narrows what the checker permits afterwards.
		return g.generateExpr(e.Expr)
	case *ast.Conditional:
		return g.generateConditional(e)
	case *ast.CompoundInstruction:
		return g.generateCompound(e)
	case *ast.VarInst:
		return g.generateVarInst(e)
	case *ast.WhileLoop:
		return g.generateWhileLoop(e)
	case *ast.Assignment:
		return g.generateAssignment(e)
	}
	return ""
}

func (g *Generator) generateStrConcat(e *ast.StrConcat) string {
	left := g.generateExpr(e.Left)
	right := g.generateExpr(e.Right)
	spaced := g.newTemp(types.Bool)
	lit := "0"
	if e.IsDouble {
		lit = "1"
	}
	g.emit(Instr{Op: OpAssign, Dst: spaced, Src1: lit})

	g.emit(Instr{Op: OpCallStart})
	g.emit(Instr{Op: OpSetParam, Src1: left})
	g.emit(Instr{Op: OpSetParam, Src1: right})
	g.emit(Instr{Op: OpSetParam, Src1: spaced})
	dst := g.newTemp(types.String)
	g.emit(Instr{Op: OpCall, Dst: dst, Operator: "concat_strings"})
	g.emit(Instr{Op: OpCallEnd})
	return dst
}

func (g *Generator) generateArrayLiteral(e *ast.ArrayDeclarationExplicit) string {
	arrType := g.typeOf(e)
	dst := g.newTemp(arrType)
	itemName := "object"
	if arrType.ItemType != nil {
		itemName = arrType.ItemType.CanonicalName
	}
	itemIsFloat := arrType.ItemType != nil && arrType.ItemType.Equal(types.Number)
	g.emit(Instr{Op: OpAllocArray, Dst: dst, Operator: itemName, Size: len(e.Items), IsFloat: itemIsFloat})
	for i, item := range e.Items {
		v := g.generateExpr(item)
		g.emit(Instr{Op: OpSetIndex, Src1: dst, Src2: strconv.Itoa(i), Operator: v, IsFloat: itemIsFloat})
	}
	return dst
}

// resolveCallMangle reproduces the checker's call-site mangling (spec
// §4.3) from the side-table scope recorded for this call node, including
// following the inheritance dispatch map for an inherited, non-overridden
// method.
func resolveCallMangle(name string, scope *symbols.SymbolTable) string {
	if symbols.IsBuiltin(name) {
		return name
	}
	if scope != nil && scope.IsOnTypeBody() {
		mangled := "method_" + scope.CurrentType() + "_" + name
		if ts, ok := scope.GetType(scope.CurrentType()); ok {
			if dispatch, has := ts.Inheritance[mangled]; has {
				return dispatch
			}
		}
		return mangled
	}
	return "function_" + name
}

func (g *Generator) generateFunctionCall(e *ast.FunctionCall) string {
	g.emit(Instr{Op: OpCallStart})
	for _, a := range e.Args {
		v := g.generateExpr(a)
		g.emit(Instr{Op: OpSetParam, Src1: v, IsFloat: g.typeOf(a).Equal(types.Number)})
	}
	mangled := resolveCallMangle(e.Name, g.res.Scopes[e])
	retIsFloat := g.typeOf(e).Equal(types.Number)
	dst := g.newTemp(g.typeOf(e))
	g.emit(Instr{Op: OpCall, Dst: dst, Operator: mangled, IsFloat: retIsFloat})
	g.emit(Instr{Op: OpCallEnd})
	return dst
}

func (g *Generator) generateAccess(e *ast.Access) string {
	obj := g.generateExpr(e.Left)
	switch right := e.Right.(type) {
	case *ast.FunctionCall:
		g.emit(Instr{Op: OpCallStart})
		g.emit(Instr{Op: OpSetParam, Src1: obj})
		for _, a := range right.Args {
			v := g.generateExpr(a)
			g.emit(Instr{Op: OpSetParam, Src1: v, IsFloat: g.typeOf(a).Equal(types.Number)})
		}
		mangled := resolveCallMangle(right.Name, g.res.Scopes[right])
		retIsFloat := g.typeOf(e).Equal(types.Number)
		dst := g.newTemp(g.typeOf(e))
		g.emit(Instr{Op: OpCall, Dst: dst, Operator: mangled, IsFloat: retIsFloat})
		g.emit(Instr{Op: OpCallEnd})
		return dst
	default:
		isFloat := g.typeOf(e).Equal(types.Number)
		dst := g.newTemp(g.typeOf(e))
		name := ""
		if n, ok := e.Right.(*ast.Name); ok {
			name = n.Value
		}
		offset := g.propertyOffset(g.typeOf(e.Left).CanonicalName, name)
		g.emit(Instr{Op: OpGet, Dst: dst, Src1: obj, Operator: name, Size: offset, IsFloat: isFloat})
		return dst
	}
}

func (g *Generator) generateInstance(e *ast.Instance) string {
	g.emit(Instr{Op: OpCallStart})
	for _, a := range e.Args {
		v := g.generateExpr(a)
		g.emit(Instr{Op: OpSetParam, Src1: v, IsFloat: g.typeOf(a).Equal(types.Number)})
	}
	dst := g.newTemp(g.typeOf(e))
	g.emit(Instr{Op: OpCall, Dst: dst, Operator: "type_" + e.TypeName})
	g.emit(Instr{Op: OpCallEnd})
	return dst
}

// generateConditional unifies every branch's value into one shared
// destination (spec §4.1: a conditional's value is whichever branch ran).
// The original Python generator instead returns the textually-last branch's
// own temporary, which is wrong whenever an earlier branch is the one that
// actually executes at runtime — see DESIGN.md.
func (g *Generator) generateConditional(e *ast.Conditional) string {
	dst := g.newTemp(g.typeOf(e))
	endCond := g.newLabel("end_conditional")

	g.emitBranch(e.If.Cond, e.If.Body, dst, endCond)
	for _, elif := range e.Elifs {
		g.emitBranch(elif.Cond, elif.Body, dst, endCond)
	}

	value := g.generateExpr(e.Else.Body)
	g.emit(Instr{Op: OpAssign, Dst: dst, Src1: value})

	g.emit(Instr{Op: OpLabel, Operator: endCond})
	return dst
}

func (g *Generator) emitBranch(cond, body ast.Expression, dst, endCond string) {
	label := g.newLabel("if")
	skip := g.newLabel("end_if")

	condTemp := g.generateExpr(cond)
	g.emit(Instr{Op: OpJumpNZ, Src1: condTemp, Operator: label})
	g.emit(Instr{Op: OpJump, Operator: skip})
	g.emit(Instr{Op: OpLabel, Operator: label})

	value := g.generateExpr(body)
	g.emit(Instr{Op: OpAssign, Dst: dst, Src1: value})
	g.emit(Instr{Op: OpJump, Operator: endCond})

	g.emit(Instr{Op: OpLabel, Operator: skip})
}

func (g *Generator) generateCompound(c *ast.CompoundInstruction) string {
	last := ""
	for _, stmt := range c.Statements {
		last = g.generateStmt(stmt)
	}
	return last
}

func (g *Generator) generateStmt(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.ExecutableExpression:
		return g.generateExpr(s.Expr)
	case *ast.ReturnStatement:
		src := ""
		if s.Value != nil {
			src = g.generateExpr(s.Value)
		}
		g.emit(Instr{Op: OpReturn, Src1: src, IsFloat: g.returnIsFloat})
		return src
	case *ast.Declaration:
		g.generateDeclaration(s)
		return s.Name
	case *ast.BreakStatement:
		if len(g.loopBreak) > 0 {
			g.emit(Instr{Op: OpJump, Operator: g.loopBreak[len(g.loopBreak)-1]})
		}
		return ""
	case *ast.ContinueStatement:
		if len(g.loopContinue) > 0 {
			g.emit(Instr{Op: OpJump, Operator: g.loopContinue[len(g.loopContinue)-1]})
		}
		return ""
	}
	return ""
}

func (g *Generator) generateDeclaration(d *ast.Declaration) {
	tp := g.typeOf(d.Value)
	g.emit(Instr{Op: OpDeclare, Dst: d.Name, Size: tp.Size, IsFloat: tp.Equal(types.Number)})

	if arr, isArrLit := d.Value.(*ast.ArrayDeclarationExplicit); isArrLit && tp.IsArray {
		itemName := "object"
		itemIsFloat := tp.ItemType != nil && tp.ItemType.Equal(types.Number)
		if tp.ItemType != nil {
			itemName = tp.ItemType.CanonicalName
		}
		g.emit(Instr{Op: OpAllocArray, Dst: d.Name, Operator: itemName, Size: len(arr.Items), IsFloat: itemIsFloat})
		for i, item := range arr.Items {
			v := g.generateExpr(item)
			g.emit(Instr{Op: OpSetIndex, Src1: d.Name, Src2: strconv.Itoa(i), Operator: v, IsFloat: itemIsFloat})
		}
		return
	}

	v := g.generateExpr(d.Value)
	g.emit(Instr{Op: OpAssign, Dst: d.Name, Src1: v, IsFloat: tp.Equal(types.Number)})
}

func (g *Generator) generateVarInst(v *ast.VarInst) string {
	for _, d := range v.Declarations {
		g.generateDeclaration(d)
	}
	result := g.generateExpr(v.Body)
	for i := len(v.Declarations) - 1; i >= 0; i-- {
		g.emit(Instr{Op: OpClear, Dst: v.Declarations[i].Name})
	}
	return result
}

func (g *Generator) generateWhileLoop(w *ast.WhileLoop) string {
	label := g.newLabel("while")
	condLabel := g.newLabel("end_while")
	afterLabel := g.newLabel("after_while")

	g.emit(Instr{Op: OpJump, Operator: condLabel})
	g.emit(Instr{Op: OpLabel, Operator: label})

	g.loopContinue = append(g.loopContinue, condLabel)
	g.loopBreak = append(g.loopBreak, afterLabel)
	result := g.generateExpr(w.Body)
	g.loopContinue = g.loopContinue[:len(g.loopContinue)-1]
	g.loopBreak = g.loopBreak[:len(g.loopBreak)-1]

	g.emit(Instr{Op: OpLabel, Operator: condLabel})
	cond := g.generateExpr(w.Cond)
	g.emit(Instr{Op: OpJumpNZ, Src1: cond, Operator: label})
	g.emit(Instr{Op: OpLabel, Operator: afterLabel})

	return result
}

func (g *Generator) generateAssignment(a *ast.Assignment) string {
	value := g.generateExpr(a.Value)
	isFloat := g.typeOf(a.Value).Equal(types.Number)
	switch target := a.Target.(type) {
	case *ast.Name:
		g.emit(Instr{Op: OpAssign, Dst: target.Value, Src1: value, IsFloat: isFloat})
	case *ast.ArrayAccess:
		arr := g.generateExpr(target.Array)
		idx := g.generateExpr(target.Index)
		g.emit(Instr{Op: OpSetIndex, Src1: arr, Src2: idx, Operator: value, IsFloat: isFloat})
	case *ast.Access:
		obj := g.generateExpr(target.Left)
		name := ""
		if n, ok := target.Right.(*ast.Name); ok {
			name = n.Value
		}
		offset := g.propertyOffset(g.typeOf(target.Left).CanonicalName, name)
		g.emit(Instr{Op: OpSet, Src1: obj, Operator: name, Src2: value, Size: offset, IsFloat: isFloat})
	}
	return value
}
