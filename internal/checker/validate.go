package checker

import (
	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/errors"
	"github.com/hulklang/hulkc/internal/symbols"
	"github.com/hulklang/hulkc/internal/types"
)

// checkFunctionDecl validates one top-level function (spec §4.4.2),
// grounded on semantic_checker.py's function(): bind parameters, check the
// body, and require every return site (and, for an expression body, the
// body's own value) to agree with the declared return type.
func (c *checker) checkFunctionDecl(fn *ast.Function, root *symbols.SymbolTable) bool {
	mangled := mangledFunctionName(fn.Name)
	sym, ok := root.GetFunction(mangled)
	if !ok {
		return false // discovery already reported why this function never resolved
	}

	scope := root.MakeChild()
	result := c.bindParams(fn.Params, sym.ParamTypes, scope)
	scope.SetFunction(mangled)

	result = c.checkFunctionBody(fn.Name, mangled, sym.ReturnType, fn.Body, scope) && result
	c.remember(fn, scope)
	return result
}

// bindParams defines every declared parameter in scope, rejecting one whose
// discovered type never resolved.
func (c *checker) bindParams(params *ast.Params, paramTypes []*types.Type, scope *symbols.SymbolTable) bool {
	result := true
	for i, p := range params.List {
		t := paramTypes[i]
		if t == types.NoDeduced || t == types.NoDeducible || t == types.NotFound {
			c.bag.Addf(errors.ErrAnnotationMissing, p.Line(), 0, "type for parameter <%s> could not be inferred", p.Name)
			result = false
			continue
		}
		scope.DefineVar(p.Name, t, 0)
	}
	return result
}

// checkFunctionBody implements the compound-vs-expression-body return rule
// (spec §4.1): a compound body must contain at least one return statement
// and every return site must agree; an expression body's own value stands
// in for its return type.
func (c *checker) checkFunctionBody(displayName, mangled string, declared *types.Type, body ast.Expression, scope *symbols.SymbolTable) bool {
	result := true
	var actual *types.Type

	if compound, isCompound := body.(*ast.CompoundInstruction); isCompound {
		c.deduce(compound, scope) // walks the body, recording every return's type
		seen := c.infer.ReturnTypes[mangled]
		switch {
		case len(seen) == 0:
			c.bag.Addf(errors.ErrReturnMismatch, body.Line(), 0, "function <%s> with a block body requires a return statement", displayName)
			result = false
		default:
			actual = seen[0]
			for _, t := range seen[1:] {
				if !t.Equal(actual) {
					c.bag.Addf(errors.ErrReturnMismatch, body.Line(), 0, "function <%s> has inconsistent return statements", displayName)
					result = false
					break
				}
			}
		}
	} else {
		actual = c.deduce(body, scope)
	}

	if actual != nil && !actual.Equal(declared) {
		c.bag.Addf(errors.ErrReturnMismatch, body.Line(), 0, "function <%s> does not always return <%s> (<%s> found)", displayName, declared.Annotation, actual.Annotation)
		result = false
	}

	return c.checkExpr(body, scope) && result
}

// checkTypeDeclaration validates one nominal type (spec §4.4.2), grounded
// on semantic_checker.py's type_declaration(): constructor parameters are
// visible to every property initializer and method, self is bound inside
// every method, and a property name may not be declared twice.
func (c *checker) checkTypeDeclaration(td *ast.TypeDeclaration, root *symbols.SymbolTable) bool {
	ts, ok := root.GetType(td.Name)
	if !ok {
		return false
	}

	scope := root.MakeChildInsideType(td.Name)
	if scope == nil {
		return false
	}
	for _, p := range ts.Params {
		scope.DefineVar(p.Name, p.Type, 0)
	}

	result := true
	declared := make(map[string]bool, len(td.Properties))
	for _, prop := range td.Properties {
		if declared[prop.Name] {
			c.bag.Addf(errors.ErrPropertyRedeclared, prop.Line(), 0, "property <%s> declared twice on type <%s>", prop.Name, td.Name)
			result = false
		}
		declared[prop.Name] = true

		propScope := scope.MakeChild()
		result = c.checkPropertyInit(prop, propScope) && result
	}

	for _, m := range td.Methods {
		result = c.checkMethodDecl(m, td.Name, scope) && result
	}

	c.remember(td, scope)
	return result
}

func (c *checker) checkPropertyInit(prop *ast.Declaration, scope *symbols.SymbolTable) bool {
	valueOk := c.checkExpr(prop.Value, scope)
	tp := c.deduce(prop.Value, scope)
	result := valueOk
	if tp.IsError {
		c.bag.Addf(errors.ErrNotDeducible, prop.Line(), 0, "property <%s> has an undeducible initializer", prop.Name)
		result = false
	}
	aType := c.reg.ResolveFromAnnotation(prop.Annotation)
	if aType != types.NoDeduced && !aType.Equal(tp) {
		c.bag.Addf(errors.ErrAssignMismatch, prop.Line(), 0, "property <%s> annotated <%s> initialized with <%s>", prop.Name, aType.Annotation, tp.Annotation)
		result = false
	}
	return result
}

func (c *checker) checkMethodDecl(m *ast.Function, typeName string, typeScope *symbols.SymbolTable) bool {
	mangled := methodMangledName(typeName, m.Name)
	sym, ok := typeScope.GetFunction(mangled)
	if !ok {
		return false
	}

	scope := typeScope.MakeChild()
	scope.DefineVar("self", sym.ParamTypes[0], 0)
	result := c.bindParams(m.Params, sym.ParamTypes[1:], scope)
	scope.SetFunction(mangled)

	result = c.checkFunctionBody(typeName+"."+m.Name, mangled, sym.ReturnType, m.Body, scope) && result
	c.remember(m, scope)
	return result
}

// checkExpr is the per-node validator (spec §4.4.3), one case per variant,
// grounded on semantic_checker.py's check() tag dispatch.
func (c *checker) checkExpr(expr ast.Expression, scope *symbols.SymbolTable) bool {
	if expr == nil {
		return true
	}
	c.remember(expr, scope)

	switch e := expr.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BoolLiteral, *ast.SelfExpr:
		if s, ok := expr.(*ast.SelfExpr); ok && !scope.IsOnTypeBody() {
			c.bag.Addf(errors.ErrUndefined, s.Line(), 0, "self used outside a method body")
			return false
		}
		return true
	case *ast.Name:
		if _, ok := scope.GetVar(e.Value); !ok {
			c.bag.Addf(errors.ErrUndefined, e.Line(), 0, "variable <%s> used but not defined", e.Value)
			return false
		}
		return true
	case *ast.Grouped:
		return c.checkExpr(e.Inner, scope)
	case *ast.Unary:
		ok := c.checkExpr(e.Operand, scope)
		tp := c.deduce(e, scope)
		if tp.IsError {
			c.bag.Addf(errors.ErrNotDeducible, e.Line(), 0, "operator <%s> not applicable to its operand", e.Op)
			ok = false
		}
		return ok
	case *ast.BinOp:
		ok := c.checkExpr(e.Left, scope) && c.checkExpr(e.Right, scope)
		tp := c.deduce(e, scope)
		if tp.IsError {
			c.bag.Addf(errors.ErrNotDeducible, e.Line(), 0, "operator <%s> not applicable to its operands", e.Op)
			ok = false
		}
		return ok
	case *ast.StrConcat:
		ok := c.checkExpr(e.Left, scope) && c.checkExpr(e.Right, scope)
		tp := c.deduce(e, scope)
		if !tp.Equal(types.String) {
			c.bag.Addf(errors.ErrNotDeducible, e.Line(), 0, "cannot concatenate non-string operands")
			ok = false
		}
		return ok
	case *ast.ArrayDeclarationExplicit:
		return c.checkArrayLiteral(e, scope)
	case *ast.ArrayAccess:
		return c.checkArrayAccess(e, scope)
	case *ast.FunctionCall:
		return c.checkFunctionCall(e, scope)
	case *ast.Access:
		return c.checkAccess(e, scope)
	case *ast.Instance:
		return c.checkInstance(e, scope)
	case *ast.Downcast:
		return c.checkDowncast(e, scope)
	case *ast.Conditional:
		return c.checkConditional(e, scope)
	case *ast.CompoundInstruction:
		return c.checkCompound(e, scope)
	case *ast.VarInst:
		return c.checkVarInst(e, scope)
	case *ast.WhileLoop:
		return c.checkWhileLoop(e, scope)
	case *ast.Assignment:
		return c.checkAssignment(e, scope)
	}
	return true
}

func (c *checker) checkArrayLiteral(a *ast.ArrayDeclarationExplicit, scope *symbols.SymbolTable) bool {
	if len(a.Items) == 0 {
		c.bag.Addf(errors.ErrNotDeducible, a.Line(), 0, "array literal must have at least one item")
		return false
	}
	result := true
	var first *types.Type
	for i, item := range a.Items {
		result = c.checkExpr(item, scope) && result
		tp := c.deduce(item, scope)
		if tp.IsError {
			c.bag.Addf(errors.ErrNotDeducible, item.Line(), 0, "array item has no deducible type")
			result = false
			continue
		}
		if i == 0 {
			first = tp
			continue
		}
		if !tp.Equal(first) {
			c.bag.Addf(errors.ErrNotDeducible, item.Line(), 0, "array items must share one type")
			result = false
		}
	}
	if first == nil {
		return result
	}
	if first.IsArray {
		c.bag.Addf(errors.ErrMultiDimArray, a.Line(), 0, "arrays of arrays are not supported")
		result = false
	}
	return result
}

func (c *checker) checkArrayAccess(a *ast.ArrayAccess, scope *symbols.SymbolTable) bool {
	result := c.checkExpr(a.Array, scope)
	arrType := c.deduce(a.Array, scope)
	if !arrType.IsArray {
		c.bag.Addf(errors.ErrNotIndexable, a.Line(), 0, "object of type <%s> cannot be indexed", arrType.Annotation)
		result = false
	}
	result = c.checkExpr(a.Index, scope) && result
	if !c.deduce(a.Index, scope).Equal(types.Number) {
		c.bag.Addf(errors.ErrIndexNotNumber, a.Line(), 0, "array index must be a number")
		result = false
	}
	return result
}

func (c *checker) checkFunctionCall(f *ast.FunctionCall, scope *symbols.SymbolTable) bool {
	var fn symbols.FunctionSymbol
	var ok bool
	isBuiltin := symbols.IsBuiltin(f.Name)

	switch {
	case isBuiltin:
		fn, ok = symbols.BuiltinFunctions[f.Name]
	case scope.IsOnTypeBody():
		mangled := methodMangledName(scope.CurrentType(), f.Name)
		if ts, tok := scope.GetType(scope.CurrentType()); tok {
			if dispatch, has := ts.Inheritance[mangled]; has {
				mangled = dispatch
			}
		}
		fn, ok = scope.GetFunction(mangled)
	default:
		fn, ok = scope.GetFunction(mangledFunctionName(f.Name))
	}

	if !ok {
		c.bag.Addf(errors.ErrUndefined, f.Line(), 0, "function <%s> not defined", f.Name)
		return false
	}

	paramTypes := fn.ParamTypes
	if scope.IsOnTypeBody() && !isBuiltin {
		paramTypes = paramTypes[1:] // implicit self receiver
	}
	if len(f.Args) != len(paramTypes) {
		c.bag.Addf(errors.ErrArity, f.Line(), 0, "function <%s> requires %d arguments (%d given)", f.Name, len(paramTypes), len(f.Args))
		return false
	}

	result := true
	for i, arg := range f.Args {
		result = c.checkExpr(arg, scope) && result
		tp := c.deduce(arg, scope)
		if !tp.Equal(paramTypes[i]) {
			c.bag.Addf(errors.ErrParamType, arg.Line(), 0, "cannot convert argument from <%s> to <%s>", tp.Annotation, paramTypes[i].Annotation)
			result = false
		}
	}
	return result
}

func (c *checker) checkAccess(a *ast.Access, scope *symbols.SymbolTable) bool {
	result := c.checkExpr(a.Left, scope)
	leftType := c.deduce(a.Left, scope)
	if leftType.IsError || leftType.CanonicalName == "" {
		c.bag.Addf(errors.ErrIllegalAccess, a.Line(), 0, "cannot access a property or method on an undeducible expression")
		return false
	}
	inner := scope.MakeChildInsideType(leftType.CanonicalName)
	if inner == nil {
		c.bag.Addf(errors.ErrIllegalAccess, a.Line(), 0, "type <%s> has no properties or methods", leftType.Annotation)
		return false
	}
	return c.checkExpr(a.Right, inner) && result
}

func (c *checker) checkInstance(i *ast.Instance, scope *symbols.SymbolTable) bool {
	ts, ok := scope.GetType(i.TypeName)
	if !ok {
		c.bag.Addf(errors.ErrUndefined, i.Line(), 0, "type <%s> not defined", i.TypeName)
		return false
	}

	result := true
	for _, a := range i.Args {
		result = c.checkExpr(a, scope) && result
	}

	if len(i.Args) != len(ts.Params) {
		c.bag.Addf(errors.ErrCtorArgs, i.Line(), 0, "constructor for type <%s> takes %d arguments (%d given)", i.TypeName, len(ts.Params), len(i.Args))
		return false
	}
	for idx, a := range i.Args {
		tp := c.deduce(a, scope)
		if !tp.Equal(ts.Params[idx].Type) {
			c.bag.Addf(errors.ErrCtorArgs, a.Line(), 0, "constructor argument %d for type <%s> must be <%s>, <%s> given", idx, i.TypeName, ts.Params[idx].Type.Annotation, tp.Annotation)
			result = false
		}
	}
	return result
}

func (c *checker) checkDowncast(d *ast.Downcast, scope *symbols.SymbolTable) bool {
	result := c.checkExpr(d.Expr, scope)
	innerType := c.deduce(d.Expr, scope)

	target, ok := scope.GetType(d.TypeName)
	if !ok {
		c.bag.Addf(errors.ErrUndefined, d.Line(), 0, "type <%s> not defined", d.TypeName)
		return false
	}

	if innerType.CanonicalName == d.TypeName {
		return result
	}
	source, ok := scope.GetType(innerType.CanonicalName)
	if !ok {
		c.bag.Addf(errors.ErrInvalidDowncast, d.Line(), 0, "cannot downcast <%s> to <%s>", innerType.Annotation, d.TypeName)
		return false
	}
	for t := source.ParentType; t != nil; t = t.ParentType {
		if t == target {
			return result
		}
	}
	c.bag.Addf(errors.ErrInvalidDowncast, d.Line(), 0, "<%s> is not an ancestor of <%s>", d.TypeName, innerType.Annotation)
	return false
}

func (c *checker) checkConditional(cond *ast.Conditional, scope *symbols.SymbolTable) bool {
	result := c.checkBoolCondition(cond.If.Cond, scope)
	result = c.checkExpr(cond.If.Body, scope) && result
	for _, elif := range cond.Elifs {
		result = c.checkBoolCondition(elif.Cond, scope) && result
		result = c.checkExpr(elif.Body, scope) && result
	}
	result = c.checkExpr(cond.Else.Body, scope) && result
	return result
}

func (c *checker) checkBoolCondition(expr ast.Expression, scope *symbols.SymbolTable) bool {
	result := c.checkExpr(expr, scope)
	if !c.deduce(expr, scope).Equal(types.Bool) {
		c.bag.Addf(errors.ErrCondNotBool, expr.Line(), 0, "condition must be of type bool")
		result = false
	}
	return result
}

func (c *checker) checkCompound(comp *ast.CompoundInstruction, scope *symbols.SymbolTable) bool {
	result := true
	for _, stmt := range comp.Statements {
		result = c.checkStmt(stmt, scope) && result
	}
	return result
}

func (c *checker) checkVarInst(v *ast.VarInst, scope *symbols.SymbolTable) bool {
	child := scope.MakeChild()
	result := true
	for _, d := range v.Declarations {
		result = c.checkDeclaration(d, child) && result
	}
	c.remember(v, child)
	return c.checkExpr(v.Body, child) && result
}

func (c *checker) checkDeclaration(d *ast.Declaration, scope *symbols.SymbolTable) bool {
	valueOk := c.checkExpr(d.Value, scope)
	tp := c.deduce(d.Value, scope)
	result := valueOk

	if tp.IsError {
		c.bag.Addf(errors.ErrNotDeducible, d.Line(), 0, "assigned expression for <%s> has an undeducible type", d.Name)
		result = false
	}

	aType := c.reg.ResolveFromAnnotation(d.Annotation)
	if aType != types.NoDeduced && !aType.Equal(tp) {
		c.bag.Addf(errors.ErrAssignMismatch, d.Line(), 0, "type annotation <%s> for <%s> doesn't match expression of type <%s>", aType.Annotation, d.Name, tp.Annotation)
		result = false
	}

	if tp.IsArray && tp.ItemType != nil && tp.ItemType.IsArray {
		c.bag.Addf(errors.ErrMultiDimArray, d.Line(), 0, "arrays of arrays are not supported")
		result = false
	}

	if result {
		scope.DefineVar(d.Name, tp, 0)
	}
	c.remember(d, scope)
	return result
}

func (c *checker) checkWhileLoop(w *ast.WhileLoop, scope *symbols.SymbolTable) bool {
	result := c.checkBoolCondition(w.Cond, scope)
	scope.AddLoop()
	result = c.checkExpr(w.Body, scope) && result
	scope.RemoveLoop()
	return result
}

func (c *checker) checkAssignment(a *ast.Assignment, scope *symbols.SymbolTable) bool {
	targetOk := c.checkAssignTarget(a.Target, scope)
	if !targetOk {
		return false
	}
	targetType := c.deduceAssignTarget(a.Target, scope)

	valueOk := c.checkExpr(a.Value, scope)
	valueType := c.deduce(a.Value, scope)

	result := targetOk && valueOk
	if !targetType.Equal(valueType) {
		c.bag.Addf(errors.ErrAssignMismatch, a.Line(), 0, "cannot convert <%s> to <%s>", valueType.Annotation, targetType.Annotation)
		result = false
	}
	if valueType.IsError {
		result = false
	}
	return result
}

// checkAssignTarget validates an assignment's left-hand side: a bare name,
// a property access, or an array slot (spec §4.1). The parser accepts any
// expression there; every other shape is rejected here.
func (c *checker) checkAssignTarget(target ast.Expression, scope *symbols.SymbolTable) bool {
	switch t := target.(type) {
	case *ast.Name:
		if _, ok := scope.GetVar(t.Value); !ok {
			c.bag.Addf(errors.ErrUndefined, t.Line(), 0, "variable <%s> used but never declared", t.Value)
			return false
		}
		return true
	case *ast.Access, *ast.ArrayAccess:
		return c.checkExpr(target, scope)
	default:
		c.bag.Addf(errors.ErrAssignMismatch, target.Line(), 0, "invalid assignment target")
		return false
	}
}

func (c *checker) deduceAssignTarget(target ast.Expression, scope *symbols.SymbolTable) *types.Type {
	return c.deduce(target, scope)
}

// checkStmt is the per-statement validator, the Statement-side counterpart
// to checkExpr.
func (c *checker) checkStmt(stmt ast.Statement, scope *symbols.SymbolTable) bool {
	if stmt == nil {
		return true
	}
	c.remember(stmt, scope)

	switch s := stmt.(type) {
	case *ast.ExecutableExpression:
		return c.checkExpr(s.Expr, scope)
	case *ast.ReturnStatement:
		if !scope.IsOnFunction() {
			c.bag.Addf(errors.ErrReturnOutsideFunc, s.Line(), 0, "return used outside a function")
			return false
		}
		if s.Value == nil {
			return true
		}
		return c.checkExpr(s.Value, scope)
	case *ast.BreakStatement:
		if !scope.IsOnLoop() {
			c.bag.Addf(errors.ErrBreakOutsideLoop, s.Line(), 0, "break used outside a loop")
			return false
		}
		return true
	case *ast.ContinueStatement:
		if !scope.IsOnLoop() {
			c.bag.Addf(errors.ErrContinueOutsideLoop, s.Line(), 0, "continue used outside a loop")
			return false
		}
		return true
	case *ast.Declaration:
		return c.checkDeclaration(s, scope)
	}
	return true
}
