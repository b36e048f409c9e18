package checker

import (
	"github.com/hulklang/hulkc/internal/ast"
	"github.com/hulklang/hulkc/internal/errors"
	"github.com/hulklang/hulkc/internal/symbols"
	"github.com/hulklang/hulkc/internal/types"
)

// runDiscovery builds the root scope: every top-level function and every
// type declaration resolved and defined, in an order that lets mutually
// referencing declarations see each other (spec §4.4.1). Grounded on
// check_functions_and_types: a worklist is retried pass after pass, an
// entry leaving the worklist the moment none of its annotations resolves to
// an error type any more (types.NotFound for an unknown name, or the
// placeholder of a type not yet created), until either the worklist is empty
// (success) or a whole pass makes no progress (a genuinely unresolvable
// name, or a reference cycle — fatal, mirroring the original returning
// None).
func runDiscovery(prog *ast.Program, reg *types.Registry, bag *errors.Bag) (*symbols.SymbolTable, bool) {
	root := symbols.NewRootTable()

	// Name reservation (spec §4.4.1): every type name is registered as a
	// placeholder before any annotation is resolved, so "type A { ... }"
	// and "type B { a : A }" can appear in either order.
	for _, td := range prog.Types {
		if !reg.ReservePlaceholder(td.Name) {
			bag.Addf(errors.ErrTypeRedeclared, td.Line(), 0, "type <%s> is already declared", td.Name)
		}
	}

	pendingFuncs := make([]*ast.Function, len(prog.Functions))
	copy(pendingFuncs, prog.Functions)
	pendingTypes := make([]*ast.TypeDeclaration, len(prog.Types))
	copy(pendingTypes, prog.Types)

	for {
		updated := false
		finished := true

		for i, fn := range pendingFuncs {
			if fn == nil {
				continue
			}
			finished = false

			retType := reg.ResolveFromAnnotation(fn.ReturnAnnotation)
			paramTypes := make([]*types.Type, len(fn.Params.List))
			blocked := retType.IsError
			for j, p := range fn.Params.List {
				paramTypes[j] = reg.ResolveFromAnnotation(p.Annotation)
				if paramTypes[j].IsError {
					blocked = true
				}
			}
			if blocked {
				continue
			}

			root.DefineFunction(mangledFunctionName(fn.Name), retType, paramTypes)
			pendingFuncs[i] = nil
			updated = true
		}

		for i, td := range pendingTypes {
			if td == nil {
				continue
			}
			finished = false

			var parentSym *symbols.TypeSymbol
			if td.ParentName != "" {
				var ok bool
				parentSym, ok = root.GetType(td.ParentName)
				if !ok {
					continue // parent not yet resolved; retry next pass
				}
			}

			ctorParams, ok := resolveAnnotatedList(reg, td.CtorParams, td.Name)
			if !ok {
				continue
			}
			ownProperties, ok := resolvePropertyList(reg, td.Properties, td.Name)
			if !ok {
				continue
			}
			ownMethods, ok := resolveMethodList(reg, td.Methods, td.Name)
			if !ok {
				continue
			}

			if td.ParentName != "" {
				if code, msg, fatal := checkInheritedParams(td.Name, ctorParams, parentSym); fatal {
					bag.Addf(code, td.Line(), 0, "%s", msg)
					return nil, true
				}
			}

			ts := root.DefineType(td.Name, ownProperties, ownMethods, ctorParams, parentSym)
			reg.CreateType(td.Name, ts.Properties.Len())

			pendingTypes[i] = nil
			updated = true
		}

		if finished {
			return root, false
		}
		if !updated {
			reportStalled(pendingFuncs, pendingTypes, reg, bag)
			return nil, true
		}
	}
}

// mangledFunctionName applies the top-level call mangling rule (spec
// §4.3): a bare function is always "function_<name>" when not a builtin.
func mangledFunctionName(name string) string { return "function_" + name }

func resolveAnnotatedList(reg *types.Registry, params *ast.Params, selfType string) ([]symbols.Symbol, bool) {
	if params == nil {
		return nil, true
	}
	out := make([]symbols.Symbol, len(params.List))
	for i, p := range params.List {
		t := resolveWithSelf(reg, p.Annotation, selfType)
		if t.IsError {
			return nil, false
		}
		out[i] = symbols.Symbol{Name: p.Name, Type: t}
	}
	return out, true
}

func resolvePropertyList(reg *types.Registry, decls []*ast.Declaration, selfType string) ([]symbols.Symbol, bool) {
	out := make([]symbols.Symbol, len(decls))
	for i, d := range decls {
		t := resolveWithSelf(reg, d.Annotation, selfType)
		if t.IsError {
			return nil, false
		}
		out[i] = symbols.Symbol{Name: d.Name, Type: t}
	}
	return out, true
}

func resolveMethodList(reg *types.Registry, methods []*ast.Function, selfType string) ([]symbols.FunctionSymbol, bool) {
	out := make([]symbols.FunctionSymbol, len(methods))
	for i, m := range methods {
		ret := resolveWithSelf(reg, m.ReturnAnnotation, selfType)
		if ret.IsError {
			return nil, false
		}
		// Every method's effective parameter list is prepended with an
		// implicit "self" receiver (spec §4.2), carrying the type under
		// construction — which at this point in the discovery fixed-point
		// has no registry entry yet. Synthesizing the self type directly
		// (rather than resolving it through the registry, as
		// try_deduce_function_types does via the pre-seeded placeholder
		// object) avoids depending on placeholder object identity, a
		// mechanism Go's value-typed registry entries don't offer.
		paramTypes := make([]*types.Type, len(m.Params.List)+1)
		paramTypes[0] = &types.Type{Annotation: selfType, CanonicalName: selfType}
		for j, p := range m.Params.List {
			t := resolveWithSelf(reg, p.Annotation, selfType)
			if t.IsError {
				return nil, false
			}
			paramTypes[j+1] = t
		}
		out[i] = symbols.FunctionSymbol{
			Symbol:     symbols.Symbol{Name: methodMangledName(selfType, m.Name), Type: types.Function},
			ReturnType: ret,
			ParamTypes: paramTypes,
		}
	}
	return out, true
}

func methodMangledName(typeName, methodName string) string {
	return "method_" + typeName + "_" + methodName
}

// resolveWithSelf resolves annotation, substituting the synthesized
// self-type struct when annotation names the type currently being defined.
func resolveWithSelf(reg *types.Registry, annotation, selfType string) *types.Type {
	if annotation == selfType {
		return &types.Type{Annotation: selfType, CanonicalName: selfType}
	}
	return reg.ResolveFromAnnotation(annotation)
}

// checkInheritedParams verifies every constructor parameter of parent and
// of each of parent's own ancestors is re-declared by the child with an
// identical type (spec §4.1's inherited-constructor-parameter subsumption
// rule), reporting ErrInheritParamMiss for a missing one and
// ErrInheritParamType for a mistyped one. Grounded on
// get_inherited_params/check_functions_and_types's _inherited_params loop.
func checkInheritedParams(childName string, childParams []symbols.Symbol, parent *symbols.TypeSymbol) (errors.Code, string, bool) {
	byName := make(map[string]symbols.Symbol, len(childParams))
	for _, p := range childParams {
		byName[p.Name] = p
	}
	for t := parent; t != nil; t = t.ParentType {
		for _, p := range t.Params {
			got, ok := byName[p.Name]
			if !ok {
				return errors.ErrInheritParamMiss, "type <" + childName + "> is missing inherited constructor parameter <" + p.Name + ">", true
			}
			if !got.Type.Equal(p.Type) {
				return errors.ErrInheritParamType, "inherited constructor parameter <" + p.Name + "> for type <" + childName + "> must be of type <" + p.Type.Annotation + ">", true
			}
		}
	}
	return "", "", false
}

// reportStalled explains every entry still on the worklist once a full pass
// made no progress: a type whose parent name is simply unknown gets
// ErrTypeUnknown, everything else (a genuine reference cycle) gets
// ErrInheritCycle; a function with an unresolved parameter or return
// annotation gets ErrTypeUnknown.
func reportStalled(funcs []*ast.Function, decls []*ast.TypeDeclaration, reg *types.Registry, bag *errors.Bag) {
	for _, fn := range funcs {
		if fn == nil {
			continue
		}
		if reg.ResolveFromAnnotation(fn.ReturnAnnotation) == types.NotFound {
			bag.Addf(errors.ErrTypeUnknown, fn.Line(), 0, "function <%s> has unknown return type <%s>", fn.Name, fn.ReturnAnnotation)
		}
		for _, p := range fn.Params.List {
			if reg.ResolveFromAnnotation(p.Annotation) == types.NotFound {
				bag.Addf(errors.ErrTypeUnknown, fn.Line(), 0, "parameter <%s> of function <%s> has unknown type <%s>", p.Name, fn.Name, p.Annotation)
			}
		}
	}
	for _, td := range decls {
		if td == nil {
			continue
		}
		// A parent still on the worklist resolves to its error-valued
		// placeholder; any other parent left unresolved here is unknown.
		if parent := reg.ResolveFromAnnotation(td.ParentName); td.ParentName != "" && (parent == types.NotFound || !parent.IsError) {
			bag.Addf(errors.ErrTypeUnknown, td.Line(), 0, "type <%s> inherits unknown type <%s>", td.Name, td.ParentName)
			continue
		}
		if reportUnknownTypeMemberAnnotations(td, reg, bag) {
			continue
		}
		bag.Addf(errors.ErrInheritCycle, td.Line(), 0, "type <%s> participates in a circular type reference", td.Name)
	}
}

// reportUnknownTypeMemberAnnotations reports ErrTypeUnknown for any of td's
// own constructor parameters, properties, or method parameter/return
// annotations that don't resolve, and reports whether it found one — a
// type stalled for this reason isn't actually part of a reference cycle,
// unlike one stalled only because its ParentName or a member annotation
// names another type that is itself still stalled.
func reportUnknownTypeMemberAnnotations(td *ast.TypeDeclaration, reg *types.Registry, bag *errors.Bag) bool {
	found := false
	if td.CtorParams != nil {
		for _, p := range td.CtorParams.List {
			if reg.ResolveFromAnnotation(p.Annotation) == types.NotFound {
				bag.Addf(errors.ErrTypeUnknown, td.Line(), 0, "constructor parameter <%s> of type <%s> has unknown type <%s>", p.Name, td.Name, p.Annotation)
				found = true
			}
		}
	}
	for _, prop := range td.Properties {
		if reg.ResolveFromAnnotation(prop.Annotation) == types.NotFound {
			bag.Addf(errors.ErrTypeUnknown, prop.Line(), 0, "property <%s> of type <%s> has unknown type <%s>", prop.Name, td.Name, prop.Annotation)
			found = true
		}
	}
	for _, m := range td.Methods {
		if reg.ResolveFromAnnotation(m.ReturnAnnotation) == types.NotFound {
			bag.Addf(errors.ErrTypeUnknown, m.Line(), 0, "method <%s> of type <%s> has unknown return type <%s>", m.Name, td.Name, m.ReturnAnnotation)
			found = true
		}
		for _, p := range m.Params.List {
			if reg.ResolveFromAnnotation(p.Annotation) == types.NotFound {
				bag.Addf(errors.ErrTypeUnknown, m.Line(), 0, "parameter <%s> of method <%s> of type <%s> has unknown type <%s>", p.Name, m.Name, td.Name, p.Annotation)
				found = true
			}
		}
	}
	return found
}
