package symbols

import "github.com/hulklang/hulkc/internal/types"

// DefineVar binds name in the current scope's variable namespace.
func (t *SymbolTable) DefineVar(name string, typ *types.Type, alias int) {
	t.variables[name] = Symbol{Name: name, Type: typ, Alias: alias}
}

// DefineFunction binds name in the current scope's function namespace.
func (t *SymbolTable) DefineFunction(name string, returnType *types.Type, paramTypes []*types.Type) {
	t.functions[name] = FunctionSymbol{
		Symbol:     Symbol{Name: name, Type: types.Function},
		ReturnType: returnType,
		ParamTypes: paramTypes,
	}
}

// DefineType registers name as a fully-resolved TypeSymbol: properties and
// methods are laid out parent-first (spec §3 invariant: "a child type's
// property list is the parent's properties followed by the child's own"),
// the inheritance dispatch map is built, and per-type property addresses
// are assigned (index*4, spec §3).
func (t *SymbolTable) DefineType(name string, ownProperties []Symbol, ownMethods []FunctionSymbol, params []Symbol, parent *TypeSymbol) *TypeSymbol {
	ts := &TypeSymbol{
		Symbol:      Symbol{Name: name, Type: types.TypeType},
		Properties:  NewOrderedSymbols(),
		Methods:     NewOrderedFunctions(),
		Params:      params,
		ParentType:  parent,
		Inheritance: make(map[string]string),
	}

	if parent != nil {
		ts.Ancestors = append(append([]*TypeSymbol(nil), parent.Ancestors...), parent)
		ts.Properties = parent.Properties.Clone()
		ts.Methods = parent.Methods.Clone()
		for k, v := range parent.Inheritance {
			ts.Inheritance[k] = v
		}
	}

	for _, p := range ownProperties {
		ts.Properties.Set(p)
	}
	for _, m := range ownMethods {
		ts.Methods.Set(m)
	}

	// Every parent method not re-declared by this type dispatches through
	// its mangled ancestor name (spec §3 Inheritance map; mirrors
	// original_source/src/symbols.py's SymbolObject.__init__: the child's
	// inheritance map starts as a *copy* of the parent's, so a method
	// inherited two generations back still resolves).
	if parent != nil {
		ownNames := make(map[string]bool, len(ownMethods))
		for _, m := range ownMethods {
			ownNames[m.Name] = true
		}
		for _, parentMethodName := range parent.Methods.Names() {
			if _, already := ts.Inheritance[methodRefName(name, parentMethodName)]; already {
				continue
			}
			refName := methodRefName(name, parentMethodName)
			if ownNames[refName] {
				continue
			}
			ts.Inheritance[refName] = parentMethodName
		}
	}

	t.types[name] = ts

	addrs := make(map[string]int)
	if parent != nil {
		for k, v := range t.objectPropertyAddress[parent.Name] {
			addrs[k] = v
		}
	}
	for _, propName := range ts.Properties.Names() {
		if _, exists := addrs[propName]; exists {
			continue
		}
		addrs[propName] = len(addrs)
	}
	t.objectPropertyAddress[name] = addrs

	return ts
}

// methodRefName turns a fully-mangled method name ("method_<Type>_<m>")
// into the equivalent name for childName ("method_<childName>_<m>"), by
// taking the bare method name (the last "_"-delimited segment) back out.
// Mirrors original_source/src/symbols.py: `tmp = inherit_name.split('_')[-1]`.
func methodRefName(childName, mangled string) string {
	bare := mangled
	for i := len(mangled) - 1; i >= 0; i-- {
		if mangled[i] == '_' {
			bare = mangled[i+1:]
			break
		}
	}
	return "method_" + childName + "_" + bare
}

// PropertyOffset returns the byte offset of propName within typeName's
// layout (index*4, spec §3), and whether propName exists on that type.
func (t *SymbolTable) PropertyOffset(typeName, propName string) (int, bool) {
	addrs, ok := t.objectPropertyAddress[typeName]
	if !ok {
		return 0, false
	}
	idx, ok := addrs[propName]
	if !ok {
		return 0, false
	}
	return idx * 4, true
}

// IsDefined reports whether name exists in the given namespace.
func (t *SymbolTable) IsDefined(name string, kind Kind) bool {
	switch kind {
	case VarKind:
		_, ok := t.variables[name]
		return ok
	case FuncKind:
		_, ok := t.functions[name]
		return ok
	case TypeKind:
		_, ok := t.types[name]
		return ok
	}
	return false
}

// IsBuiltin reports whether name is one of the global, unshadowable
// builtin functions.
func IsBuiltin(name string) bool {
	_, ok := BuiltinFunctions[name]
	return ok
}

// GetVar looks a variable symbol up, checking globals as a fallback (used
// to resolve outer-scope identifiers from inside an array-index expression
// or a type body, spec §4.2).
func (t *SymbolTable) GetVar(name string) (Symbol, bool) {
	if s, ok := t.variables[name]; ok {
		return s, true
	}
	s, ok := t.globals[name]
	return s, ok
}

// GetFunction looks a user-declared function symbol up (not a builtin;
// use IsBuiltin/BuiltinFunctions for those).
func (t *SymbolTable) GetFunction(name string) (FunctionSymbol, bool) {
	f, ok := t.functions[name]
	return f, ok
}

// GetType looks a type symbol up by name.
func (t *SymbolTable) GetType(name string) (*TypeSymbol, bool) {
	ts, ok := t.types[name]
	return ts, ok
}

// SetFunction marks name as the enclosing function for everything checked
// inside its body (spec §4.2).
func (t *SymbolTable) SetFunction(name string) { t.currentFunction = name }

// UnsetFunction resets the enclosing-function context to the top level.
func (t *SymbolTable) UnsetFunction() { t.currentFunction = "main" }

// CurrentFunction returns the name of the function currently being checked,
// or "main" at the top level.
func (t *SymbolTable) CurrentFunction() string { return t.currentFunction }

// AddLoop/RemoveLoop track loop nesting so break/continue can be rejected
// outside a loop (spec §7).
func (t *SymbolTable) AddLoop()    { t.loops++ }
func (t *SymbolTable) RemoveLoop() { t.loops-- }

// IsOnFunction reports whether checking is currently inside a function body.
func (t *SymbolTable) IsOnFunction() bool { return t.currentFunction != "main" }

// IsOnLoop reports whether checking is currently inside at least one loop.
func (t *SymbolTable) IsOnLoop() bool { return t.loops != 0 }

// SetCurrentType/UnsetCurrentType/IsOnTypeBody track whether checking is
// currently inside a type body (property initializer or method).
func (t *SymbolTable) SetCurrentType(name string) { t.currentType = name }
func (t *SymbolTable) UnsetCurrentType()          { t.currentType = "" }
func (t *SymbolTable) IsOnTypeBody() bool         { return t.currentType != "" }
func (t *SymbolTable) CurrentType() string        { return t.currentType }
