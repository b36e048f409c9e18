package symbols

import "github.com/hulklang/hulkc/internal/types"

// BuiltinFunctions lists the global, unshadowable builtin function symbols
// (spec §3). print and the two converters are named directly in spec.md
// §3; concat_strings backs the "@"/"@@" lowering in spec §4.5.
var BuiltinFunctions = map[string]FunctionSymbol{
	"print": {
		Symbol:     Symbol{Name: "print", Type: types.Function},
		ReturnType: types.String,
		ParamTypes: []*types.Type{types.String},
	},
	"boolToString": {
		Symbol:     Symbol{Name: "boolToString", Type: types.Function},
		ReturnType: types.String,
		ParamTypes: []*types.Type{types.Bool},
	},
	"numberToString": {
		Symbol:     Symbol{Name: "numberToString", Type: types.Function},
		ReturnType: types.String,
		ParamTypes: []*types.Type{types.Number},
	},
	"concat_strings": {
		Symbol:     Symbol{Name: "concat_strings", Type: types.Function},
		ReturnType: types.String,
		ParamTypes: []*types.Type{types.String, types.String, types.Bool},
	},
}

// SymbolTable is one lexical scope. Per spec §3/§9, a child scope is built
// by shallow-copying the parent's three namespaces rather than chaining to
// it — name lookup therefore never walks outward at read time, it was
// already flattened in at the moment the child was created. Definitions
// only ever land in the innermost (current) table.
type SymbolTable struct {
	variables map[string]Symbol
	functions map[string]FunctionSymbol
	types     map[string]*TypeSymbol
	globals   map[string]Symbol // outer-scope variables, for array-index style resolution

	objectPropertyAddress map[string]map[string]int // type name -> property name -> word index

	currentFunction string // "main" when not inside any function
	loops           int
	currentType     string // "" when not inside a type body
}

// NewRootTable returns the empty scope built at the start of discovery
// (spec §4.4.1).
func NewRootTable() *SymbolTable {
	return &SymbolTable{
		variables:             make(map[string]Symbol),
		functions:             make(map[string]FunctionSymbol),
		types:                 make(map[string]*TypeSymbol),
		globals:               make(map[string]Symbol),
		objectPropertyAddress: make(map[string]map[string]int),
		currentFunction:       "main",
	}
}

// MakeChild returns a fresh scope for a let/function/type-body/property
// initializer: a shallow copy of the three namespaces plus a duplicated
// objectPropertyAddress, inheriting currentFunction, loops, and
// currentType (spec §3 "Symbol table lifecycle").
func (t *SymbolTable) MakeChild() *SymbolTable {
	c := &SymbolTable{
		variables:             cloneSymbolMap(t.variables),
		functions:             cloneFunctionMap(t.functions),
		types:                 cloneTypeMap(t.types),
		globals:               cloneSymbolMap(t.globals),
		objectPropertyAddress: clonePropertyAddressMap(t.objectPropertyAddress),
		currentFunction:       t.currentFunction,
		loops:                 t.loops,
		currentType:           t.currentType,
	}
	return c
}

// MakeChildInsideType returns a scope whose visible variables/functions are
// typeName's properties and methods (so a method body can refer to `self`
// properties unqualified), with currentType set to typeName. The parent's
// own variables become the child's globals — used to resolve identifiers
// that refer to an enclosing (non-property) scope from inside, e.g. an
// array index expression written outside any type body but evaluated while
// building a property initializer. Returns nil if typeName is unknown.
func (t *SymbolTable) MakeChildInsideType(typeName string) *SymbolTable {
	ts, ok := t.types[typeName]
	if !ok {
		return nil
	}

	c := &SymbolTable{
		variables:             make(map[string]Symbol),
		functions:             make(map[string]FunctionSymbol),
		types:                 cloneTypeMap(t.types),
		objectPropertyAddress: clonePropertyAddressMap(t.objectPropertyAddress),
		currentFunction:       t.currentFunction,
		loops:                 t.loops,
		currentType:           typeName,
	}
	if t.currentType == "" {
		c.globals = cloneSymbolMap(t.variables)
	} else {
		c.globals = cloneSymbolMap(t.globals)
	}

	for _, name := range ts.Properties.Names() {
		prop, _ := ts.Properties.Get(name)
		c.variables[name] = prop
	}
	for _, name := range ts.Methods.Names() {
		m, _ := ts.Methods.Get(name)
		c.functions[name] = m
	}
	return c
}

func cloneSymbolMap(m map[string]Symbol) map[string]Symbol {
	c := make(map[string]Symbol, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneFunctionMap(m map[string]FunctionSymbol) map[string]FunctionSymbol {
	c := make(map[string]FunctionSymbol, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneTypeMap(m map[string]*TypeSymbol) map[string]*TypeSymbol {
	c := make(map[string]*TypeSymbol, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func clonePropertyAddressMap(m map[string]map[string]int) map[string]map[string]int {
	c := make(map[string]map[string]int, len(m))
	for k, v := range m {
		inner := make(map[string]int, len(v))
		for ik, iv := range v {
			inner[ik] = iv
		}
		c[k] = inner
	}
	return c
}
