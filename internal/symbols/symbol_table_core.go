// Package symbols implements the compiler's layered symbol table (spec
// §3, §4.2): variables, functions, and types in nested scopes, plus the
// per-type property/method/constructor bookkeeping that inheritance needs.
//
// Grounded on original_source/src/symbols.py's SymbolTable/Symbol/
// SymbolObject and, for the "clone-on-scope-entry" discipline, on
// internal/symbols/symbol_table_core.go's Symbol/SymbolKind shape in the
// teacher repo.
package symbols

import "github.com/hulklang/hulkc/internal/types"

// Kind selects which of a scope's three namespaces a lookup targets.
type Kind int

const (
	VarKind Kind = iota
	FuncKind
	TypeKind
)

// Symbol is the spec §3 triple: a name, its type, and an alias — a
// stack-frame-relative offset the MIPS generator uses to address it.
type Symbol struct {
	Name  string
	Type  *types.Type
	Alias int
}

// FunctionSymbol extends Symbol with a return type and an ordered parameter
// type list (spec §3). Its own Type is always types.Function.
type FunctionSymbol struct {
	Symbol
	ReturnType *types.Type
	ParamTypes []*types.Type
}

// TypeSymbol extends Symbol with everything a nominal type needs: ordered
// properties and methods, constructor parameters, the parent link, the
// ancestor chain (farthest first), and the inheritance dispatch map (spec
// §3). Its own Type is always types.TypeType.
type TypeSymbol struct {
	Symbol
	Properties  *OrderedSymbols
	Methods     *OrderedFunctions
	Params      []Symbol
	ParentType  *TypeSymbol
	Ancestors   []*TypeSymbol // farthest ancestor first, nearest parent last
	Inheritance map[string]string // "method_<Child>_<m>" -> "method_<Ancestor>_<m>"
}

// OrderedSymbols is an insertion-ordered name -> Symbol mapping (spec §3:
// "properties (ordered mapping name->Symbol)").
type OrderedSymbols struct {
	order []string
	byName map[string]Symbol
}

// NewOrderedSymbols returns an empty ordered symbol mapping.
func NewOrderedSymbols() *OrderedSymbols {
	return &OrderedSymbols{byName: make(map[string]Symbol)}
}

// Set inserts sym under its own name, appending to the order only the first
// time that name is seen (a later Set for the same name overwrites in
// place, preserving its original position — this is what "a child type's
// property list is the parent's properties followed by the child's own"
// relies on: a child never re-declares a parent property under the same
// name, so this tie-break never actually fires for inheritance layout, but
// keeps Set total and side-effect free for callers that do overwrite).
func (o *OrderedSymbols) Set(sym Symbol) {
	if _, exists := o.byName[sym.Name]; !exists {
		o.order = append(o.order, sym.Name)
	}
	o.byName[sym.Name] = sym
}

// Get returns the symbol named name and whether it was found.
func (o *OrderedSymbols) Get(name string) (Symbol, bool) {
	s, ok := o.byName[name]
	return s, ok
}

// Names returns every name in insertion order.
func (o *OrderedSymbols) Names() []string {
	return o.order
}

// Len returns the number of symbols held.
func (o *OrderedSymbols) Len() int {
	return len(o.order)
}

// Values returns every symbol in insertion order.
func (o *OrderedSymbols) Values() []Symbol {
	vals := make([]Symbol, len(o.order))
	for i, n := range o.order {
		vals[i] = o.byName[n]
	}
	return vals
}

// Clone returns a shallow copy safe to mutate independently (used when a
// child type's property list starts as a copy of its parent's).
func (o *OrderedSymbols) Clone() *OrderedSymbols {
	c := NewOrderedSymbols()
	c.order = append([]string(nil), o.order...)
	for k, v := range o.byName {
		c.byName[k] = v
	}
	return c
}

// OrderedFunctions is the function-symbol analogue of OrderedSymbols (spec
// §3: "methods (ordered mapping name->FunctionSymbol)").
type OrderedFunctions struct {
	order  []string
	byName map[string]FunctionSymbol
}

// NewOrderedFunctions returns an empty ordered function mapping.
func NewOrderedFunctions() *OrderedFunctions {
	return &OrderedFunctions{byName: make(map[string]FunctionSymbol)}
}

func (o *OrderedFunctions) Set(fn FunctionSymbol) {
	if _, exists := o.byName[fn.Name]; !exists {
		o.order = append(o.order, fn.Name)
	}
	o.byName[fn.Name] = fn
}

func (o *OrderedFunctions) Get(name string) (FunctionSymbol, bool) {
	f, ok := o.byName[name]
	return f, ok
}

func (o *OrderedFunctions) Names() []string { return o.order }

func (o *OrderedFunctions) Values() []FunctionSymbol {
	vals := make([]FunctionSymbol, len(o.order))
	for i, n := range o.order {
		vals[i] = o.byName[n]
	}
	return vals
}

func (o *OrderedFunctions) Clone() *OrderedFunctions {
	c := NewOrderedFunctions()
	c.order = append([]string(nil), o.order...)
	for k, v := range o.byName {
		c.byName[k] = v
	}
	return c
}
