// Package types is the compiler's type registry: the canonical store of
// builtin and user-declared types, annotation-to-type resolution, the
// array-type constructor, and per-type property-layout sizing.
//
// Grounded on original_source/src/symbols.py's SymbolType/TYPES/ANNOTATIONS
// globals, reshaped into an instance (Registry) rather than class-level
// mutable state — a global registry survives one compilation; it has no
// business surviving across compiler invocations in a Go process that may
// run the pipeline more than once (tests do exactly that).
package types

import "strings"

// Type is a value type: two Types compare equal by Annotation, CanonicalName,
// IsError and IsArray — Size is deliberately excluded (spec §3): a literal
// array and a pointer to the same element type carry different sizes but
// are the same type.
type Type struct {
	Annotation    string // the textual name as written in source, e.g. "Number"
	CanonicalName string // normalized internal identifier, e.g. "number"
	IsError       bool
	IsArray       bool
	Size          int   // bytes; see MakeArrayType for how this is chosen
	ItemType      *Type // non-nil only when IsArray
}

// Equal implements the spec §3 equality: annotation, canonical name, error
// flag and array flag must all agree; Size never participates.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Annotation == other.Annotation &&
		t.CanonicalName == other.CanonicalName &&
		t.IsError == other.IsError &&
		t.IsArray == other.IsArray
}

func (t *Type) String() string {
	if t == nil {
		return "<nil type>"
	}
	return "TYPE<" + t.Annotation + ">"
}

// Builtin, fixed-size value types. Every Registry seeds these under both
// their annotation and their canonical name.
var (
	Number   = &Type{Annotation: "Number", CanonicalName: "number", Size: 4}
	String   = &Type{Annotation: "String", CanonicalName: "string", Size: 4}
	Bool     = &Type{Annotation: "Bool", CanonicalName: "bool", Size: 4}
	Function = &Type{Annotation: "Function", CanonicalName: "function", Size: 4}
	TypeType = &Type{Annotation: "Type", CanonicalName: "type", Size: 4}
	Object   = &Type{Annotation: "Object", CanonicalName: "object", Size: 4}
)

// Sentinel, error-valued types. Equality still holds for these: two
// NoDeducible values compare equal to each other (same annotation/canonical
// name/flags), which is what lets the checker fold "both sides are already
// broken" into a single downstream error instead of a cascade.
var (
	NoDeduced   = &Type{Annotation: "NO_DEDUCED", CanonicalName: "NO_DEDUCED"}
	NoDeducible = &Type{Annotation: "NO_DEDUCIBLE", CanonicalName: "NO_DEDUCIBLE", IsError: true}
	NotFound    = &Type{Annotation: "NOT_FOUND", CanonicalName: "NOT_FOUND", IsError: true}
)

// Registry is the canonical store of every type known during one
// compilation: the six builtins plus every user-declared type, keyed both
// by annotation (what the parser wrote) and by canonical name (what the
// rest of the compiler uses internally).
type Registry struct {
	byAnnotation map[string]*Type
	byCanonical  map[string]*Type
}

// NewRegistry returns a Registry seeded with the six builtin types.
func NewRegistry() *Registry {
	r := &Registry{
		byAnnotation: make(map[string]*Type),
		byCanonical:  make(map[string]*Type),
	}
	for _, t := range []*Type{Number, String, Bool, Function, TypeType, Object} {
		r.byAnnotation[t.Annotation] = t
		r.byCanonical[t.CanonicalName] = t
	}
	return r
}

// ReservePlaceholder registers name as a forward-declared, error-valued type
// so that mutually-referencing user type declarations parse and resolve
// each other's annotations before any of them is fully checked (spec §4.4.1
// "name reservation"). Returns false if name is already known (builtin or
// user), signalling a redeclaration to the caller.
func (r *Registry) ReservePlaceholder(name string) bool {
	if _, exists := r.byCanonical[name]; exists {
		return false
	}
	if _, exists := r.byAnnotation[name]; exists {
		return false
	}
	placeholder :=&Type{Annotation: name, CanonicalName: name, IsError: true}
	r.byAnnotation[name] = placeholder
	r.byCanonical[name] = placeholder
	return true
}

// ResolveFromAnnotation maps a parsed type annotation to a Type:
//   - "" (no annotation written) -> NoDeduced
//   - a known name               -> its canonical Type
//   - "Array_T"                  -> a pointer-sized Array<T>, T resolved
//     recursively; a nested "Array_Array_T" is rejected by the caller
//     (spec §4.1: multi-dimensional arrays are not a thing here), this
//     method itself just resolves what it is asked to resolve.
//   - anything else              -> NotFound
func (r *Registry) ResolveFromAnnotation(annotation string) *Type {
	if annotation == "" {
		return NoDeduced
	}
	if t, ok := r.byAnnotation[annotation]; ok {
		return t
	}
	if rest, ok := strings.CutPrefix(annotation, "Array_"); ok {
		item := r.ResolveFromAnnotation(rest)
		if item.IsError {
			return NotFound
		}
		return r.MakeArrayType(item, 0)
	}
	return NotFound
}

// ResolveFromName looks a type up by its canonical (internal) name rather
// than its source annotation; used when the checker already holds a
// TypeSymbol's canonical name and needs the Type value back.
func (r *Registry) ResolveFromName(name string) *Type {
	if t, ok := r.byCanonical[name]; ok {
		return t
	}
	return NotFound
}

// MakeArrayType synthesizes Array<itemType>. size is the literal element
// count for an array literal (size*itemType.Size bytes, the value lives
// inline on the stack); size == 0 means "a variable holding a pointer to a
// heap array" (4 bytes, a pointer, regardless of itemType.Size) — spec §3's
// "pointer-sized (4) when referring to a heap array".
func (r *Registry) MakeArrayType(itemType *Type, size int) *Type {
	if itemType == nil || itemType.IsError {
		return NotFound
	}
	t := &Type{
		Annotation:    "Array_" + itemType.Annotation,
		CanonicalName: "array:" + itemType.CanonicalName,
		IsArray:       true,
		ItemType:      itemType,
	}
	if size > 0 {
		t.Size = size * itemType.Size
	} else {
		t.Size = 4
	}
	return t
}

// CreateType finalizes the size of a user-declared type and registers it
// under both its annotation and canonical name, replacing the error-valued
// placeholder from ReservePlaceholder. Size is one word per property plus a
// one-word header (spec §4.1). This method only sizes and stores: it does
// not look at property types, and the discovery pass that calls it does not
// reject array-of-array property annotations either (nested array values
// are rejected by internal/checker's array-literal and let-declaration
// checks).
func (r *Registry) CreateType(name string, propertyCount int) *Type {
	t := &Type{
		Annotation:    name,
		CanonicalName: name,
		Size:          4*propertyCount + 4,
	}
	r.byAnnotation[name] = t
	r.byCanonical[name] = t
	return t
}

// IsDeclared reports whether name (annotation or canonical) is already a
// known, non-placeholder type.
func (r *Registry) IsDeclared(name string) bool {
	t, ok := r.byCanonical[name]
	if !ok {
		t, ok = r.byAnnotation[name]
	}
	return ok && !t.IsError
}
