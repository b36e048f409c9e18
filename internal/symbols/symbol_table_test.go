package symbols

import (
	"testing"

	"github.com/hulklang/hulkc/internal/types"
)

// TestInheritanceClosure exercises spec §8's "Inheritance closure" property
// end-to-end scenario 4: type A(v), type B(v) inherits A {}. B should
// expose A's property at the same offset and dispatch B.get() to A's
// method.
func TestInheritanceClosure(t *testing.T) {
	root := NewRootTable()

	a := root.DefineType("A",
		[]Symbol{{Name: "v", Type: types.Number}},
		[]FunctionSymbol{{
			Symbol:     Symbol{Name: "method_A_get", Type: types.Function},
			ReturnType: types.Number,
			ParamTypes: []*types.Type{{Annotation: "A", CanonicalName: "A"}},
		}},
		[]Symbol{{Name: "v", Type: types.Number}},
		nil,
	)

	b := root.DefineType("B", nil, nil, []Symbol{{Name: "v", Type: types.Number}}, a)

	if b.Properties.Len() != 1 {
		t.Fatalf("expected B to inherit exactly 1 property, got %d", b.Properties.Len())
	}
	if _, ok := b.Properties.Get("v"); !ok {
		t.Fatalf("expected B to expose inherited property v")
	}

	offA, ok := root.PropertyOffset("A", "v")
	if !ok {
		t.Fatalf("expected A.v to have an offset")
	}
	offB, ok := root.PropertyOffset("B", "v")
	if !ok {
		t.Fatalf("expected B.v to have an offset")
	}
	if offA != offB {
		t.Fatalf("expected inherited property to keep its offset: A.v=%d B.v=%d", offA, offB)
	}

	dispatch, ok := b.Inheritance["method_B_get"]
	if !ok {
		t.Fatalf("expected B.inheritance[method_B_get] to exist")
	}
	if dispatch != "method_A_get" {
		t.Fatalf("expected method_B_get to dispatch to method_A_get, got %s", dispatch)
	}
}

// TestMakeChildInsideTypeExposesSelf verifies that a type-body scope can
// resolve its own properties and methods unqualified.
func TestMakeChildInsideTypeExposesSelf(t *testing.T) {
	root := NewRootTable()
	root.DefineType("Point",
		[]Symbol{{Name: "x", Type: types.Number}, {Name: "y", Type: types.Number}},
		nil,
		[]Symbol{{Name: "x", Type: types.Number}, {Name: "y", Type: types.Number}},
		nil,
	)

	child := root.MakeChildInsideType("Point")
	if child == nil {
		t.Fatal("expected a child scope for a known type")
	}
	if !child.IsOnTypeBody() || child.CurrentType() != "Point" {
		t.Fatalf("expected child scope to be marked inside Point")
	}
	if _, ok := child.GetVar("x"); !ok {
		t.Fatalf("expected Point's property x to be visible unqualified")
	}
}

// TestScopeCloneIsIndependent verifies that defining a variable in a child
// scope never leaks into the parent (spec §3 "Symbol table lifecycle").
func TestScopeCloneIsIndependent(t *testing.T) {
	root := NewRootTable()
	root.DefineVar("x", types.Number, 0)

	child := root.MakeChild()
	child.DefineVar("y", types.Number, 4)

	if root.IsDefined("y", VarKind) {
		t.Fatalf("expected child-scope definitions not to leak into the parent")
	}
	if !child.IsDefined("x", VarKind) {
		t.Fatalf("expected child scope to still see the parent's variables")
	}
}
