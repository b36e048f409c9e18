package types

import "testing"

func TestNewRegistrySeedsBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, want := range []*Type{Number, String, Bool, Function, TypeType, Object} {
		if got := r.ResolveFromAnnotation(want.Annotation); got != want {
			t.Fatalf("ResolveFromAnnotation(%q) = %v, want %v", want.Annotation, got, want)
		}
		if got := r.ResolveFromName(want.CanonicalName); got != want {
			t.Fatalf("ResolveFromName(%q) = %v, want %v", want.CanonicalName, got, want)
		}
	}
}

func TestResolveFromAnnotationEmptyIsNoDeduced(t *testing.T) {
	r := NewRegistry()
	if got := r.ResolveFromAnnotation(""); got != NoDeduced {
		t.Fatalf("ResolveFromAnnotation(\"\") = %v, want NoDeduced", got)
	}
}

func TestResolveFromAnnotationUnknownIsNotFound(t *testing.T) {
	r := NewRegistry()
	if got := r.ResolveFromAnnotation("Widget"); got != NotFound {
		t.Fatalf("ResolveFromAnnotation(\"Widget\") = %v, want NotFound", got)
	}
}

func TestReservePlaceholderRejectsRedeclaration(t *testing.T) {
	r := NewRegistry()
	if !r.ReservePlaceholder("Animal") {
		t.Fatalf("first reservation of Animal should succeed")
	}
	if r.ReservePlaceholder("Animal") {
		t.Fatalf("second reservation of Animal should fail")
	}
	if r.ReservePlaceholder("Number") {
		t.Fatalf("reserving a builtin name should fail")
	}
}

func TestCreateTypeReplacesPlaceholderAndSizesByPropertyCount(t *testing.T) {
	r := NewRegistry()
	r.ReservePlaceholder("Animal")
	typ := r.CreateType("Animal", 2)
	if typ.Size != 4*2+4 {
		t.Fatalf("got size %d, want %d", typ.Size, 4*2+4)
	}
	if !r.IsDeclared("Animal") {
		t.Fatalf("Animal should be declared after CreateType")
	}
	if got := r.ResolveFromAnnotation("Animal"); got != typ {
		t.Fatalf("ResolveFromAnnotation(\"Animal\") = %v, want %v", got, typ)
	}
}

func TestIsDeclaredFalseForPlaceholder(t *testing.T) {
	r := NewRegistry()
	r.ReservePlaceholder("Animal")
	if r.IsDeclared("Animal") {
		t.Fatalf("a placeholder-only type should not be declared yet")
	}
}

func TestResolveFromAnnotationArrayType(t *testing.T) {
	r := NewRegistry()
	got := r.ResolveFromAnnotation("Array_Number")
	if !got.IsArray {
		t.Fatalf("got %v, want an array type", got)
	}
	if got.ItemType != Number {
		t.Fatalf("item type = %v, want Number", got.ItemType)
	}
	if got.Size != 4 {
		t.Fatalf("a bare Array_T annotation should resolve to the pointer-sized (4) form, got %d", got.Size)
	}
}

func TestResolveFromAnnotationArrayOfUnknownItemIsNotFound(t *testing.T) {
	r := NewRegistry()
	if got := r.ResolveFromAnnotation("Array_Widget"); got != NotFound {
		t.Fatalf("ResolveFromAnnotation(\"Array_Widget\") = %v, want NotFound", got)
	}
}

func TestMakeArrayTypeLiteralSizeVsPointerSize(t *testing.T) {
	r := NewRegistry()
	literal := r.MakeArrayType(Number, 3)
	if literal.Size != 3*Number.Size {
		t.Fatalf("literal array size = %d, want %d", literal.Size, 3*Number.Size)
	}
	pointer := r.MakeArrayType(Number, 0)
	if pointer.Size != 4 {
		t.Fatalf("heap array pointer size = %d, want 4", pointer.Size)
	}
}

func TestMakeArrayTypeRejectsErrorItemType(t *testing.T) {
	r := NewRegistry()
	if got := r.MakeArrayType(NotFound, 2); got != NotFound {
		t.Fatalf("MakeArrayType with an error item type = %v, want NotFound", got)
	}
}

func TestTypeEqualIgnoresSize(t *testing.T) {
	r := NewRegistry()
	a := r.MakeArrayType(Number, 3)
	b := r.MakeArrayType(Number, 10)
	if !a.Equal(b) {
		t.Fatalf("two Array_Number types of different literal size should compare equal, got a=%v b=%v", a, b)
	}
}

func TestTypeEqualNilHandling(t *testing.T) {
	var a, b *Type
	if !a.Equal(b) {
		t.Fatalf("two nil types should compare equal")
	}
	if a.Equal(Number) {
		t.Fatalf("nil should not equal a real type")
	}
}
