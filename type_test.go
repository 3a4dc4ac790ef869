package typesubst

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func widget() *Type {
	return NewStruct("Widget",
		Property{Name: "Id", Type: Int},
		Property{Name: "Name", Type: String},
	)
}

func TestEqual_ByNameAndKind(t *testing.T) {
	a := widget()
	b := widget()
	if !a.Equal(b) {
		t.Error("two descriptors with the same name and kind should be equal")
	}

	c := NewStruct("Gadget")
	if a.Equal(c) {
		t.Error("descriptors with different names should not be equal")
	}

	if a.Equal(Int) {
		t.Error("struct should not equal a primitive")
	}
}

func TestEqual_Shells(t *testing.T) {
	a := EnumerableOf(widget())
	b := EnumerableOf(widget())
	if !a.Equal(b) {
		t.Error("same shell around equal elements should be equal")
	}

	if a.Equal(ValueOf(widget())) {
		t.Error("different shells should not be equal")
	}

	if a.Equal(widget()) {
		t.Error("shelled type should not equal its element")
	}
}

func TestEqual_Nil(t *testing.T) {
	var a *Type
	if a.Equal(widget()) {
		t.Error("nil should not equal a descriptor")
	}
	if !a.Equal(nil) {
		t.Error("nil should equal nil")
	}
}

func TestIsValueType(t *testing.T) {
	if !Int.IsValueType() {
		t.Error("primitives are value types")
	}
	if !Time.IsValueType() {
		t.Error("opaque structs are value types")
	}
	if widget().IsValueType() {
		t.Error("a struct with properties is not a value type")
	}
}

func TestIsSentinel_ByName(t *testing.T) {
	if !Void.IsSentinel() || !ActionResult.IsSentinel() || !RawResponse.IsSentinel() {
		t.Error("package sentinels should report as sentinels")
	}

	// Descriptors extracted elsewhere compare by name.
	extracted := &Type{Name: "ActionResult", Kind: KindStruct}
	if !extracted.IsSentinel() {
		t.Error("sentinel match should work by name")
	}

	if widget().IsSentinel() {
		t.Error("ordinary struct is not a sentinel")
	}
}

func TestPropertyNames_Sorted(t *testing.T) {
	ty := NewStruct("Thing",
		Property{Name: "Zeta", Type: String},
		Property{Name: "Alpha", Type: Int},
	)
	got := ty.PropertyNames()
	want := []string{"Alpha", "Zeta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PropertyNames mismatch (-want +got):\n%s", diff)
	}
}

func TestString(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{widget(), "Widget{Id,Name}"},
		{EnumerableOf(widget()), "Enumerable[Widget{Id,Name}]"},
		{DeltaOf(widget()), "Delta[Widget{Id,Name}]"},
		{Int, "int"},
		{nil, "<nil>"},
	}
	for _, tc := range cases {
		if got := tc.ty.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestShellApply(t *testing.T) {
	w := widget()
	if got := ShellEnumerable.Apply(w); got.Shell != ShellEnumerable || got.Elem != w {
		t.Errorf("unexpected enumerable apply result: %v", got)
	}
	if got := ShellNone.Apply(w); got != w {
		t.Error("applying no shell should return the input")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry("api")
	w := widget()
	reg.Register(w)

	if got, ok := reg.Lookup("widget"); !ok || got != w {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := reg.Lookup("missing"); ok {
		t.Error("lookup of unknown name should fail")
	}

	// Re-registering replaces without duplicating.
	w2 := widget()
	reg.Register(w2)
	if got := reg.Types(); len(got) != 1 || got[0] != w2 {
		t.Errorf("expected single replaced entry, got %v", got)
	}
}

func TestLookupIn_Order(t *testing.T) {
	first := NewRegistry("first")
	second := NewRegistry("second")
	a := NewStruct("Widget", Property{Name: "Id", Type: Int})
	b := NewStruct("Widget", Property{Name: "Id", Type: Int})
	first.Register(a)
	second.Register(b)

	got, ok := LookupIn([]*Registry{first, second}, "Widget")
	if !ok || got != a {
		t.Error("first registry should win")
	}
}
