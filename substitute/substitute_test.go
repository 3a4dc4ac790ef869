package substitute

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/speakeasy-api/typesubst"
)

// fakeElement and fakeModel implement the collaborator contracts in-memory.

type fakeElement struct {
	name  string
	props []string
}

func (f *fakeElement) Name() string { return f.name }

func (f *fakeElement) PropertyNames() []string { return f.props }

type fakeModel struct {
	version  string
	elements []SchemaElement
	native   map[string]*typesubst.Type

	// scans counts NativeType calls, for memo tests.
	scans int
}

func newFakeModel(version string) *fakeModel {
	return &fakeModel{
		version: version,
		native:  make(map[string]*typesubst.Type),
	}
}

func (m *fakeModel) add(name string, native *typesubst.Type, props ...string) *fakeElement {
	el := &fakeElement{name: name, props: props}
	m.elements = append(m.elements, el)
	m.native[name] = native
	return el
}

func (m *fakeModel) SchemaElements() []SchemaElement { return m.elements }

func (m *fakeModel) NativeType(el SchemaElement, _ []*typesubst.Registry) *typesubst.Type {
	m.scans++
	return m.native[el.Name()]
}

func (m *fakeModel) Version() string { return m.version }

func testWidget() *typesubst.Type {
	return typesubst.NewStruct("Widget",
		typesubst.Property{Name: "Id", Type: typesubst.Int},
		typesubst.Property{Name: "Name", Type: typesubst.String},
	)
}

func testService(m Model) Service {
	return Service{
		Model:       m,
		Synthesizer: NewDescriptorSynthesizer(),
	}
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = noopLogger{}
	return opts
}

func TestSubstitute_NoSchemaMatch_ReturnsInput(t *testing.T) {
	model := newFakeModel("v1")
	widget := testWidget()

	got, err := Substitute(context.Background(), widget, testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got != widget {
		t.Errorf("expected the declared type back unchanged, got %v", got)
	}
}

func TestSubstitute_EquivalentSuperset_ReturnsInput(t *testing.T) {
	widget := testWidget()
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id", "Name", "Color")

	got, err := Substitute(context.Background(), widget, testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got != widget {
		t.Errorf("superset element is equivalent; expected the declared type back, got %v", got)
	}
}

func TestSubstitute_NotEquivalent_Synthesizes(t *testing.T) {
	widget := typesubst.NewStruct("Widget",
		typesubst.Property{Name: "Id", Type: typesubst.Int},
		typesubst.Property{Name: "Name", Type: typesubst.String},
		typesubst.Property{Name: "SecretCost", Type: typesubst.Float64},
	)
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id", "Name")

	got, err := Substitute(context.Background(), widget, testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got == widget {
		t.Fatal("expected a synthesized substitute, got the declared type")
	}
	if got.Name != "WidgetV2" || got.Kind != typesubst.KindStruct {
		t.Fatalf("unexpected substitute: %v", got)
	}

	names := make([]string, 0, len(got.Properties))
	for _, p := range got.Properties {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"Id", "Name"}, names); diff != "" {
		t.Errorf("substitute property mismatch (-want +got):\n%s", diff)
	}
	// Property types carry over from the declared type where names match.
	if got.Properties[0].Type != typesubst.Int {
		t.Errorf("Id should keep its declared type, got %v", got.Properties[0].Type)
	}
}

func TestSubstitute_RewrapsShells(t *testing.T) {
	widget := typesubst.NewStruct("Widget",
		typesubst.Property{Name: "Id", Type: typesubst.Int},
		typesubst.Property{Name: "SecretCost", Type: typesubst.Float64},
	)
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id")

	declared := typesubst.ValueOf(typesubst.EnumerableOf(widget))
	got, err := Substitute(context.Background(), declared, testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}

	if got.Shell != typesubst.ShellValue {
		t.Fatalf("outer shell lost: %v", got)
	}
	if got.Elem.Shell != typesubst.ShellEnumerable {
		t.Fatalf("inner shell lost: %v", got)
	}
	if got.Elem.Elem.Name != "WidgetV2" {
		t.Errorf("core should be the substitute, got %v", got.Elem.Elem)
	}
}

func TestSubstitute_DeltaCollapsesOnMatch(t *testing.T) {
	widget := testWidget()
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id", "Name")

	got, err := Substitute(context.Background(), typesubst.DeltaOf(widget), testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got != widget {
		t.Errorf("delta wrapper should collapse to the inner type, got %v", got)
	}
}

func TestSubstitute_DeltaSynthesisSkipsRewrap(t *testing.T) {
	widget := typesubst.NewStruct("Widget",
		typesubst.Property{Name: "Id", Type: typesubst.Int},
		typesubst.Property{Name: "SecretCost", Type: typesubst.Float64},
	)
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id")

	got, err := Substitute(context.Background(), typesubst.DeltaOf(widget), testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got.Shell != typesubst.ShellNone {
		t.Fatalf("delta synthesis must not rewrap, got %v", got)
	}
	if got.Name != "WidgetV2" {
		t.Errorf("expected the substitute, got %v", got)
	}
}

func TestSubstitute_SentinelsNeverSubstituted(t *testing.T) {
	model := newFakeModel("v1")
	model.add("Void", typesubst.Void)

	for _, declared := range []*typesubst.Type{
		typesubst.Void,
		typesubst.ActionResult,
		typesubst.RawResponse,
		typesubst.EnumerableOf(typesubst.RawResponse),
		typesubst.ValueOf(typesubst.Void),
	} {
		got, err := Substitute(context.Background(), declared, testService(model), quietOptions())
		if err != nil {
			t.Fatalf("Substitute(%v) failed: %v", declared, err)
		}
		if got != declared {
			t.Errorf("Substitute(%v) = %v, want the input back", declared, got)
		}
	}
}

func TestSubstitute_NilType(t *testing.T) {
	model := newFakeModel("v1")
	got, err := Substitute(context.Background(), nil, testService(model), quietOptions())
	if err != nil {
		t.Fatalf("Substitute failed: %v", err)
	}
	if got != nil {
		t.Errorf("nil input should yield nil output, got %v", got)
	}
}

func TestSubstitute_MissingCollaborators(t *testing.T) {
	widget := testWidget()

	if _, err := Substitute(context.Background(), widget, Service{Synthesizer: NewDescriptorSynthesizer()}); err == nil {
		t.Error("nil model should be a precondition violation")
	}
	if _, err := Substitute(context.Background(), widget, Service{Model: newFakeModel("v1")}); err == nil {
		t.Error("nil synthesizer should be a precondition violation")
	}
}

type nilSynthesizer struct{}

func (nilSynthesizer) BuildStructuredType(context.Context, SchemaElement, *typesubst.Type, string) *typesubst.Type {
	return nil
}

func TestSubstitute_SynthesizerContractViolation(t *testing.T) {
	widget := typesubst.NewStruct("Widget",
		typesubst.Property{Name: "Id", Type: typesubst.Int},
		typesubst.Property{Name: "Extra", Type: typesubst.Int},
	)
	model := newFakeModel("v2")
	model.add("WidgetV2", widget, "Id")

	svc := Service{Model: model, Synthesizer: nilSynthesizer{}}
	if _, err := Substitute(context.Background(), widget, svc, quietOptions()); err == nil {
		t.Error("a synthesizer returning nil should surface as an error")
	}
}
