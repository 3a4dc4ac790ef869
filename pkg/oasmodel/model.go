// Package oasmodel backs the substitution engine's schema model with
// OpenAPI component schemas. Each model element is a named oas3 schema; the
// element's native runtime type is declared with the x-native-type
// extension and resolved against the caller's registries.
package oasmodel

import (
	"strings"

	"github.com/speakeasy-api/openapi/jsonschema/oas3"

	"github.com/speakeasy-api/typesubst"
	"github.com/speakeasy-api/typesubst/substitute"
)

const (
	// ExtNativeType names the runtime type associated with a component
	// schema. Defaults to the component name when absent.
	ExtNativeType = "x-native-type"

	// ExtAPIVersion overrides the document's info version as the model's
	// API version token.
	ExtAPIVersion = "x-api-version"
)

// Element is one named structural type of a model.
type Element struct {
	name       string
	nativeName string
	schema     *oas3.Schema
}

// Name returns the element's component name.
func (e *Element) Name() string { return e.name }

// NativeName returns the runtime type name the element is associated with.
func (e *Element) NativeName() string { return e.nativeName }

// Schema returns the backing oas3 schema.
func (e *Element) Schema() *oas3.Schema { return e.schema }

// PropertyNames returns the structural property names in declaration order.
func (e *Element) PropertyNames() []string {
	if e.schema == nil || e.schema.Properties == nil {
		return nil
	}
	names := make([]string, 0, e.schema.Properties.Len())
	for name := range e.schema.Properties.All() {
		names = append(names, name)
	}
	return names
}

// Model is a versioned catalog of structural types. Populated once during
// setup and read-only afterwards, so concurrent substitution calls are safe.
type Model struct {
	version  string
	elements []*Element
	byName   map[string]*Element
}

// New creates an empty model carrying the given API version token.
func New(version string) *Model {
	return &Model{
		version: version,
		byName:  make(map[string]*Element),
	}
}

// AddSchema registers a component schema under the given name. The native
// type association is read from the x-native-type extension, falling back
// to the component name itself.
func (m *Model) AddSchema(name string, schema *oas3.Schema) *Element {
	nativeName := name
	if schema != nil && schema.Extensions != nil {
		if node, ok := schema.Extensions.Get(ExtNativeType); ok && node != nil && node.Value != "" {
			nativeName = node.Value
		}
	}
	el := &Element{
		name:       name,
		nativeName: nativeName,
		schema:     schema,
	}
	key := strings.ToLower(name)
	if prev, exists := m.byName[key]; exists {
		for i, existing := range m.elements {
			if existing == prev {
				m.elements[i] = el
				break
			}
		}
	} else {
		m.elements = append(m.elements, el)
	}
	m.byName[key] = el
	return el
}

// Element resolves a registered element by name, case-insensitively.
func (m *Model) Element(name string) (*Element, bool) {
	el, ok := m.byName[strings.ToLower(name)]
	return el, ok
}

// SchemaElements implements substitute.Model.
func (m *Model) SchemaElements() []substitute.SchemaElement {
	out := make([]substitute.SchemaElement, len(m.elements))
	for i, el := range m.elements {
		out[i] = el
	}
	return out
}

// NativeType implements substitute.Model: the element's native name is
// resolved across the registries in order.
func (m *Model) NativeType(el substitute.SchemaElement, assemblies []*typesubst.Registry) *typesubst.Type {
	name := el.Name()
	if own, ok := m.byName[strings.ToLower(name)]; ok {
		name = own.nativeName
	}
	t, _ := typesubst.LookupIn(assemblies, name)
	return t
}

// Version implements substitute.Model.
func (m *Model) Version() string { return m.version }
