// Package typesubst provides the type universe for versioned-API type
// substitution: explicit runtime type descriptors, the generic shells that
// wrap them, and the registries they are resolved against.
//
// A Type is a plain-data snapshot of a concrete type in the host type
// system. The substitute package operates over these descriptors instead of
// calling into reflection at every decision point.
package typesubst

import (
	"sort"
	"strings"
)

// Kind classifies the basic shape of a descriptor.
type Kind int

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindStruct
	KindInterface
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Shell identifies a single-type-argument generic wrapper.
type Shell int

const (
	ShellNone Shell = iota
	ShellEnumerable
	ShellValue
	ShellDelta
)

func (s Shell) String() string {
	switch s {
	case ShellEnumerable:
		return "Enumerable"
	case ShellValue:
		return "Value"
	case ShellDelta:
		return "Delta"
	default:
		return "none"
	}
}

// Property is one declared public property of a struct descriptor.
type Property struct {
	Name string
	Type *Type
}

// Type is a runtime type descriptor. Descriptors are plain data: built once
// per underlying type and treated as immutable afterwards.
//
// When Shell is not ShellNone the descriptor is a generic shell instance and
// Elem holds its single type argument; Properties is empty in that case.
type Type struct {
	Name       string
	Kind       Kind
	Shell      Shell
	Elem       *Type
	Properties []Property

	// Opaque marks a struct descriptor with value semantics (no public
	// shape to substitute against, e.g. time.Time).
	Opaque bool
}

// Sentinel descriptors that are never substitutable regardless of wrapping.
var (
	// Void marks the absence of a value (a bodyless response).
	Void = &Type{Name: "Void", Kind: KindStruct, Opaque: true}

	// ActionResult is the framework's opaque result envelope.
	ActionResult = &Type{Name: "ActionResult", Kind: KindStruct, Opaque: true}

	// RawResponse is the raw HTTP response message type.
	RawResponse = &Type{Name: "RawResponse", Kind: KindStruct, Opaque: true}
)

// Predeclared primitive descriptors.
var (
	Bool    = &Type{Name: "bool", Kind: KindPrimitive}
	Int     = &Type{Name: "int", Kind: KindPrimitive}
	Int64   = &Type{Name: "int64", Kind: KindPrimitive}
	Float64 = &Type{Name: "float64", Kind: KindPrimitive}
	String  = &Type{Name: "string", Kind: KindPrimitive}
	Time    = &Type{Name: "Time", Kind: KindStruct, Opaque: true}
)

// NewStruct builds a struct descriptor with the given public properties.
func NewStruct(name string, props ...Property) *Type {
	return &Type{
		Name:       name,
		Kind:       KindStruct,
		Properties: props,
	}
}

// IsValueType reports whether the descriptor has value semantics: primitives
// and opaque structs. Value types are never substitution candidates.
func (t *Type) IsValueType() bool {
	if t == nil {
		return false
	}
	return t.Kind == KindPrimitive || (t.Kind == KindStruct && t.Opaque)
}

// IsSentinel reports whether the descriptor is one of the excluded framework
// types. Sentinels are matched by name so that descriptors extracted via
// reflection compare equal to the package-level singletons.
func (t *Type) IsSentinel() bool {
	if t == nil {
		return false
	}
	if t == Void || t == ActionResult || t == RawResponse {
		return true
	}
	return t.Kind == KindStruct &&
		(t.Name == Void.Name || t.Name == ActionResult.Name || t.Name == RawResponse.Name)
}

// Equal reports structural identity of two descriptors. Shell instances
// compare through their element; non-shell descriptors compare by name and
// kind, which is sufficient because names are canonical within a registry.
func (t *Type) Equal(other *Type) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	if t.Kind != other.Kind || t.Shell != other.Shell {
		return false
	}
	if t.Shell != ShellNone {
		return t.Elem.Equal(other.Elem)
	}
	return t.Name == other.Name
}

// PropertyNames returns the declared property names in sorted order.
func (t *Type) PropertyNames() []string {
	if t == nil || len(t.Properties) == 0 {
		return nil
	}
	names := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		names[i] = p.Name
	}
	sort.Strings(names)
	return names
}

// String renders the descriptor for logs, e.g. "Delta[Widget]" or
// "Widget{Id,Name}".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.Shell != ShellNone {
		return t.Shell.String() + "[" + t.Elem.String() + "]"
	}
	if t.Kind == KindStruct && len(t.Properties) > 0 {
		var b strings.Builder
		b.WriteString(t.Name)
		b.WriteByte('{')
		for i, p := range t.Properties {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Name)
		}
		b.WriteByte('}')
		return b.String()
	}
	return t.Name
}
