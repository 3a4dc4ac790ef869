// Package substitute decides, per request, which concrete type descriptor
// should represent a schema-governed entity for the active API version. It
// peels generic shells off a declared type, resolves the inner type against
// the versioned schema model, checks structural equivalence across the
// reachable type graph, and either reuses the declared type or asks a
// synthesizer for a version-specific substitute.
package substitute

import (
	"context"

	"github.com/speakeasy-api/typesubst"
)

// SchemaElement is one versioned structural type drawn from the schema
// model: a name plus the set of structural property names.
type SchemaElement interface {
	Name() string

	// PropertyNames returns the structural property names in declaration
	// order.
	PropertyNames() []string
}

// Model is the versioned schema catalog the engine resolves against. It is
// read-only for the duration of a call and must be safe for concurrent
// reads.
type Model interface {
	SchemaElements() []SchemaElement

	// NativeType resolves the runtime descriptor associated with a schema
	// element, searched across the given registries. Nil means the element
	// has no native association visible from those registries.
	NativeType(el SchemaElement, assemblies []*typesubst.Registry) *typesubst.Type

	// Version returns the model's API version token.
	Version() string
}

// Synthesizer builds a concrete substitute descriptor for a schema element.
// Implementations must be deterministic per (element, inner, version) and
// safe for concurrent use.
type Synthesizer interface {
	BuildStructuredType(ctx context.Context, el SchemaElement, inner *typesubst.Type, version string) *typesubst.Type
}

// Service bundles the collaborators a substitution call runs against.
type Service struct {
	Model       Model
	Assemblies  []*typesubst.Registry
	Synthesizer Synthesizer
}

// Options configures a substitution call.
type Options struct {
	// EnableMemo enables the per-call resolver index. Behavior-preserving:
	// the model is immutable for the lifetime of a call.
	EnableMemo bool

	// MaxPairs bounds how many (element, type) pairs the equivalence
	// worklist may examine before giving up and reporting "not equivalent".
	// Zero means unbounded.
	MaxPairs int

	// Logging configuration.
	LogLevel    string // "error", "warn", "info", "debug" (default: "warn")
	LogMaxProps int    // Max property names to show in logs (default: 5)

	// Logger overrides the default logger. Nil means no output unless
	// LogLevel requests it.
	Logger Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		EnableMemo:  true,
		MaxPairs:    1000,
		LogLevel:    "warn",
		LogMaxProps: 5,
	}
}
