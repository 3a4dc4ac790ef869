package substitute

import (
	"github.com/speakeasy-api/typesubst"
)

// ShellStack records the generic shells peeled off a declared type,
// outermost first. Rewrap applies them back in pop order, so rewrapping the
// unchanged core type reconstructs the original declaration exactly.
type ShellStack []typesubst.Shell

// Rewrap rebuilds the recorded shell stack around inner.
func (s ShellStack) Rewrap(inner *typesubst.Type) *typesubst.Type {
	for i := len(s) - 1; i >= 0; i-- {
		inner = s[i].Apply(inner)
	}
	return inner
}

// IsDelta reports whether the declared type was a delta wrapper. Delta
// declarations are collapsed rather than rewrapped.
func (s ShellStack) IsDelta() bool {
	return len(s) > 0 && s[0] == typesubst.ShellDelta
}

// Result is the outcome of a classification: the innermost descriptor, the
// shells that surrounded it, and whether the type is a substitution
// candidate at all. Results are single-use and never mutated.
type Result struct {
	CoreType    *typesubst.Type
	IsSupported bool
	Shells      ShellStack
}

// Classify peels the generic shells off a declared descriptor and decides
// whether the innermost type is a substitution candidate. A nil input and
// ambiguous nested generics both yield an unsupported result.
func Classify(t *typesubst.Type) Result {
	if t == nil {
		return Result{}
	}
	core, shells, ok := peel(t)
	if !ok {
		return Result{}
	}
	supported := core.Kind == typesubst.KindStruct &&
		!core.IsValueType() &&
		!core.IsSentinel()
	return Result{
		CoreType:    core,
		IsSupported: supported,
		Shells:      shells,
	}
}

// peel removes at most one outer shell plus one enumerable shell directly
// beneath it (the value-wrapper-around-a-collection pattern). Any deeper or
// non-enumerable nesting is ambiguous and rejected outright.
func peel(t *typesubst.Type) (*typesubst.Type, ShellStack, bool) {
	if t.Shell == typesubst.ShellNone {
		return t, nil, true
	}
	shells := ShellStack{t.Shell}
	t = t.Elem
	if t != nil && t.Shell == typesubst.ShellEnumerable {
		shells = append(shells, t.Shell)
		t = t.Elem
	}
	if t == nil || t.Shell != typesubst.ShellNone {
		return nil, nil, false
	}
	return t, shells, true
}
