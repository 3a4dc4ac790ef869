package typesubst

// Marker generic wrappers recognized by FromReflect. Handlers declare their
// return and parameter shapes with these; the engine peels them off, decides
// substitution on the inner type, and rebuilds the same stack around the
// result.

// Enumerable is the collection-of-T shell.
type Enumerable[T any] struct {
	Items []T
}

// Value is the single-value wrapper shell (a present-or-absent T).
type Value[T any] struct {
	Item T
	Set  bool
}

// Delta is the partial-update wrapper shell. Unlike the other shells it is
// collapsed rather than rebuilt once a substitution decision has been made.
type Delta[T any] struct {
	Base    T
	Changed map[string]bool
}

// EnumerableOf wraps elem in the enumerable shell.
func EnumerableOf(elem *Type) *Type {
	return &Type{
		Name:  "Enumerable[" + elem.Name + "]",
		Kind:  KindStruct,
		Shell: ShellEnumerable,
		Elem:  elem,
	}
}

// ValueOf wraps elem in the single-value shell.
func ValueOf(elem *Type) *Type {
	return &Type{
		Name:  "Value[" + elem.Name + "]",
		Kind:  KindStruct,
		Shell: ShellValue,
		Elem:  elem,
	}
}

// DeltaOf wraps elem in the partial-update shell.
func DeltaOf(elem *Type) *Type {
	return &Type{
		Name:  "Delta[" + elem.Name + "]",
		Kind:  KindStruct,
		Shell: ShellDelta,
		Elem:  elem,
	}
}

// Apply wraps inner in the given shell constructor.
func (s Shell) Apply(inner *Type) *Type {
	switch s {
	case ShellEnumerable:
		return EnumerableOf(inner)
	case ShellValue:
		return ValueOf(inner)
	case ShellDelta:
		return DeltaOf(inner)
	default:
		return inner
	}
}
