package typesubst

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
)

const markerPkgPath = "github.com/speakeasy-api/typesubst"

var rawResponseType = reflect.TypeOf(http.Response{})

// reflectCache memoizes descriptors per reflect.Type. Descriptors are
// immutable once published, so a shared cache is safe across goroutines.
var reflectCache = struct {
	mu sync.RWMutex
	m  map[reflect.Type]*Type
}{m: make(map[reflect.Type]*Type, 64)}

// FromReflect extracts a descriptor from a reflect.Type. The mapping:
//
//   - slices and arrays become the enumerable shell around their element
//   - pointers become the single-value shell around their element
//   - Enumerable[T], Value[T] and Delta[T] instantiations are recognized by
//     name and become the corresponding shell
//   - http.Response maps to the RawResponse sentinel, struct{} to Void
//   - structs with no exported fields are opaque values
//
// Extraction is cycle-safe: self-referential structs reuse the in-progress
// descriptor.
func FromReflect(rt reflect.Type) *Type {
	if rt == nil {
		return nil
	}
	reflectCache.mu.RLock()
	if t, ok := reflectCache.m[rt]; ok {
		reflectCache.mu.RUnlock()
		return t
	}
	reflectCache.mu.RUnlock()

	seen := make(map[reflect.Type]*Type)
	t := extract(rt, seen)

	// Publish only after the whole graph is built, so no goroutine can
	// observe a descriptor that is still being filled in. Nested structs
	// are published too, keeping pointers shared across extractions.
	reflectCache.mu.Lock()
	if prev, ok := reflectCache.m[rt]; ok {
		t = prev
	} else {
		reflectCache.m[rt] = t
		for nested, desc := range seen {
			if _, ok := reflectCache.m[nested]; !ok {
				reflectCache.m[nested] = desc
			}
		}
	}
	reflectCache.mu.Unlock()
	return t
}

func extract(rt reflect.Type, seen map[reflect.Type]*Type) *Type {
	if t, ok := seen[rt]; ok {
		return t
	}
	reflectCache.mu.RLock()
	if t, ok := reflectCache.m[rt]; ok {
		reflectCache.mu.RUnlock()
		return t
	}
	reflectCache.mu.RUnlock()

	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return EnumerableOf(extract(rt.Elem(), seen))
	case reflect.Pointer:
		return ValueOf(extract(rt.Elem(), seen))
	case reflect.Interface:
		return &Type{Name: rt.String(), Kind: KindInterface}
	case reflect.Map:
		return &Type{Name: rt.String(), Kind: KindMap}
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Float32, reflect.Float64,
		reflect.String:
		return primitiveFor(rt)
	case reflect.Struct:
		return extractStruct(rt, seen)
	default:
		return &Type{Name: rt.String(), Kind: KindInvalid}
	}
}

func extractStruct(rt reflect.Type, seen map[reflect.Type]*Type) *Type {
	if rt == rawResponseType {
		return RawResponse
	}
	if shell, elem, ok := markerShell(rt); ok {
		return shell.Apply(extract(elem, seen))
	}
	if rt.Name() == "" && rt.NumField() == 0 {
		return Void
	}

	t := &Type{Name: rt.Name(), Kind: KindStruct}
	seen[rt] = t

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if alias, _, _ := strings.Cut(tag, ","); alias != "" && alias != "-" {
				name = alias
			}
		}
		t.Properties = append(t.Properties, Property{
			Name: name,
			Type: extract(f.Type, seen),
		})
	}
	if len(t.Properties) == 0 {
		t.Opaque = true
	}
	return t
}

// markerShell recognizes instantiations of the marker generics by their
// instantiated type name, e.g. "Delta[example.com/pkg.Widget]". The type
// argument is recovered from the carrier field rather than parsed from the
// name.
func markerShell(rt reflect.Type) (Shell, reflect.Type, bool) {
	if rt.PkgPath() != markerPkgPath {
		return ShellNone, nil, false
	}
	base, _, ok := strings.Cut(rt.Name(), "[")
	if !ok {
		return ShellNone, nil, false
	}
	switch base {
	case "Enumerable":
		if f, ok := rt.FieldByName("Items"); ok && f.Type.Kind() == reflect.Slice {
			return ShellEnumerable, f.Type.Elem(), true
		}
	case "Value":
		if f, ok := rt.FieldByName("Item"); ok {
			return ShellValue, f.Type, true
		}
	case "Delta":
		if f, ok := rt.FieldByName("Base"); ok {
			return ShellDelta, f.Type, true
		}
	}
	return ShellNone, nil, false
}

func primitiveFor(rt reflect.Type) *Type {
	switch rt.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int:
		return Int
	case reflect.Int64:
		return Int64
	case reflect.Float64:
		return Float64
	case reflect.String:
		return String
	default:
		return &Type{Name: rt.Kind().String(), Kind: KindPrimitive}
	}
}
