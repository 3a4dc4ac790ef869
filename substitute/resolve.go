package substitute

import (
	"strings"

	"github.com/speakeasy-api/typesubst"
)

// resolver maps runtime descriptors to their schema elements by scanning
// the model's elements for one whose native type matches. The memo index is
// per-call: the model is immutable for the resolver's lifetime, so caching
// never changes the outcome, only the number of scans.
type resolver struct {
	model      Model
	assemblies []*typesubst.Registry
	log        Logger

	memo map[string]SchemaElement // type name → element (nil = known absent)
}

func newResolver(model Model, assemblies []*typesubst.Registry, opts Options, log Logger) *resolver {
	r := &resolver{
		model:      model,
		assemblies: assemblies,
		log:        log,
	}
	if opts.EnableMemo {
		r.memo = make(map[string]SchemaElement, 8)
	}
	return r
}

// resolve returns the first schema element whose native type equals t, or
// nil when t is not schema-governed. Absence is a normal outcome, not an
// error.
func (r *resolver) resolve(t *typesubst.Type) SchemaElement {
	if t == nil {
		return nil
	}
	key := strings.ToLower(t.Name)
	if r.memo != nil {
		if el, ok := r.memo[key]; ok {
			return el
		}
	}

	var found SchemaElement
	for _, el := range r.model.SchemaElements() {
		native := r.model.NativeType(el, r.assemblies)
		if native != nil && native.Equal(t) {
			found = el
			break
		}
	}
	if found != nil {
		r.log.Debugf("resolved %s to schema element %s", t.Name, found.Name())
	}

	if r.memo != nil {
		r.memo[key] = found
	}
	return found
}
