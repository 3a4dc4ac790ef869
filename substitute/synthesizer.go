package substitute

import (
	"context"
	"strings"
	"sync"

	"github.com/speakeasy-api/typesubst"
)

// DescriptorSynthesizer builds substitute descriptors directly in the
// descriptor universe. Synthesized types take property types from the
// original inner descriptor where names match and fall back to an open
// interface slot otherwise.
//
// Synthesis is deterministic: the same (element, inner, version) triple
// always returns the same descriptor pointer, backed by a fingerprint-keyed
// cache. Safe for concurrent use.
type DescriptorSynthesizer struct {
	mu    sync.RWMutex
	fp    *Fingerprinter
	built map[string]*typesubst.Type
}

// NewDescriptorSynthesizer creates an empty synthesizer.
func NewDescriptorSynthesizer() *DescriptorSynthesizer {
	return &DescriptorSynthesizer{
		fp:    NewFingerprinter(),
		built: make(map[string]*typesubst.Type, 16),
	}
}

// BuildStructuredType implements Synthesizer.
func (s *DescriptorSynthesizer) BuildStructuredType(ctx context.Context, el SchemaElement, inner *typesubst.Type, version string) *typesubst.Type {
	key := s.fp.Key(el, inner, version)

	s.mu.RLock()
	if t, ok := s.built[key]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	t := synthesize(el, inner)

	s.mu.Lock()
	// Another goroutine may have built the same key in the meantime; keep
	// the first one so pointers stay stable.
	if prev, ok := s.built[key]; ok {
		s.mu.Unlock()
		return prev
	}
	s.built[key] = t
	s.mu.Unlock()
	return t
}

func synthesize(el SchemaElement, inner *typesubst.Type) *typesubst.Type {
	byName := make(map[string]*typesubst.Type, len(inner.Properties))
	for _, p := range inner.Properties {
		byName[strings.ToLower(p.Name)] = p.Type
	}

	t := &typesubst.Type{
		Name: el.Name(),
		Kind: typesubst.KindStruct,
	}
	for _, name := range el.PropertyNames() {
		pt, ok := byName[strings.ToLower(name)]
		if !ok {
			// Declared on the element but absent from the inner type; the
			// version's default semantics decide the value, so the slot
			// stays open.
			pt = &typesubst.Type{Name: "any", Kind: typesubst.KindInterface}
		}
		t.Properties = append(t.Properties, typesubst.Property{Name: name, Type: pt})
	}
	return t
}
