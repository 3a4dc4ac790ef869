package substitute

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/speakeasy-api/typesubst"
)

// Fingerprinter provides descriptor canonicalization and hashing with
// caching. Synthesis keys are derived from fingerprints so that a
// synthesizer can be deterministic per (element, inner type, version).
type Fingerprinter struct {
	mu       sync.RWMutex
	cache    map[*typesubst.Type]string // descriptor pointer → fingerprint hex
	maxDepth int                        // Guardrail for pathological graphs
}

// NewFingerprinter creates a new fingerprinter.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{
		cache:    make(map[*typesubst.Type]string, 64),
		maxDepth: 1000,
	}
}

// FingerprintType returns a deterministic hex fingerprint for a descriptor.
// Uses persistent caching for performance.
func (fp *Fingerprinter) FingerprintType(t *typesubst.Type) string {
	if t == nil {
		return "none"
	}

	fp.mu.RLock()
	if sum, ok := fp.cache[t]; ok {
		fp.mu.RUnlock()
		return sum
	}
	fp.mu.RUnlock()

	var b strings.Builder
	canonicalizeType(&b, t, make(map[*typesubst.Type]bool), fp.maxDepth)
	sum := sha256.Sum256([]byte(b.String()))
	hex := fmt.Sprintf("%x", sum[:])

	fp.mu.Lock()
	fp.cache[t] = hex
	fp.mu.Unlock()
	return hex
}

// Key returns the synthesis key for an (element, inner type, version)
// triple. Identical triples always yield the same key.
func (fp *Fingerprinter) Key(el SchemaElement, inner *typesubst.Type, version string) string {
	names := append([]string(nil), el.PropertyNames()...)
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("el:")
	b.WriteString(el.Name())
	b.WriteString(";props:")
	b.WriteString(strings.Join(names, ","))
	b.WriteString(";inner:")
	b.WriteString(fp.FingerprintType(inner))
	b.WriteString(";v:")
	b.WriteString(version)

	sum := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", sum[:])
}

// canonicalizeType writes a canonical textual form of a descriptor.
// Self-referential descriptors emit a back-reference instead of recursing;
// depth is capped for pathological graphs.
func canonicalizeType(b *strings.Builder, t *typesubst.Type, inProgress map[*typesubst.Type]bool, depth int) {
	if t == nil {
		b.WriteString("none")
		return
	}
	if depth <= 0 {
		b.WriteString("...")
		return
	}
	if inProgress[t] {
		b.WriteString("ref:")
		b.WriteString(t.Name)
		return
	}

	switch {
	case t.Shell != typesubst.ShellNone:
		b.WriteString("shell:")
		b.WriteString(t.Shell.String())
		b.WriteByte('(')
		canonicalizeType(b, t.Elem, inProgress, depth-1)
		b.WriteByte(')')
	case t.Kind == typesubst.KindStruct:
		inProgress[t] = true
		b.WriteString("struct:")
		b.WriteString(t.Name)
		b.WriteByte('{')
		props := append([]typesubst.Property(nil), t.Properties...)
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
		for i, p := range props {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(p.Name)
			b.WriteByte(':')
			canonicalizeType(b, p.Type, inProgress, depth-1)
		}
		b.WriteByte('}')
		delete(inProgress, t)
	default:
		b.WriteString(t.Kind.String())
		b.WriteByte(':')
		b.WriteString(t.Name)
	}
}
