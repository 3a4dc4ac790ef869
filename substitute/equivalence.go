package substitute

import (
	"strings"

	"github.com/speakeasy-api/typesubst"
)

// checkPair is one (schema element, runtime descriptor) pair awaiting an
// equivalence check.
type checkPair struct {
	el SchemaElement
	rt *typesubst.Type
}

// equivalent runs the graph equivalence check between a schema element and
// a runtime descriptor. Pairs reachable through schema-governed properties
// are enqueued FIFO; a single direct-equivalence failure fails the whole
// check. The visited set guarantees each pair is examined at most once, so
// mutually-referential graphs terminate.
func (e *env) equivalent(el SchemaElement, rt *typesubst.Type) bool {
	queue := []checkPair{{el: el, rt: rt}}
	visited := map[string]struct{}{pairKey(el, rt): {}}
	examined := 0

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		examined++
		if e.opts.MaxPairs > 0 && examined > e.opts.MaxPairs {
			e.log.Warnf("equivalence worklist exceeded %d pairs, assuming not equivalent", e.opts.MaxPairs)
			return false
		}

		if !directlyEquivalent(p.el, p.rt) {
			e.log.Debugf("shape mismatch: %s vs %s",
				elementSummary(p.el, e.opts.LogMaxProps), typeSummary(p.rt, e.opts.LogMaxProps))
			return false
		}

		for _, prop := range p.rt.Properties {
			res := Classify(prop.Type)
			if !res.IsSupported {
				continue
			}
			nested := e.resolver.resolve(res.CoreType)
			if nested == nil {
				continue
			}
			key := pairKey(nested, res.CoreType)
			if _, seen := visited[key]; seen {
				continue
			}
			visited[key] = struct{}{}
			queue = append(queue, checkPair{el: nested, rt: res.CoreType})
		}
	}
	return true
}

// directlyEquivalent reports whether every public property of the runtime
// descriptor is declared on the schema element, compared case-insensitively.
// The check is one-directional: extra structural properties on the element
// are satisfied by the version's defaults, but a runtime property unknown to
// the element is a mismatch.
func directlyEquivalent(el SchemaElement, rt *typesubst.Type) bool {
	names := el.PropertyNames()
	declared := make(map[string]struct{}, len(names))
	for _, n := range names {
		declared[strings.ToLower(n)] = struct{}{}
	}
	for _, p := range rt.Properties {
		if _, ok := declared[strings.ToLower(p.Name)]; !ok {
			return false
		}
	}
	return true
}

func pairKey(el SchemaElement, rt *typesubst.Type) string {
	return el.Name() + "\x00" + rt.Name
}
