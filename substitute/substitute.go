package substitute

import (
	"fmt"

	"github.com/speakeasy-api/typesubst"
)

// substitute is the top-level decision procedure: classify, resolve, check
// equivalence, and synthesize plus rewrap on a mismatch.
func (e *env) substitute(declared *typesubst.Type) (*typesubst.Type, error) {
	res := Classify(declared)
	if !res.IsSupported {
		e.log.Debugf("not substitutable: %s", typeSummary(declared, e.opts.LogMaxProps))
		return declared, nil
	}

	el := e.resolver.resolve(res.CoreType)
	if el == nil {
		// Not schema-governed; the declared type stands as-is.
		return declared, nil
	}

	if e.equivalent(el, res.CoreType) {
		if res.Shells.IsDelta() {
			e.log.Debugf("collapsing delta wrapper for %s", res.CoreType.Name)
			return res.CoreType, nil
		}
		return declared, nil
	}

	version := e.svc.Model.Version()
	built := e.svc.Synthesizer.BuildStructuredType(e.ctx, el, res.CoreType, version)
	if built == nil {
		return nil, fmt.Errorf("substitute: synthesizer returned no type for element %s (version %s)", el.Name(), version)
	}
	e.log.Infof("synthesized %s for %s at version %s",
		typeSummary(built, e.opts.LogMaxProps), res.CoreType.Name, version)

	if res.Shells.IsDelta() {
		return built, nil
	}
	return res.Shells.Rewrap(built), nil
}
