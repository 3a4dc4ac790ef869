package substitute

import (
	"context"
	"fmt"

	"github.com/speakeasy-api/typesubst"
)

// Substitute resolves the concrete descriptor that should represent the
// declared type under the service's active schema model. It never fails on
// data: unsupported types, absent schema mappings and shape mismatches all
// degrade to a defined result. The returned error reports collaborator
// contract violations only (nil model or synthesizer, or a synthesizer
// producing no type).
//
// Example:
//
//	widget := typesubst.FromReflect(reflect.TypeOf(Widget{}))
//	svc := substitute.Service{Model: model, Assemblies: registries, Synthesizer: syn}
//	resolved, err := substitute.Substitute(context.Background(), widget, svc)
func Substitute(ctx context.Context, declared *typesubst.Type, svc Service, opts ...Options) (*typesubst.Type, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if svc.Model == nil {
		return nil, fmt.Errorf("substitute: schema model must not be nil")
	}
	if svc.Synthesizer == nil {
		return nil, fmt.Errorf("substitute: synthesizer must not be nil")
	}

	e := newEnv(ctx, svc, opt)
	return e.substitute(declared)
}

// env carries the per-call state: collaborators, options, logger and the
// resolver with its memo index. Nothing in it outlives the call.
type env struct {
	ctx      context.Context
	svc      Service
	opts     Options
	log      Logger
	resolver *resolver
}

func newEnv(ctx context.Context, svc Service, opts Options) *env {
	log := opts.Logger
	if log == nil {
		if opts.LogLevel != "" {
			log = NewLogger(ParseLogLevel(opts.LogLevel), nil)
		} else {
			log = noopLogger{}
		}
	}
	e := &env{
		ctx:  ctx,
		svc:  svc,
		opts: opts,
		log:  log,
	}
	e.resolver = newResolver(svc.Model, svc.Assemblies, opts, log)
	return e
}
