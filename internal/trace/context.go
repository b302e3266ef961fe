package trace

import "context"

// ctxState is what the pipeline carries: the tracer and the span that
// nested Begin calls should hang under.
type ctxState struct {
	tracer Tracer
	parent uint64
}

type ctxKey struct{}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, Nop if there is none.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx and keeps the current parent span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	st := stateOf(ctx)
	st.tracer = t
	return context.WithValue(ctx, ctxKey{}, st)
}

// ParentSpan returns the span id stored by WithParentSpan, or 0.
func ParentSpan(ctx context.Context) uint64 {
	return stateOf(ctx).parent
}

// WithParentSpan makes id the parent of spans begun under ctx.
func WithParentSpan(ctx context.Context, id uint64) context.Context {
	st := stateOf(ctx)
	st.parent = id
	return context.WithValue(ctx, ctxKey{}, st)
}
