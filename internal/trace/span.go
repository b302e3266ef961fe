package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return globalSeq.Add(1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return globalSpans.Add(1) }

// Span brackets one logical operation.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	fields   []Field
}

// Begin starts a span and emits its begin event. parent is 0 for roots.
// The returned span is never nil.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() {
		return &Span{tracer: Nop}
	}
	ev := &Event{
		Time:     time.Now(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
	}
	if !t.Level().ShouldEmit(ev) {
		return &Span{tracer: Nop}
	}
	ev.SpanID = NextSpanID()
	t.Emit(ev)
	return &Span{
		tracer:   t,
		id:       ev.SpanID,
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  ev.Time,
	}
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
		Fields:   append(s.fields, Field{Key: "dur", Value: dur.String()}),
	})
	return dur
}

// WithField attaches a field to the end event.
func (s *Span) WithField(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	s.fields = append(s.fields, Field{Key: key, Value: value})
	return s
}

// ID returns the span ID, 0 for disabled spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Start begins a span under the tracer and parent span carried by ctx and
// returns a context whose nested spans hang under the new one.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	sp := Begin(st.tracer, scope, name, st.parent)
	if sp.ID() == 0 {
		return ctx, sp
	}
	return WithParentSpan(ctx, sp.ID()), sp
}
