// Package trace is the structured event log of the compiler.
//
// Pipeline stages open spans (Begin/End); components log point events through
// Log. Events go to a Tracer chosen by the driver:
//
//   - Nop: disabled, zero cost
//   - StreamTracer: writes text or NDJSON immediately
//   - RingTracer: keeps the last N events for crash dumps
//   - MultiTracer: fan-out
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer span.End("")
package trace
