package trace

import "time"

// Log emits a point event. kv is read as key, value pairs; a trailing odd key gets an empty value.
func Log(t Tracer, scope Scope, sev Severity, msg string, kv ...string) {
	if t == nil || !t.Enabled() {
		return
	}
	ev := &Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		Severity: sev,
		Name:     msg,
	}
	if !t.Level().ShouldEmit(ev) {
		return
	}
	for i := 0; i < len(kv); i += 2 {
		f := Field{Key: kv[i]}
		if i+1 < len(kv) {
			f.Value = kv[i+1]
		}
		ev.Fields = append(ev.Fields, f)
	}
	t.Emit(ev)
}

// Debugf-style helpers keep call sites short.

func Debug(t Tracer, scope Scope, msg string, kv ...string) { Log(t, scope, SevDebug, msg, kv...) }
func Info(t Tracer, scope Scope, msg string, kv ...string)  { Log(t, scope, SevInfo, msg, kv...) }
func Warn(t Tracer, scope Scope, msg string, kv ...string)  { Log(t, scope, SevWarn, msg, kv...) }
func Error(t Tracer, scope Scope, msg string, kv ...string) { Log(t, scope, SevError, msg, kv...) }
