package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event, used for log records.
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope says which layer of the compiler an event comes from.
// Lower values are coarser; levels cut spans off below a scope.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI and BuildAll
	ScopeUnit                    // one source file through the pipeline
	ScopePass                    // sequence, parse, lower, return check, sizes
	ScopeMacro                   // sequencer: defines, expansions, callbacks
)

var scopeNames = map[Scope]string{
	ScopeDriver: "driver",
	ScopeUnit:   "unit",
	ScopePass:   "pass",
	ScopeMacro:  "macro",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Severity of a point event.
type Severity uint8

const (
	SevDebug Severity = iota
	SevInfo
	SevWarn
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevDebug:
		return "debug"
	case SevInfo:
		return "info"
	case SevWarn:
		return "warn"
	case SevError:
		return "error"
	default:
		return "unknown"
	}
}

// Field is an ordered key/value pair attached to an event.
type Field struct {
	Key   string
	Value string
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	Severity Severity // point events only
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "lower", "macro.expand", "src/main.nit"
	Detail   string
	Fields   []Field
}
