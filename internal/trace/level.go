package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff   Level = iota // no tracing
	LevelError              // failures only
	LevelPhase              // build, unit and pass spans; warnings
	LevelMacro              // plus macro expansion, callbacks and n.* output
	LevelDebug              // plus debug points
)

// levelRule is what a level lets through: spans up to maxScope and points
// at or above minSev. LevelError passes no spans.
type levelRule struct {
	name     string
	maxScope Scope
	minSev   Severity
}

var levelRules = [...]levelRule{
	LevelOff:   {name: "off"},
	LevelError: {name: "error", minSev: SevError},
	LevelPhase: {name: "phase", maxScope: ScopePass, minSev: SevWarn},
	LevelMacro: {name: "macro", maxScope: ScopeMacro, minSev: SevInfo},
	LevelDebug: {name: "debug", maxScope: ScopeMacro, minSev: SevDebug},
}

func (l Level) String() string {
	if int(l) < len(levelRules) {
		return levelRules[l].name
	}
	return "unknown"
}

// LevelNames lists the accepted --trace-level values.
func LevelNames() string {
	names := make([]string, len(levelRules))
	for i, r := range levelRules {
		names[i] = r.name
	}
	return strings.Join(names, "|")
}

// ParseLevel converts a string to a Level. "detail" is kept as an alias of "macro".
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "detail" {
		return LevelMacro, nil
	}
	for i, r := range levelRules {
		if r.name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, LevelNames())
}

// ShouldEmit reports whether ev passes this level.
func (l Level) ShouldEmit(ev *Event) bool {
	if l == LevelOff || int(l) >= len(levelRules) {
		return false
	}
	r := levelRules[l]
	if ev.Kind == KindPoint {
		return ev.Severity >= r.minSev
	}
	return ev.Scope != 0 && ev.Scope <= r.maxScope
}
