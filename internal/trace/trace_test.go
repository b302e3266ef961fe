package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStreamTextSpanAndLog(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)

	sp := Begin(tr, ScopePass, "parse", 0)
	Warn(tr, ScopeMacro, "callback failed", "token", "foo")
	sp.WithField("nodes", "12").End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "\u2192 parse") {
		t.Fatalf("begin line: %q", lines[0])
	}
	if !strings.Contains(lines[1], `warn: callback failed token="foo"`) {
		t.Fatalf("log line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "\u2190 parse (ok) nodes=\"12\" dur=") {
		t.Fatalf("end line: %q", lines[2])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	Begin(tr, ScopeMacro, "expand", 0).End("")
	Info(tr, ScopePass, "ignored")
	Warn(tr, ScopePass, "kept")
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Fatalf("want 1 line, got %d:\n%s", got, buf.String())
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Error(tr, ScopeUnit, "boom", "file", "a.nit")
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if got["sev"] != "error" || got["name"] != "boom" {
		t.Fatalf("event = %v", got)
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, n := range []string{"a", "b", "c", "d"} {
		Info(r, ScopeMacro, n)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "b" || snap[2].Name != "d" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if r.Dropped() != 1 {
		t.Fatalf("dropped = %d", r.Dropped())
	}
}

func TestNopAndContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop")
	}
	r := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer not propagated")
	}
	if Begin(Nop, ScopePass, "x", 0).ID() != 0 {
		t.Fatalf("nop span must have id 0")
	}
	if ParentSpan(WithParentSpan(ctx, 7)) != 7 {
		t.Fatalf("parent span not propagated")
	}
}

func TestNewConfig(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr != Nop {
		t.Fatalf("off level must give Nop: %v %v", tr, err)
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Info(tr, ScopeDriver, "hello")
	m, ok := tr.(*MultiTracer)
	if !ok || m.Ring() == nil || len(m.Ring().Snapshot()) != 1 {
		t.Fatalf("both mode must keep a ring copy")
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("stream output missing: %q", buf.String())
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level                       Level
		pass, macro, info, debugMsg bool
	}{
		{LevelError, false, false, false, false},
		{LevelPhase, true, false, false, false},
		{LevelMacro, true, true, true, false},
		{LevelDebug, true, true, true, true},
	}
	for _, tt := range tests {
		emits := func(ev Event) bool { return tt.level.ShouldEmit(&ev) }
		got := [4]bool{
			emits(Event{Kind: KindSpanBegin, Scope: ScopePass}),
			emits(Event{Kind: KindSpanBegin, Scope: ScopeMacro}),
			emits(Event{Kind: KindPoint, Scope: ScopeMacro, Severity: SevInfo}),
			emits(Event{Kind: KindPoint, Scope: ScopeMacro, Severity: SevDebug}),
		}
		if want := [4]bool{tt.pass, tt.macro, tt.info, tt.debugMsg}; got != want {
			t.Fatalf("%s: got %v, want %v", tt.level, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"off", "error", "phase", "macro", "debug"} {
		l, err := ParseLevel(name)
		if err != nil || l.String() != name {
			t.Fatalf("%s: got %s, %v", name, l, err)
		}
	}
	if l, err := ParseLevel("detail"); err != nil || l != LevelMacro {
		t.Fatalf("detail: got %s, %v", l, err)
	}
	_, err := ParseLevel("loud")
	if err == nil || !strings.Contains(err.Error(), "off|error|phase|macro|debug") {
		t.Fatalf("err = %v", err)
	}
}

func TestStartNestsSpans(t *testing.T) {
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	ctx, build := Start(ctx, ScopeDriver, "build")
	_, unit := Start(ctx, ScopeUnit, "a.nit")
	unit.End("")
	build.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %+v", snap)
	}
	if snap[1].Name != "a.nit" || snap[1].ParentID != build.ID() || build.ID() == 0 {
		t.Fatalf("unit span = %+v, build id %d", snap[1], build.ID())
	}
	if FromContext(ctx) != Tracer(r) {
		t.Fatalf("tracer lost by Start")
	}
}

type failingTracer struct{ nopTracer }

func (failingTracer) Close() error { return errors.New("close failed") }

func TestMultiCloseJoinsErrors(t *testing.T) {
	m := NewMultiTracer(LevelDebug, failingTracer{}, NewRingTracer(2, LevelDebug), failingTracer{})
	err := m.Close()
	if err == nil || strings.Count(err.Error(), "close failed") != 2 {
		t.Fatalf("err = %v", err)
	}
	if m.Flush() != nil {
		t.Fatalf("flush must succeed")
	}
}

func TestStreamClosesOnlyOwnedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	tr, err := New(Config{Level: LevelPhase, OutputPath: path})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "lower", 0).End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || strings.Count(string(data), "lower") != 2 {
		t.Fatalf("trace file = %q, %v", data, err)
	}

	var buf bytes.Buffer
	s := NewStreamTracer(&buf, LevelPhase, FormatText)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
