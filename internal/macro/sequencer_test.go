package macro

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/env"
	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

type fixture struct {
	seq *Sequencer
	bag *diag.Bag
	env *env.Env
	fs  *source.FileSet
}

func setup(t *testing.T, src string, opts Options) *fixture {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.nit", []byte(src))
	bag := diag.NewBag(100)
	if opts.Env == nil {
		opts.Env = env.New()
	}
	opts.FileSet = fs
	opts.Reporter = diag.BagReporter{Bag: bag}
	s := New(fs.Get(id), opts)
	t.Cleanup(s.Close)
	return &fixture{seq: s, bag: bag, env: opts.Env, fs: fs}
}

func render(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Kind.IsKeyword() || t.Kind.IsOperator() || t.Kind.IsPunct() {
			parts = append(parts, t.Kind.String())
		} else {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

func summary(b *diag.Bag) string {
	var sb strings.Builder
	for _, d := range b.Items() {
		fmt.Fprintf(&sb, "%s %s: %s\n", d.Severity, d.Code.ID(), d.Message)
	}
	return sb.String()
}

func expand(t *testing.T, src string, opts Options) (string, *fixture) {
	t.Helper()
	f := setup(t, src, opts)
	return render(f.seq.Drain()), f
}

func hasCode(b *diag.Bag, code diag.Code) bool {
	for _, d := range b.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func withDepth(n int) config.Conf {
	return config.Default().With(config.FlagMaxDepth, fmt.Sprint(n))
}

func TestExpansion(t *testing.T) {
	cases := []struct {
		name string
		src  string
		defs map[string]string
		want string
	}{
		{name: "plain", src: "let x = 1;", want: "let x = 1 ;"},
		{name: "define", src: "let x = ANSWER;", defs: map[string]string{"ANSWER": "40 + 2"}, want: "let x = 40 + 2 ;"},
		{name: "nested define", src: "A * A", defs: map[string]string{"A": "(B + 1)", "B": "2"}, want: "( 2 + 1 ) * ( 2 + 1 )"},
		{name: "empty define", src: "a NOTHING b", defs: map[string]string{"NOTHING": ""}, want: "a b"},
		{name: "function", src: "@(fn twice(x) { return x * 2 }) let y = @twice(21);", want: "let y = 42 ;"},
		{name: "bare call", src: "@(fn hello() { return \"world\" }) @hello", want: "world"},
		{name: "raw value", src: "@(1 + 2)", want: "3"},
		{name: "float value", src: "@(1 / 4)", want: "0.25"},
		{name: "bool value", src: "@(dofile == nil and io == nil)", want: "true"},
		{name: "define from lua", src: `@(n.define("K", "7")) K`, want: "7"},
		{
			name: "call yields macro",
			src:  `@(fn inner() { return "ok" }) @(fn outer() { return "@inner() + 1" }) @outer()`,
			want: "ok + 1",
		},
		{
			name: "dotted function",
			src:  `@(util = { id = function(v) return v end }) @util.id("x")`,
			want: "x",
		},
		{
			name: "emit and next",
			src:  `@(fn swap() { local a = n.next(); local b = n.next(); n.emit(b.value); n.emit(a.value) }) @swap() x y z`,
			want: "y x z",
		},
		{
			name: "peek does not consume",
			src:  `@(fn look() { return n.peek().value .. "_seen" }) @look() next`,
			want: "next_seen next",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := env.New()
			for k, v := range tc.defs {
				e.Define(k, v)
			}
			got, f := expand(t, tc.src, Options{Env: e})
			if f.seq.Failed() {
				t.Fatalf("failed: %v\n%s", f.seq.Err(), summary(f.bag))
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q\n%s", got, tc.want, summary(f.bag))
			}
		})
	}
}

func TestExpandedTokensKeepOriginSpan(t *testing.T) {
	e := env.New()
	e.Define("PAIR", "1 , 2")
	f := setup(t, "f(PAIR)", Options{Env: e})
	toks := f.seq.Drain()
	if len(toks) != 6 {
		t.Fatalf("tokens: %s", render(toks))
	}
	origin := source.Span{File: toks[0].Span.File, Start: 2, End: 6}
	for _, tok := range toks[2:5] {
		if tok.Span != origin {
			t.Fatalf("%q span %v, want %v", tok.Text, tok.Span, origin)
		}
	}
}

func TestSelfRecursiveDefineStops(t *testing.T) {
	e := env.New()
	e.Define("loop", "loop")
	got, f := expand(t, "a loop b", Options{Env: e, Conf: withDepth(50)})
	if got != "a" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(f.seq.Err(), ErrRecursionExceeded) {
		t.Fatalf("err = %v", f.seq.Err())
	}
	if !hasCode(f.bag, diag.MacRecursionExceeded) {
		t.Fatalf("missing recursion diagnostic:\n%s", summary(f.bag))
	}
	if f.seq.Next().Kind != token.EOF {
		t.Fatalf("sequencer must stay at EOF after failure")
	}
}

func TestSelfRecursiveDefineDefaultBound(t *testing.T) {
	got, f := expand(t, `@(n.define("loop", "x loop")) loop`, Options{})
	if got != "" {
		t.Fatalf("got %q", got)
	}
	if !errors.Is(f.seq.Err(), ErrRecursionExceeded) {
		t.Fatalf("err = %v", f.seq.Err())
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Severity != diag.SevFatal {
		t.Fatalf("diagnostics:\n%s", summary(f.bag))
	}
	if !strings.Contains(items[0].Message, "10000") {
		t.Fatalf("message = %q", items[0].Message)
	}
}

func TestSelfRecursiveFunctionStops(t *testing.T) {
	_, f := expand(t, `@(fn f() { return "@f()" }) @f()`, Options{Conf: withDepth(20)})
	if !errors.Is(f.seq.Err(), ErrRecursionExceeded) {
		t.Fatalf("err = %v", f.seq.Err())
	}
}

func TestDeferredCallbacks(t *testing.T) {
	cases := []struct {
		name      string
		src       string
		want      string
		callbacks int
	}{
		{
			name: "skip",
			src: `@(n.defer(function(t) if t.value == "secret" then return n.SKIP end return n.EMIT end))
				a secret b`,
			want:      "a b",
			callbacks: 1,
		},
		{
			name: "uninstall after two",
			src: `@(local seen = 0
				n.defer(function(t)
					seen = seen + 1
					if seen > 2 then return n.UNINSTALL end
					return n.SKIP
				end))
				a b c d`,
			want:      "c d",
			callbacks: 0,
		},
		{
			name: "any emit vote wins",
			src: `@(n.defer(function(t) return "emit" end))
				@(n.defer(function(t) return "skip" end))
				x y`,
			want:      "x y",
			callbacks: 2,
		},
		{
			name:      "nil result emits",
			src:       `@(n.defer(function(t) end)) x`,
			want:      "x",
			callbacks: 1,
		},
		{
			name: "emit from callback",
			src: `@(n.defer(function(t) if t.value == "a" then n.emit("inserted") end end))
				a b`,
			want:      "a inserted b",
			callbacks: 1,
		},
		{
			name: "callbacks see expanded tokens",
			src: `@(n.define("HIDE", "h1 h2"))
				@(n.defer(function(t) if t.value:sub(1, 1) == "h" then return n.SKIP end return n.EMIT end))
				x HIDE y`,
			want:      "x y",
			callbacks: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, f := expand(t, tc.src, Options{})
			if f.seq.Failed() {
				t.Fatalf("failed: %v", f.seq.Err())
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
			if n := f.seq.Core().Callbacks(); n != tc.callbacks {
				t.Fatalf("callbacks = %d, want %d", n, tc.callbacks)
			}
		})
	}
}

func TestCallbackOrderNewestFirst(t *testing.T) {
	src := `@(n.defer(function(t) n.set("order", (n.get("order") or "") .. "1") end))
		@(n.defer(function(t) n.set("order", (n.get("order") or "") .. "2") end))
		tok`
	_, f := expand(t, src, Options{})
	if v, _ := f.env.Get("order"); v != "21" {
		t.Fatalf("order = %q", v)
	}
}

func TestCallbackErrorFailsOpen(t *testing.T) {
	got, f := expand(t, `@(n.defer(function(t) error("boom") end)) a b`, Options{})
	if got != "a b" || f.seq.Failed() {
		t.Fatalf("got %q failed=%v", got, f.seq.Failed())
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.MacCallbackFailed || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics:\n%s", summary(f.bag))
	}
}

func TestFailures(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
		code diag.Code
		want string
	}{
		{name: "undefined", src: "a @nope() b", err: ErrScript, code: diag.MacUndefinedFunction, want: "a"},
		{name: "runtime error", src: `a @(error("bad")) b`, err: ErrScript, code: diag.MacScriptError, want: "a"},
		{name: "syntax error", src: `@(local = )`, err: ErrScript, code: diag.MacScriptError},
		{name: "bad definition", src: `@(fn broken(x) return x)`, err: ErrScript, code: diag.MacBadDefinition},
		{name: "table result", src: `@({1, 2})`, err: ErrScript, code: diag.MacScriptError},
		{name: "abort", src: `a @(n.abort("stop here")) b`, err: ErrAborted, code: diag.MacAborted, want: "a"},
		{name: "import without resolver", src: `@import "lib"`, err: ErrImport, code: diag.MacImportFailed},
		{name: "import needs string", src: `@import lib`, err: ErrImport, code: diag.MacImportFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, f := expand(t, tc.src, Options{})
			if !errors.Is(f.seq.Err(), tc.err) {
				t.Fatalf("err = %v, want %v", f.seq.Err(), tc.err)
			}
			if !hasCode(f.bag, tc.code) {
				t.Fatalf("missing %s:\n%s", tc.code.ID(), summary(f.bag))
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestImport(t *testing.T) {
	modules := map[string]string{
		"lib":  "let z = 3;",
		"defs": `@(n.define("ONE", "1"))`,
	}
	fetch := func(name string) ([]byte, error) {
		if src, ok := modules[name]; ok {
			return []byte(src), nil
		}
		return nil, fmt.Errorf("module %q not found", name)
	}

	got, f := expand(t, `@import "lib" z @(import("defs")) ONE`, Options{Fetch: fetch})
	if f.seq.Failed() || got != "let z = 3 ; z 1" {
		t.Fatalf("got %q (%v)", got, f.seq.Err())
	}

	f = setup(t, `@import "missing" x`, Options{})
	f.seq.SetFetchModule(fetch)
	if toks := f.seq.Drain(); len(toks) != 0 || !errors.Is(f.seq.Err(), ErrImport) {
		t.Fatalf("tokens %s, err %v", render(toks), f.seq.Err())
	}
}

func TestFlagsVisibleToLua(t *testing.T) {
	e := env.New()
	e.SetFlag("mode", "fast")
	got, _ := expand(t, `@(n.get("flag.mode")) @(n.get("flag.none") == nil)`, Options{Env: e})
	if got != "fast true" {
		t.Fatalf("got %q", got)
	}
}

func TestSetWritesEnvironment(t *testing.T) {
	_, f := expand(t, `@(n.set("k", 5)) @(n.set("gone", "x")) @(n.set("gone", nil))`, Options{})
	if v, ok := f.env.Get("k"); !ok || v != "5" {
		t.Fatalf("k = %q %v", v, ok)
	}
	if _, ok := f.env.Get("gone"); ok {
		t.Fatalf("gone still set")
	}
}

func TestUserWarning(t *testing.T) {
	got, f := expand(t, `x @(n.warn("careful")) y`, Options{})
	if got != "x y" || f.seq.Failed() {
		t.Fatalf("got %q", got)
	}
	items := f.bag.Items()
	if len(items) != 1 || items[0].Code != diag.MacUser || items[0].Message != "careful" {
		t.Fatalf("diagnostics:\n%s", summary(f.bag))
	}
}

func TestPeekThenNext(t *testing.T) {
	e := env.New()
	e.Define("X", "expanded")
	f := setup(t, "X tail", Options{Env: e})
	if p := f.seq.Peek(); p.Text != "expanded" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := f.seq.Next(); n.Text != "expanded" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := f.seq.Next(); n.Text != "tail" {
		t.Fatalf("next = %q", n.Text)
	}
	if f.seq.Next().Kind != token.EOF {
		t.Fatalf("want EOF")
	}
}

func TestRewriteFunction(t *testing.T) {
	name, src, err := rewriteFunction("fn add(a, b) { return a + b }")
	if err != nil {
		t.Fatal(err)
	}
	if name != "add" || src != "function add(a, b)\n return a + b \nend" {
		t.Fatalf("got %q %q", name, src)
	}
	for _, bad := range []string{"fn (x) {}", "fn f {}", "fn f(x { }", "fn f(x) return x"} {
		if _, _, err := rewriteFunction(bad); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
}
