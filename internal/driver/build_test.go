package driver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/diag"
	"github.com/Kracken256/nitrate-sub001/internal/ir"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func stagesOf(res *Result) []Stage {
	out := make([]Stage, len(res.Timings))
	for i, t := range res.Timings {
		out[i] = t.Stage
	}
	return out
}

func summary(res *Result) string {
	m := res.Diag()
	if m == nil {
		return "<no module>"
	}
	return diag.FormatShort(m.Items(diag.TicketAll), m.FileSet())
}

func TestBuildPipeline(t *testing.T) {
	reg := ir.NewRegistry(4)
	u := VirtualUnit("add.nit", []byte(`
@(n.define("ANSWER", "42"))
struct P { x: u8, y: u32 }
fn add(a: i32, b: i32): i32 { return a + b; }
fn answer(): i32 { return ANSWER; }
`))
	res, err := Build(context.Background(), u, Options{Registry: reg})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("build failed: %s", summary(res))
	}
	want := []Stage{StageParse, StageLower, StageCheckReturns, StageSizes}
	if got := stagesOf(res); len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	m := res.Module
	if _, ok := m.Functions["answer"]; !ok {
		t.Fatalf("answer not lowered")
	}
	if m.Sizes["P"] != 40 {
		t.Fatalf("size of P = %d", m.Sizes["P"])
	}
	if !m.HasPass(ir.PassSizes) {
		t.Fatalf("size pass not recorded")
	}
	if reg.Len() != 1 {
		t.Fatalf("registry len = %d", reg.Len())
	}
	res.Release()
	res.Release()
	if reg.Len() != 0 {
		t.Fatalf("module not released")
	}
}

func TestBuildStopsAfterSyntaxError(t *testing.T) {
	res, err := Build(context.Background(), VirtualUnit("bad.nit", []byte("fn f( {")), Options{Registry: ir.NewRegistry(1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatalf("expected failure")
	}
	if got := stagesOf(res); len(got) != 1 || got[0] != StageParse {
		t.Fatalf("stages = %v", got)
	}
	if !res.Module.Diag.HasErrors(res.Module.Ticket(TicketParse)) {
		t.Fatalf("no syntax error recorded: %s", summary(res))
	}
	if res.Module.HasPass(ir.PassLower) {
		t.Fatalf("lowering ran after a syntax error")
	}
}

func TestBuildRunsSizesAfterReturnCheckFailure(t *testing.T) {
	res, err := Build(context.Background(), VirtualUnit("ret.nit", []byte("struct P { x: u8 } fn f(): i32 { }")), Options{Registry: ir.NewRegistry(1)})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK {
		t.Fatalf("expected failure")
	}
	if len(res.Timings) != 4 {
		t.Fatalf("stages = %v", stagesOf(res))
	}
	items := res.Module.Diag.Items(res.Module.Ticket(ir.PassCheckReturns))
	if len(items) != 1 || items[0].Code != diag.SemaMissingReturn {
		t.Fatalf("diagnostics: %s", summary(res))
	}
	if res.Module.Sizes["P"] != 8 {
		t.Fatalf("size pass did not run")
	}
}

func TestBuildRecoversPanic(t *testing.T) {
	opts := Options{
		Registry: ir.NewRegistry(2),
		Fetch:    func(string) ([]byte, error) { panic("resolver bug") },
	}
	res, err := Build(context.Background(), VirtualUnit("p.nit", []byte(`@import "lib"`)), opts)
	if !errors.Is(err, ErrUnitPanic) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "resolver bug") {
		t.Fatalf("panic value lost: %v", err)
	}
	if res == nil || res.OK {
		t.Fatalf("result = %+v", res)
	}
	res.Release()
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Build(ctx, VirtualUnit("c.nit", nil), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestBuildAllIsolatesUnits(t *testing.T) {
	units := []*Unit{
		VirtualUnit("a.nit", []byte("fn a(): i32 { return 1; }")),
		VirtualUnit("b.nit", []byte(`@import "boom"`)),
		VirtualUnit("c.nit", []byte("fn c(): u8 { return 2; }")),
	}
	var mu sync.Mutex
	final := make(map[string]Status)
	opts := Options{
		Registry: ir.NewRegistry(8),
		Jobs:     2,
		Fetch:    func(string) ([]byte, error) { panic("boom") },
		Observer: func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			if ev.Status == StatusDone || ev.Status == StatusError {
				final[ev.Unit] = ev.Status
			}
		},
	}
	results, err := BuildAll(context.Background(), units, opts)
	if err != nil {
		t.Fatal(err)
	}
	for i, res := range results {
		if res.Unit != units[i] {
			t.Fatalf("result %d out of order", i)
		}
		defer res.Release()
	}
	if !results[0].OK || !results[2].OK {
		t.Fatalf("healthy units failed: %s | %s", summary(results[0]), summary(results[2]))
	}
	if !errors.Is(results[1].Err, ErrUnitPanic) {
		t.Fatalf("unit b err = %v", results[1].Err)
	}
	if final["a.nit"] != StatusDone || final["b.nit"] != StatusError || final["c.nit"] != StatusDone {
		t.Fatalf("final statuses = %v", final)
	}
}

func TestBuildAllRegistryFull(t *testing.T) {
	units := []*Unit{
		VirtualUnit("a.nit", []byte("fn a() { }")),
		VirtualUnit("b.nit", []byte("fn b() { }")),
	}
	results, err := BuildAll(context.Background(), units, Options{Registry: ir.NewRegistry(1), Jobs: 1})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].Err != nil || !results[0].OK {
		t.Fatalf("first unit: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, ir.ErrRegistryFull) {
		t.Fatalf("second unit err = %v", results[1].Err)
	}
}

func TestTokenizeAndExpand(t *testing.T) {
	u := VirtualUnit("t.nit", []byte(`@(n.define("X", "1 + 2")) let a = X;`))
	raw := Tokenize(u, Options{})
	if raw.Tokens[0].Kind != token.MacroBlock {
		t.Fatalf("first raw token = %v", raw.Tokens[0].Kind)
	}
	exp := Expand(context.Background(), u, Options{})
	if exp.Failed {
		t.Fatalf("expansion failed: %s", diag.FormatShort(exp.Diag.Items(diag.TicketAll), u.FileSet))
	}
	var texts []string
	for _, tok := range exp.Tokens {
		texts = append(texts, tok.Text)
	}
	if got := strings.Join(texts, " "); got != "let a = 1 + 2 ;" {
		t.Fatalf("expanded = %q", got)
	}
}

func TestFormatTimings(t *testing.T) {
	if got := FormatTimings(nil); got != "no stages ran" {
		t.Fatalf("got %q", got)
	}
	got := FormatTimings([]StageTiming{{Stage: StageParse, Elapsed: 1500000}, {Stage: StageLower, Elapsed: 500000}})
	if got != "parse 1.50ms, lower 0.50ms (total 2.00ms)" {
		t.Fatalf("got %q", got)
	}
}
