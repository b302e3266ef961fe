package ir

import (
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/config"
	"github.com/Kracken256/nitrate-sub001/internal/diag"
)

func TestCheckReturns(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ok   bool
		want []diag.Code
	}{
		{"float local from i32", "fn f(): i32 { let x: f64 = 1.5; return x; }", false, []diag.Code{diag.SemaReturnTypeMismatch}},
		{"no return", "fn f(): i32 { let x = 1; }", false, []diag.Code{diag.SemaMissingReturn}},
		{"declaration only", "fn f(): i32;", true, nil},
		{"int literal", "fn f(): i32 { return 1; }", true, nil},
		{"int literal into u64", "fn f(): u64 { return 1; }", true, nil},
		{"int literal into f64", "fn f(): f64 { return 1; }", false, []diag.Code{diag.SemaReturnTypeMismatch}},
		{"float literal into f32", "fn f(): f32 { return 2.5; }", true, nil},
		{"void function", "fn f() { let x = 1; }", true, nil},
		{"void early return", "fn f() { return; }", true, nil},
		{"bare return", "fn f(): i32 { return; }", false, []diag.Code{diag.SemaReturnTypeMismatch}},
		{"enum constant", "enum E { A, B } fn f(): i32 { return E.B; }", true, nil},
		{"parameter", "fn f(a: u16): u16 { return a; }", true, nil},
		{"no widening", "fn f(a: u16): u32 { return a; }", false, []diag.Code{diag.SemaReturnTypeMismatch}},
		{"comparison is bool", "fn f(a: i32): bool { return a < 3; }", true, nil},
		{"call result", "fn g(): i8 { return 1; } fn f(): i8 { return g(); }", true, nil},
		{"nested return", "fn f(a: i32): i32 { if a { return 1; } return 2; }", true, nil},
		{"struct field", "struct P { x: u8 } fn f(p: P): u8 { return p.x; }", true, nil},
		{"undefined value", "fn f(): i32 { return undef; }", false, []diag.Code{diag.SemaTypeInference}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustLower(t, tt.src)
			if ok := CheckReturns(m); ok != tt.ok {
				t.Fatalf("ok = %v, want %v (%s)", ok, tt.ok, diagnosticsSummary(m, PassCheckReturns))
			}
			if got := passCodes(m, PassCheckReturns); !sameCodes(got, tt.want) {
				t.Fatalf("codes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckReturnsRunsOnce(t *testing.T) {
	m := mustLower(t, "fn f(): i32 { }")
	if CheckReturns(m) || CheckReturns(m) {
		t.Fatalf("expected failure")
	}
	if n := m.Diag.Count(m.Ticket(PassCheckReturns)); n != 1 {
		t.Fatalf("diagnostics = %d, want 1", n)
	}
}

func TestCheckReturnsFastError(t *testing.T) {
	conf := config.Default().With(config.FlagFastError, "true")
	m, ok := lowerSource(t, "fn f(): i32 { } fn g(): i32 { }", conf)
	if !ok {
		t.Fatalf("lowering failed: %s", diagnosticsSummary(m, PassLower))
	}
	if CheckReturns(m) {
		t.Fatalf("expected failure")
	}
	want := []diag.Code{diag.SemaMissingReturn, diag.SemaFastErrorAbort}
	if got := passCodes(m, PassCheckReturns); !sameCodes(got, want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
}

const sizesSource = `
struct P { x: u8, y: u32 }
union U { a: u8, b: u32 }
type A = [u16; 5];
struct F { cb: fn(i32): void, p: *u8 }
`

func TestComputeSizes(t *testing.T) {
	tests := []struct {
		ptr  string
		want map[string]uint64
	}{
		{"8", map[string]uint64{"P": 40, "U": 32, "A": 80, "F": 128}},
		{"4", map[string]uint64{"P": 40, "U": 32, "A": 80, "F": 64}},
	}
	for _, tt := range tests {
		conf := config.Default().With(config.FlagPtrSize, tt.ptr)
		m, ok := lowerSource(t, sizesSource, conf)
		if !ok {
			t.Fatalf("lowering failed: %s", diagnosticsSummary(m, PassLower))
		}
		if !ComputeSizes(m) {
			t.Fatalf("ComputeSizes failed")
		}
		for name, want := range tt.want {
			if got := m.Sizes[name]; got != want {
				t.Fatalf("ptr %s: size of %s = %d, want %d", tt.ptr, name, got, want)
			}
		}
		if n := m.Diag.Count(m.Ticket(PassSizes)); n != 0 {
			t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(m, PassSizes))
		}
	}
}

func TestComputeSizesOverflow(t *testing.T) {
	m := mustLower(t, `
type A = [u64; 288230376151711744];
struct S { a: [u8; 1152921504606846976], b: [u8; 1152921504606846976] }
type Fits = [u8; 1152921504606846976];
`)
	if !ComputeSizes(m) {
		t.Fatalf("oversized types must not fail the pass")
	}
	for _, name := range []string{"A", "S"} {
		if sz, ok := m.Sizes[name]; ok {
			t.Fatalf("size of %s = %d, want unknown", name, sz)
		}
	}
	if got := m.Sizes["Fits"]; got != 1<<63 {
		t.Fatalf("size of Fits = %d", got)
	}
	items := m.Diag.Items(m.Ticket(PassSizes))
	if len(items) != 2 || items[0].Code != diag.SemaUnknownSize || items[1].Code != diag.SemaUnknownSize {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(m, PassSizes))
	}
}

func TestComputeSizesUnknown(t *testing.T) {
	m := mustLower(t, "struct Node { next: *Node, v: [i32; 2] } type V = void;")
	m.TypeDefs["Handle"] = m.Types.Add(MakeOpaque("Handle"))
	if !ComputeSizes(m) {
		t.Fatalf("unknown sizes must not fail the pass")
	}
	if got := m.Sizes["Node"]; got != 128 {
		t.Fatalf("size of Node = %d", got)
	}
	if _, ok := m.Sizes["Handle"]; ok {
		t.Fatalf("opaque type has a size")
	}
	items := m.Diag.Items(m.Ticket(PassSizes))
	if len(items) != 1 || items[0].Code != diag.SemaUnknownSize || items[0].Severity != diag.SevInfo {
		t.Fatalf("diagnostics = %s", diagnosticsSummary(m, PassSizes))
	}
}

func TestInferListTypeIsReused(t *testing.T) {
	m := mustLower(t, "fn f(): i32 { let xs = [1, 2, 3]; return 0; }")
	list := NoNodeID
	for i := 1; i <= m.NodeCount(); i++ {
		if n := m.Node(NodeID(i)); n != nil && n.Kind == NodeList {
			list = NodeID(i)
		}
	}
	if list == NoNodeID {
		t.Fatalf("no list node lowered")
	}
	first, ok := InferType(m, list)
	if !ok {
		t.Fatalf("list type not inferred")
	}
	before := m.Types.Len()
	for j := 0; j < 5; j++ {
		if id, _ := InferType(m, list); id != first {
			t.Fatalf("type id = %d, want %d", id, first)
		}
	}
	if got := m.Types.Len(); got != before {
		t.Fatalf("type table grew from %d to %d", before, got)
	}
	if got := m.Types.Format(first); got != "[i32; 3]" {
		t.Fatalf("list type = %s", got)
	}
}
