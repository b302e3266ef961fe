package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Kracken256/nitrate-sub001/internal/source"
	"github.com/Kracken256/nitrate-sub001/internal/token"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLowerCommand(t *testing.T) {
	path := writeSource(t, "one.nit", "fn one(): i32 { return 1; }")
	out, errOut, err := runCLI(t, "lower", "--format", "pretty", path)
	if err != nil {
		t.Fatalf("lower: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "fn one(): i32 {\n  ret 1\n}") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}

func TestLowerCommandReportsDiagnostics(t *testing.T) {
	path := writeSource(t, "bad.nit", "fn f(): i32 { }")
	_, errOut, err := runCLI(t, "lower", "--format", "json", path)
	if err == nil {
		t.Fatalf("expected failure")
	}
	if !strings.Contains(errOut, "bad.nit") {
		t.Fatalf("diagnostics lack the file name:\n%s", errOut)
	}
}

func TestTokenizeCommandJSON(t *testing.T) {
	path := writeSource(t, "t.nit", "let x = 1;")
	out, _, err := runCLI(t, "tokenize", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	want := `[[1,"let",1,1,1,4],[4,"x",1,5,1,6],[2,"=",1,7,1,8],[5,"1",1,9,1,10],[3,";",1,10,1,11]]` + "\n"
	if out != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	for name, src := range map[string]string{
		"a.nit":   "fn a(): i32 { return 1; }",
		"b.nit":   "fn b(): u8 { return 2; }",
		"doc.txt": "not a source",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	out, errOut, err := runCLI(t, "build", "--ui", "off", "-j", "2", dir)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, errOut)
	}
	if !strings.Contains(out, "built 2 of 2 units") {
		t.Fatalf("summary: %q", out)
	}
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode("ui", in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("color", "sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchBeside(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib")
	if err := os.WriteFile(lib+".nit", []byte("fn lib() { }"), 0o600); err != nil {
		t.Fatal(err)
	}
	data, err := fetchBeside(lib)
	if err != nil || string(data) != "fn lib() { }" {
		t.Fatalf("fetch = %q, %v", data, err)
	}
	if _, err := fetchBeside(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for a missing import")
	}
}

func TestPrintTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.nit", []byte("x"))
	var sb strings.Builder
	toks := []token.Token{{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 1}, Text: "x"}}
	if err := printTokens(&sb, fs, toks); err != nil {
		t.Fatal(err)
	}
	if got := sb.String(); !strings.HasPrefix(got, "1:1-1:2\t") || !strings.HasSuffix(got, "\t\"x\"\n") {
		t.Fatalf("got %q", got)
	}
}
