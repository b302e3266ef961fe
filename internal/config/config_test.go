package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.PtrSize() != 8 || c.MaxDepth() != 10000 || !c.CrashGuard() || c.FastError() {
		t.Fatalf("unexpected defaults: %v", c.Keys())
	}
}

func TestWithIsCopy(t *testing.T) {
	a := Default()
	b := a.With(FlagFastError, "true")
	if a.FastError() {
		t.Fatalf("With mutated the receiver")
	}
	if !b.FastError() {
		t.Fatalf("With did not set the key")
	}
	var zero Conf
	if zero.Int(FlagPtrSize, 4) != 4 || zero.Bool(FlagCrashGuard) {
		t.Fatalf("zero Conf must fall back to defaults")
	}
}

func TestDecode(t *testing.T) {
	c, err := Decode(`
[parser]
fast_error = true

[sequencer]
max_depth = 64

[ir]
pointer_size = 4

[flags]
"-fcustom" = "yes"
`)
	if err != nil {
		t.Fatal(err)
	}
	if !c.FastError() || c.MaxDepth() != 64 || c.PtrSize() != 4 {
		t.Fatalf("decoded %v", c.Keys())
	}
	if v, _ := c.Get("-fcustom"); v != "yes" {
		t.Fatalf("custom flag = %q", v)
	}
	if c.MaxErrors() != DefaultMaxErrors {
		t.Fatalf("untouched keys must keep defaults")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name, text, want string
	}{
		{"unknown key", "[parser]\nspeed = 1\n", "unknown keys"},
		{"bad pointer", "[ir]\npointer_size = 3\n", "pointer_size"},
		{"bad depth", "[sequencer]\nmax_depth = 0\n", "max_depth"},
		{"bad flag", "[flags]\nx = \"1\"\n", "must start with -f"},
		{"syntax", "[parser\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		_, err := Decode(tt.text)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nitrate.toml")
	if err := os.WriteFile(path, []byte("[ir]\ncrash_guard = false\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.CrashGuard() {
		t.Fatalf("crash_guard not applied")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
