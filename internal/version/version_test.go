package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrent(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	defer func() { Version, GitCommit = origVersion, origCommit }()

	Version, GitCommit = "  1.2.3 ", " abc123\n"
	info := Current()
	if info.Version != "1.2.3" || info.GitCommit != "abc123" || info.BuildDate != BuildDate {
		t.Fatalf("info = %+v", info)
	}
	Version = ""
	if got := Current().Version; got != "dev" {
		t.Fatalf("empty version = %q", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	defer func() { color.NoColor = orig }()

	color.NoColor = true
	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.2.3-rc.1+build.5", "1.2.3-rc.1+build.5"},
		{"dev", "dev"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Fatalf("Colored(%q) = %q", tt.in, got)
		}
	}

	color.NoColor = false
	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Fatalf("expected escape sequences")
	}
	if got := Colored("dev"); got != "dev" {
		t.Fatalf("non-semver changed: %q", got)
	}
}
