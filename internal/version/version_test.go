package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldVersion, oldDirty := Version, Dirty
	defer func() { Version, Dirty = oldVersion, oldDirty }()

	tests := []struct {
		version, dirty, want string
	}{
		{"1.2.0", "false", "1.2.0"},
		{"1.2.0", "true", "1.2.0-dirty"},
		{"dev", "", "dev"},
	}
	for _, tt := range tests {
		Version, Dirty = tt.version, tt.dirty
		if got := String(); got != tt.want {
			t.Errorf("String() with %q/%q = %q, want %q", tt.version, tt.dirty, got, tt.want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	oldVersion := Version
	defer func() { Version = oldVersion }()
	Version = "1.2.0"

	if got := UserAgent(); !strings.HasPrefix(got, "newsrelay/1.2.0 ") {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{"newsrelay ", "Commit:", "Go version:", "OS/Arch:"} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() missing %q:\n%s", want, full)
		}
	}
}
