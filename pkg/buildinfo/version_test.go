package buildinfo

import (
	"strings"
	"testing"
)

func setBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestGet(t *testing.T) {
	setBuild(t, "v1.2.3", "abc123", "2024-01-01")
	got := Get()
	if got.Version != "v1.2.3" || got.Commit != "abc123" || got.Date != "2024-01-01" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestString(t *testing.T) {
	setBuild(t, "v1.2.3", "abc123", "2024-01-01")
	s := String()
	for _, want := range []string{"version: v1.2.3", "commit: abc123", "built: 2024-01-01"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}

func TestCacheScope(t *testing.T) {
	tests := []struct {
		version, commit, want string
	}{
		{"v1.2.3", "abc123", "v1.2.3"},
		{"dev", "abc123", "dev-abc123"},
		{"dev", "none", "dev-none"},
	}
	for _, tt := range tests {
		setBuild(t, tt.version, tt.commit, "")
		if got := CacheScope(); got != tt.want {
			t.Errorf("CacheScope() with %s/%s = %q, want %q", tt.version, tt.commit, got, tt.want)
		}
	}
}
