package version

import (
	"strings"
	"testing"

	"github.com/nilx/io-bds/pkg/bds"
)

func TestResolveStamped(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })

	Version = "v1.2.3"
	Commit = "0123456789abcdef0123"
	BuildTime = "2026-01-02T03:04:05Z"

	info := Resolve()
	if info.Version != "v1.2.3" || info.Commit != Commit || info.BuildTime != BuildTime {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.ABI != bds.Version || info.Codec != bds.LibraryVersion {
		t.Fatalf("codec fields: got %q/%q", info.Codec, info.ABI)
	}
	if got, want := String(), "v1.2.3 (0123456789ab)"; got != want {
		t.Fatalf("String: got %q want %q", got, want)
	}
}

func TestResolveUnstamped(t *testing.T) {
	oldV, oldC, oldB := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })

	Version, Commit, BuildTime = "", "", ""
	info := Resolve()
	if info.Version == "" {
		t.Fatal("expected a fallback version")
	}
	if !strings.HasPrefix(String(), info.Version) {
		t.Fatalf("String %q does not start with %q", String(), info.Version)
	}
}
