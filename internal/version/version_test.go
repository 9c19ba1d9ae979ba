package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withVersion(t *testing.T, v, c string) {
	t.Helper()
	oldV, oldC := Version, Commit
	Version, Commit = v, c
	t.Cleanup(func() { Version, Commit = oldV, oldC })
}

func TestFromBuildInfo(t *testing.T) {
	withVersion(t, "", "")

	fromBuildInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
		}}, true
	})

	if Commit != "0123456-dirty" {
		t.Errorf("Commit = %q, want 0123456-dirty", Commit)
	}
	if Version != "dev-20260314" {
		t.Errorf("Version = %q, want dev-20260314", Version)
	}
}

func TestFromBuildInfo_KeepsLdflags(t *testing.T) {
	withVersion(t, "v1.0.0", "abc123")

	fromBuildInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fffffffffff"},
		}}, true
	})

	if Version != "v1.0.0" || Commit != "abc123" {
		t.Errorf("got %s/%s, ldflags values should win", Version, Commit)
	}
}

func TestFullAndUserAgent(t *testing.T) {
	withVersion(t, "v0.3.0", "abc123")

	if Full() != "v0.3.0 (commit: abc123)" {
		t.Errorf("Full() = %q", Full())
	}
	if !strings.HasPrefix(UserAgent(), "inels-client/v0.3.0") {
		t.Errorf("UserAgent() = %q", UserAgent())
	}
}
