package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stub(t *testing.T, version, commit, date string, bi *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() { Version, Commit, Date, readBuildInfo = oldV, oldC, oldD, oldRead })
	Version, Commit, Date = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestLdflagsWin(t *testing.T) {
	stub(t, "v1.2.3", "abc123", "2026-01-02", &debug.BuildInfo{
		GoVersion: "go1.24.0",
		Main:      debug.Module{Version: "v0.9.0"},
		Settings:  []debug.BuildSetting{{Key: "vcs.revision", Value: "zzz"}},
	})
	got := Current()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02", GoVersion: "go1.24.0"}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
	if s := String(); !strings.Contains(s, "abc123") || !strings.Contains(s, "2026-01-02") {
		t.Errorf("String() = %q", s)
	}
}

func TestToolchainFallback(t *testing.T) {
	stub(t, "dev", "none", "unknown", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		},
	})
	got := Current()
	if got.Version != "v0.4.0" || got.Commit != "deadbeef" || got.Date != "2026-03-04T05:06:07Z" {
		t.Errorf("Current() = %+v", got)
	}
}

func TestDevelBuild(t *testing.T) {
	stub(t, "dev", "none", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if got := Current().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}

	stub(t, "dev", "none", "unknown", nil)
	if got := Current(); got != (Info{Version: "dev", Commit: "none", Date: "unknown"}) {
		t.Errorf("Current() without build info = %+v", got)
	}
}
