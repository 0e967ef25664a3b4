package version

import (
	"runtime"
	"strings"
	"testing"
	"time"
)

func withBuildVars(t *testing.T, v, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuildTime := AppVersion, GitCommit, BuildTime
	t.Cleanup(func() {
		AppVersion, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime
	})
	AppVersion, GitCommit, BuildTime = v, commit, built
}

func TestCurrent_Defaults(t *testing.T) {
	withBuildVars(t, "", " ", "")

	info := Current("")
	if info.Service != Unknown || info.Version != DevelopmentVersion || info.Commit != Unknown || info.BuildTime != Unknown {
		t.Fatalf("unexpected defaults %+v", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if _, ok := info.ParseBuildTime(); ok {
		t.Error("unknown build time should not parse")
	}
}

func TestCurrent_Stamped(t *testing.T) {
	withBuildVars(t, "v1.4.0", "abc1234", "2026-01-02T03:04:05Z")

	info := Current("correlationd")
	ts, ok := info.ParseBuildTime()
	if !ok || !ts.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("ParseBuildTime() = %v, %v", ts, ok)
	}
	if s := info.String(); !strings.HasPrefix(s, "correlationd@v1.4.0 (commit=abc1234") {
		t.Errorf("String() = %q", s)
	}
}

func TestParseBuildTime_Invalid(t *testing.T) {
	if _, ok := (Info{BuildTime: "yesterday"}).ParseBuildTime(); ok {
		t.Error("expected invalid build time to be rejected")
	}
}
