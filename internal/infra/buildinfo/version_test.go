package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}

	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestFillFromVCS(t *testing.T) {
	tests := []struct {
		name       string
		start      Info
		settings   []debug.BuildSetting
		wantCommit string
		wantTime   string
	}{
		{
			name:  "fills unknown fields",
			start: Info{Commit: "unknown", BuildTime: "unknown"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
			wantCommit: "0123456789ab",
			wantTime:   "2026-01-02T03:04:05Z",
		},
		{
			name:  "ldflags win",
			start: Info{Commit: "abc123", BuildTime: "today"},
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			},
			wantCommit: "abc123",
			wantTime:   "today",
		},
		{
			name:       "no vcs stamp",
			start:      Info{Commit: "unknown", BuildTime: "unknown"},
			wantCommit: "unknown",
			wantTime:   "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.start
			fillFromVCS(&info, tt.settings)
			if info.Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", info.Commit, tt.wantCommit)
			}
			if info.BuildTime != tt.wantTime {
				t.Errorf("BuildTime = %q, want %q", info.BuildTime, tt.wantTime)
			}
		})
	}
}

func TestStringFor(t *testing.T) {
	info := Info{Version: "v1.2.3", Commit: "abc", BuildTime: "now", GoVersion: "go1.24.4"}

	want := "relaychat-server v1.2.3 (abc) built at now with go1.24.4"
	if got := StringFor("relaychat-server", info); got != want {
		t.Errorf("StringFor() = %q, want %q", got, want)
	}

	if got := StringFor("", info); strings.HasPrefix(got, " ") {
		t.Errorf("StringFor without program should not start with a space: %q", got)
	}
}

func TestString(t *testing.T) {
	if !strings.Contains(String(), Version) {
		t.Errorf("String() = %q should contain version %q", String(), Version)
	}
}
