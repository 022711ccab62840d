package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/wmctrl/internal/config"
	"github.com/1broseidon/wmctrl/internal/logging"
	"github.com/1broseidon/wmctrl/internal/platform"
	"github.com/1broseidon/wmctrl/internal/platform/platformtest"
	"github.com/1broseidon/wmctrl/internal/process"
)

type testApp struct {
	*app
	fake   *platformtest.Backend
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))

	fake := platformtest.New().
		AddProcess(100, 101, 102).
		AddWindow(101, 0x1001, "").
		AddWindow(101, 0x1002, "Untitled - Notepad").
		AddWindow(102, 0x1003, "Find").
		SetMainWindow(100, 0x1002).
		AddProcess(200, 201).
		AddWindow(201, 0x2001, "notes.txt - Notepad").
		SetMainWindow(200, 0x2001).
		AddProcess(300, 301).
		AddWindow(301, 0x3001, "Settings").
		SetMainWindow(300, 0x3001).
		AddProcess(400, 401)
	snap := process.Static{
		{PID: 100, Name: "notepad", ThreadIDs: []int{101, 102}, MainWindow: 0x1002},
		{PID: 400, Name: "sshd", ThreadIDs: []int{401}},
		{PID: 200, Name: "notepad", ThreadIDs: []int{201}, MainWindow: 0x2001},
		{PID: 300, Name: "app", ThreadIDs: []int{301}, MainWindow: 0x3001},
	}

	var stdout, stderr bytes.Buffer
	return &testApp{
		app: &app{
			stdout:      &stdout,
			stderr:      &stderr,
			openBackend: func() (platform.Backend, error) { return fake, nil },
			newLookup: func(process.Source, *logging.Logger) process.Lookup {
				return snap
			},
		},
		fake:   fake,
		stdout: &stdout,
		stderr: &stderr,
	}
}

func TestRunListWindows(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"list-windows", "notepad"}); got != 0 {
		t.Fatalf("exit = %d, want 0 (stderr: %s)", got, ta.stderr)
	}
	want := strings.Join([]string{
		"Process Name: notepad ID: 100 Title: Untitled - Notepad",
		"---",
		"    4097",
		"Untitled - Notepad",
		"    4098",
		"Find",
		"    4099",
		"",
		"Process Name: notepad ID: 200 Title: notes.txt - Notepad",
		"notes.txt - Notepad",
		"    8193",
		"",
		"",
	}, "\n")
	if got := ta.stdout.String(); got != want {
		t.Fatalf("stdout =\n%s\nwant\n%s", got, want)
	}
	if !ta.fake.Closed {
		t.Fatalf("backend was not closed")
	}
}

func TestRunListWindows_UnknownProcess(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"list-windows", "nosuchproc"}); got != exitNotFound {
		t.Fatalf("exit = %d, want %d", got, exitNotFound)
	}
	if ta.stdout.Len() != 0 {
		t.Fatalf("stdout = %q, want no window lines", ta.stdout.String())
	}
	if !strings.Contains(ta.stderr.String(), "nosuchproc") {
		t.Fatalf("stderr = %q, want process name", ta.stderr.String())
	}
}

func TestRunListWindows_PlaceholderFromConfig(t *testing.T) {
	ta := newTestApp(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("empty_title_placeholder: \"(none)\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := ta.run([]string{"--config", path, "ls", "notepad"}); got != 0 {
		t.Fatalf("exit = %d, want 0 (stderr: %s)", got, ta.stderr)
	}
	if !strings.Contains(ta.stdout.String(), "(none)\n    4097\n") {
		t.Fatalf("stdout = %q, want placeholder for untitled window", ta.stdout.String())
	}
}

func TestRunListProcesses(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"list-processes"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	lines := strings.Split(strings.TrimRight(ta.stdout.String(), "\n"), "\n")
	want := []string{
		"ID: \t Name:\t Title:",
		strings.Repeat("-", 49),
		"100\t notepad\t Untitled - Notepad",
		"200\t notepad\t notes.txt - Notepad",
		"300\t app\t Settings",
	}
	if len(lines) != len(want) {
		t.Fatalf("stdout lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRunResolveHandle(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"match", []string{"resolve-handle", "notepad", "Find"}, "4099\n"},
		{"no title match", []string{"resolve-handle", "app", "Preferences"}, "-2\n"},
		{"no process", []string{"resolve-handle", "nosuchproc", "x"}, "-3\n"},
		{"missing args", []string{"resolve-handle", "app"}, "-1\n"},
		{"empty fragment", []string{"resolve-handle", "app", ""}, "-1\n"},
		{"first process only", []string{"resolve-handle", "notepad", "notes.txt"}, "-2\n"},
		{"unknown dash argument", []string{"resolve-handle", "-x", "app", "Settings"}, "-1\n"},
		{"dash-prefixed process name", []string{"resolve-handle", "-notepad", "Find"}, "-3\n"},
		{"separator", []string{"resolve-handle", "--", "app", "Settings"}, "12289\n"},
		{"no args", []string{"resolve-handle"}, "-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			if got := ta.run(tt.args); got != 0 {
				t.Fatalf("exit = %d, want 0", got)
			}
			if got := ta.stdout.String(); got != tt.want {
				t.Fatalf("stdout = %q, want %q", got, tt.want)
			}
			if len(ta.fake.Foregrounded) != 0 {
				t.Fatalf("resolve-handle activated %v", ta.fake.Foregrounded)
			}
		})
	}
}

func TestRunResolveHandle_NoTitleMatchScenario(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"resolve-handle", "app", "Settings"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if got := ta.stdout.String(); got != "12289\n" {
		t.Fatalf("stdout = %q, want 12289", got)
	}

	ta = newTestApp(t)
	ta.fake.CloseWindow(0x3001)
	if got := ta.run([]string{"resolve-handle", "app", "Settings"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if got := ta.stdout.String(); got != "-2\n" {
		t.Fatalf("stdout = %q, want exactly -2", got)
	}
}

type failingLookup struct{ err error }

func (l failingLookup) Snapshot(context.Context, ...string) (process.Snapshot, error) {
	return nil, l.err
}

func TestRunResolveHandle_FailuresExitZero(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, ta *testApp) []string
	}{
		{"backend unavailable", func(t *testing.T, ta *testApp) []string {
			ta.openBackend = func() (platform.Backend, error) { return nil, platform.ErrUnsupported }
			return nil
		}},
		{"invalid config", func(t *testing.T, ta *testApp) []string {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte("title_capacity: 1\n"), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			return []string{"--config", path}
		}},
		{"snapshot error", func(t *testing.T, ta *testApp) []string {
			ta.newLookup = func(process.Source, *logging.Logger) process.Lookup {
				return failingLookup{err: errors.New("process table unreadable")}
			}
			return nil
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			args := append(tt.setup(t, ta), "resolve-handle", "app", "Settings")
			if got := ta.run(args); got != 0 {
				t.Fatalf("exit = %d, want 0", got)
			}
			if got := ta.stdout.String(); got != "-1\n" {
				t.Fatalf("stdout = %q, want -1", got)
			}
			if ta.stderr.Len() == 0 {
				t.Fatalf("stderr is empty, want the failure reason")
			}
		})
	}
}

func TestRunSwitchToWindow_HelpMentionsMissingMainWindow(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"switch-to-window", "--help"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if !strings.Contains(ta.stderr.String(), "has no main window") {
		t.Fatalf("usage = %q, want the no-main-window failure described", ta.stderr.String())
	}
}

func TestRunSwitchToHandle(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"switch-to-handle", "4295032831"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if len(ta.fake.Foregrounded) != 1 || ta.fake.Foregrounded[0] != platform.Handle(4295032831) {
		t.Fatalf("foregrounded = %v, want [4295032831]", ta.fake.Foregrounded)
	}

	ta = newTestApp(t)
	if got := ta.run([]string{"switch-to-handle", "12x"}); got != exitNotFound {
		t.Fatalf("exit = %d, want %d", got, exitNotFound)
	}
	if len(ta.fake.Foregrounded) != 0 {
		t.Fatalf("invalid handle activated %v", ta.fake.Foregrounded)
	}
}

func TestRunSwitchToWindow_Ambiguous(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"switch-to-window", "notepad"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if len(ta.fake.Foregrounded) != 1 || ta.fake.Foregrounded[0] != 0x1002 {
		t.Fatalf("foregrounded = %v, want [0x1002]", ta.fake.Foregrounded)
	}
	out := ta.stdout.String()
	if !strings.Contains(out, "2 processes found with name: notepad") ||
		!strings.Contains(out, "Process Name: notepad ID: 100 Title: Untitled - Notepad") {
		t.Fatalf("stdout = %q, want ambiguity notice", out)
	}
	if !strings.Contains(ta.stderr.String(), "Ambiguous process name") {
		t.Fatalf("stderr = %q, want warn log", ta.stderr.String())
	}
}

func TestRunSwitchToWindow_Failures(t *testing.T) {
	tests := []struct {
		name string
		proc string
	}{
		{"unknown process", "nosuchproc"},
		{"no main window", "sshd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			if got := ta.run([]string{"activate", tt.proc}); got != exitNotFound {
				t.Fatalf("exit = %d, want %d", got, exitNotFound)
			}
			if len(ta.fake.Foregrounded) != 0 {
				t.Fatalf("foregrounded = %v, want none", ta.fake.Foregrounded)
			}
		})
	}
}

func TestRunSwitchToWindow_ActivationError(t *testing.T) {
	ta := newTestApp(t)
	ta.fake.ForegroundErr = errors.New("connection lost")

	if got := ta.run([]string{"switch-to-window", "app"}); got != 1 {
		t.Fatalf("exit = %d, want 1", got)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := [][]string{
		{"bogus"},
		{"list-windows"},
		{"list-windows", "a", "b"},
		{"list-processes", "extra"},
		{"switch-to-handle"},
		{"--debug"},
	}
	for _, args := range tests {
		ta := newTestApp(t)
		if got := ta.run(args); got != 2 {
			t.Errorf("run(%q) = %d, want 2", args, got)
		}
	}
}

func TestRun_BackendUnavailable(t *testing.T) {
	ta := newTestApp(t)
	ta.openBackend = func() (platform.Backend, error) { return nil, platform.ErrUnsupported }

	if got := ta.run([]string{"list-processes"}); got != 1 {
		t.Fatalf("exit = %d, want 1", got)
	}
	if !strings.Contains(ta.stderr.String(), "not supported") {
		t.Fatalf("stderr = %q", ta.stderr.String())
	}
}

func TestRun_DebugLogging(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run([]string{"--debug", "resolve-handle", "notepad", "Find"}); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if !strings.Contains(ta.stderr.String(), "Matched window") {
		t.Fatalf("stderr = %q, want debug event", ta.stderr.String())
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	ta := newTestApp(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("title_capacity: 1\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if got := ta.run([]string{"--config", path, "list-processes"}); got != 1 {
		t.Fatalf("exit = %d, want 1", got)
	}
	if !strings.Contains(ta.stderr.String(), "title_capacity") {
		t.Fatalf("stderr = %q, want validation error", ta.stderr.String())
	}
}

func TestRun_NoArguments(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.run(nil); got != 0 {
		t.Fatalf("exit = %d, want 0", got)
	}
	if !strings.HasPrefix(ta.stdout.String(), "Error: insufficient command line arguments") {
		t.Fatalf("stdout = %q", ta.stdout.String())
	}
}

func TestSplitGlobalArgs(t *testing.T) {
	tests := []struct {
		args       []string
		wantGlobal int
	}{
		{[]string{"ls", "x"}, 0},
		{[]string{"--debug", "ls", "x"}, 1},
		{[]string{"--config", "c.yaml", "--debug", "ps"}, 3},
		{[]string{"--config=c.yaml", "-l"}, 1},
		{[]string{"-a", "notepad"}, 0},
		{[]string{"--", "ps"}, 1},
	}
	for _, tt := range tests {
		global, rest := splitGlobalArgs(tt.args)
		if len(global) != tt.wantGlobal || len(global)+len(rest) != len(tt.args) {
			t.Errorf("splitGlobalArgs(%q) = %q, %q; want %d global", tt.args, global, rest, tt.wantGlobal)
		}
	}
}
