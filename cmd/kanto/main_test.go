package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hylla/kanto/internal/config"
)

// TestMain sets deterministic environment defaults for CLI tests.
func TestMain(m *testing.M) {
	_ = os.Setenv("KANTO_DEV_MODE", "false")
	_ = os.Unsetenv("KANTO_CONFIG")
	_ = os.Unsetenv("KANTO_SAVE_DIR")
	_ = os.Unsetenv("KANTO_LOG_LEVEL")
	_ = os.Unsetenv("KANTO_DEV_LOG")
	_ = os.Unsetenv("KANTO_CLOUD_URL")
	_ = os.Unsetenv("KANTO_CLOUD_ANON_KEY")
	os.Exit(m.Run())
}

// fakeProgram represents fake program data used by this package.
type fakeProgram struct {
	runErr error
}

// Run runs the requested command flow.
func (f fakeProgram) Run() (tea.Model, error) {
	return nil, f.runErr
}

// isolateHome points every platform path at a temp dir for one test.
func isolateHome(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	return tmp
}

// TestRootCmdVersion verifies behavior for the covered scenario.
func TestRootCmdVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out, io.Discard)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected version output, got %q", out.String())
	}
}

// TestRootCmdStartsProgram verifies behavior for the covered scenario.
func TestRootCmdStartsProgram(t *testing.T) {
	isolateHome(t)
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })

	started := false
	programFactory = func(_ tea.Model) program {
		started = true
		return fakeProgram{}
	}

	cmd := newRootCmd(io.Discard, io.Discard)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !started {
		t.Fatal("expected the tui program to start")
	}
}

// TestRootCmdProgramError verifies behavior for the covered scenario.
func TestRootCmdProgramError(t *testing.T) {
	isolateHome(t)
	origFactory := programFactory
	t.Cleanup(func() { programFactory = origFactory })
	programFactory = func(_ tea.Model) program {
		return fakeProgram{runErr: errors.New("terminal gone")}
	}

	cmd := newRootCmd(io.Discard, io.Discard)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected the program error to propagate")
	}
}

// TestResetConfigCmd verifies behavior for the covered scenario.
func TestResetConfigCmd(t *testing.T) {
	isolateHome(t)
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "config.json")
	saveDir := filepath.Join(tmp, "saves")

	if err := os.WriteFile(configPath, []byte(`{"tickrate": 999}`), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd(&out, io.Discard)
	cmd.SetArgs([]string{"reset-config", "--config", configPath, "--save-dir", saveDir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	cfg, err := config.Load(configPath, config.Default(saveDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Tickrate != config.Default(saveDir).Tickrate {
		t.Fatalf("expected defaults restored, got tickrate %d", cfg.Tickrate)
	}
	if !strings.Contains(out.String(), "config reset") {
		t.Fatalf("expected confirmation output, got %q", out.String())
	}
}

// TestGenerateKeyRequiresCloud verifies behavior for the covered scenario.
func TestGenerateKeyRequiresCloud(t *testing.T) {
	isolateHome(t)
	cmd := newRootCmd(io.Discard, io.Discard)
	cmd.SetArgs([]string{"generate-key", "--email", "a@b.c", "--password", "pw", "--yes"})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "cloud backend is not configured") {
		t.Fatalf("expected missing-backend error, got %v", err)
	}
}

// TestResolveRuntimeOverrides verifies behavior for the covered scenario.
func TestResolveRuntimeOverrides(t *testing.T) {
	isolateHome(t)
	tmp := t.TempDir()
	configPath := filepath.Join(tmp, "conf", "config.json")
	saveDir := filepath.Join(tmp, "boards")

	opts := &rootOptions{
		configPath: configPath,
		saveDir:    saveDir,
		logLevel:   "info",
		appName:    "kanto",
	}
	paths, cfg, warn, err := resolveRuntime(opts)
	if err != nil {
		t.Fatalf("resolveRuntime() error = %v", err)
	}
	if warn != nil {
		t.Fatalf("resolveRuntime() warn = %v", warn)
	}
	if paths.ConfigPath != configPath {
		t.Fatalf("expected config path override, got %q", paths.ConfigPath)
	}
	if cfg.SaveDirectory != saveDir {
		t.Fatalf("expected save dir override, got %q", cfg.SaveDirectory)
	}
	if _, statErr := os.Stat(saveDir); statErr != nil {
		t.Fatalf("expected save dir created: %v", statErr)
	}
}

// TestRuntimeLoggerSinks verifies behavior for the covered scenario.
func TestRuntimeLoggerSinks(t *testing.T) {
	tmp := t.TempDir()
	var console bytes.Buffer
	logger, err := newRuntimeLogger(&console, "kanto", "debug", tmp, func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	})
	if err != nil {
		t.Fatalf("newRuntimeLogger() error = %v", err)
	}
	t.Cleanup(func() { _ = logger.Close() })

	wantPath := filepath.Join(tmp, "kanto-2026-03-14.log")
	if logger.DevLogPath() != wantPath {
		t.Fatalf("DevLogPath() = %q, want %q", logger.DevLogPath(), wantPath)
	}

	logger.Info("visible on console")
	if !strings.Contains(console.String(), "visible on console") {
		t.Fatal("expected console output before muting")
	}

	logger.SetConsoleEnabled(false)
	logger.Info("file only")
	if strings.Contains(console.String(), "file only") {
		t.Fatal("muted console must not receive events")
	}
	data, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "file only") {
		t.Fatal("expected file sink to keep receiving events")
	}

	if logger.TUISink() == nil {
		t.Fatal("expected a usable tui sink")
	}
}

// TestRuntimeLoggerBadLevel verifies behavior for the covered scenario.
func TestRuntimeLoggerBadLevel(t *testing.T) {
	if _, err := newRuntimeLogger(io.Discard, "kanto", "loud", "", time.Now); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

// TestPromptYes verifies behavior for the covered scenario.
func TestPromptYes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact", "yes\n", true},
		{"mixed case", "YES\n", true},
		{"padded", "  yes  \n", true},
		{"no", "no\n", false},
		{"empty line", "\n", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := promptYes(strings.NewReader(tc.input), io.Discard, "continue? ")
			if err != nil {
				t.Fatalf("promptYes() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("promptYes(%q) = %t, want %t", tc.input, got, tc.want)
			}
		})
	}
}

// TestParseBoolEnv verifies behavior for the covered scenario.
func TestParseBoolEnv(t *testing.T) {
	t.Setenv("KANTO_TEST_BOOL", "true")
	if v, ok := parseBoolEnv("KANTO_TEST_BOOL"); !ok || !v {
		t.Fatalf("parseBoolEnv() = %t, %t", v, ok)
	}
	t.Setenv("KANTO_TEST_BOOL", "not-a-bool")
	if _, ok := parseBoolEnv("KANTO_TEST_BOOL"); ok {
		t.Fatal("expected malformed value to be ignored")
	}
	t.Setenv("KANTO_TEST_BOOL", "")
	if _, ok := parseBoolEnv("KANTO_TEST_BOOL"); ok {
		t.Fatal("expected empty value to be ignored")
	}
}

// TestCloudClientFromEnv verifies behavior for the covered scenario.
func TestCloudClientFromEnv(t *testing.T) {
	t.Setenv("KANTO_CLOUD_URL", "")
	t.Setenv("KANTO_CLOUD_ANON_KEY", "")
	if cloudClientFromEnv() != nil {
		t.Fatal("expected nil client without an endpoint")
	}
	t.Setenv("KANTO_CLOUD_URL", "https://example.test")
	t.Setenv("KANTO_CLOUD_ANON_KEY", "anon")
	if cloudClientFromEnv() == nil {
		t.Fatal("expected a client when the endpoint is configured")
	}
}
