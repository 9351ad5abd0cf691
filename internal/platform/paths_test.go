package platform

import (
	"os"
	"path/filepath"
	"testing"
)

// TestPathsForLinuxWithXDG verifies behavior for the covered scenario.
func TestPathsForLinuxWithXDG(t *testing.T) {
	p, err := PathsFor("linux", map[string]string{
		"XDG_CONFIG_HOME": "/xdg/config",
		"XDG_DATA_HOME":   "/xdg/data",
	}, "/fallback/config", "/fallback/data", "kanto")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	wantConfig := filepath.Join("/xdg/config", "kanto", "config.json")
	wantSaves := filepath.Join("/xdg/data", "kanto", "saves")
	if p.ConfigPath != wantConfig {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if p.SaveDir != wantSaves {
		t.Fatalf("unexpected save dir %q", p.SaveDir)
	}
}

// TestPathsForWindowsUsesAppData verifies behavior for the covered scenario.
func TestPathsForWindowsUsesAppData(t *testing.T) {
	p, err := PathsFor("windows", map[string]string{
		"APPDATA":      `C:\Users\me\AppData\Roaming`,
		"LOCALAPPDATA": `C:\Users\me\AppData\Local`,
	}, `C:\fallback\config`, `C:\fallback\data`, "kanto")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}

	wantConfig := filepath.Join(`C:\Users\me\AppData\Roaming`, "kanto", "config.json")
	wantSaves := filepath.Join(`C:\Users\me\AppData\Local`, "kanto", "saves")
	if p.ConfigPath != wantConfig {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
	if p.SaveDir != wantSaves {
		t.Fatalf("unexpected save dir %q", p.SaveDir)
	}
}

// TestPathsForEmptyDirsFails verifies behavior for the covered scenario.
func TestPathsForEmptyDirsFails(t *testing.T) {
	_, err := PathsFor("darwin", nil, "", "/tmp/data", "kanto")
	if err == nil {
		t.Fatal("expected error for empty dirs")
	}
}

// TestPathsForDarwinFallback verifies behavior for the covered scenario.
func TestPathsForDarwinFallback(t *testing.T) {
	p, err := PathsFor("darwin", map[string]string{
		"XDG_CONFIG_HOME": "/ignored",
		"XDG_DATA_HOME":   "/ignored",
	}, "/Users/me/Library/Application Support", "/Users/me/Library/Application Support", "kanto")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	wantConfig := filepath.Join("/Users/me/Library/Application Support", "kanto", "config.json")
	if p.ConfigPath != wantConfig {
		t.Fatalf("unexpected config path %q", p.ConfigPath)
	}
}

// TestKeyAndTokenPaths verifies behavior for the covered scenario.
func TestKeyAndTokenPaths(t *testing.T) {
	p, err := PathsFor("freebsd", map[string]string{}, "/cfg", "/data", "kanto")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if filepath.Base(p.KeyPath) != "kanto_encryption_key" {
		t.Fatalf("unexpected key path %q", p.KeyPath)
	}
	if filepath.Base(p.TokenPath) != "kanto_refresh_token" {
		t.Fatalf("unexpected token path %q", p.TokenPath)
	}
}

// TestDefaultPathsSmoke verifies behavior for the covered scenario.
func TestDefaultPathsSmoke(t *testing.T) {
	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error = %v", err)
	}
	if p.ConfigPath == "" || p.SaveDir == "" || p.KeyPath == "" {
		t.Fatalf("expected non-empty paths, got %#v", p)
	}
}

// TestDefaultPathsWithOptionsDevMode verifies behavior for the covered scenario.
func TestDefaultPathsWithOptionsDevMode(t *testing.T) {
	p, err := DefaultPathsWithOptions(Options{AppName: "kanto", DevMode: true})
	if err != nil {
		t.Fatalf("DefaultPathsWithOptions() error = %v", err)
	}
	if filepath.Base(filepath.Dir(p.ConfigPath)) != "kanto-dev" {
		t.Fatalf("expected dev config dir suffix, got %q", p.ConfigPath)
	}
}

// TestEnsureDirs verifies behavior for the covered scenario.
func TestEnsureDirs(t *testing.T) {
	base := t.TempDir()
	p, err := PathsFor("freebsd", map[string]string{}, filepath.Join(base, "cfg"), filepath.Join(base, "data"), "kanto")
	if err != nil {
		t.Fatalf("PathsFor() error = %v", err)
	}
	if err := EnsureDirs(p); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, dir := range []string{filepath.Dir(p.ConfigPath), p.SaveDir, p.ThemeDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected dir %s, stat error %v", dir, err)
		}
	}
}
