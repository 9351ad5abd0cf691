package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/kanto_saves")
	if cfg.SaveDirectory != "/tmp/kanto_saves" {
		t.Fatalf("unexpected save dir %q", cfg.SaveDirectory)
	}
	if cfg.NoOfBoardsToShow < 1 || cfg.NoOfCardsToShow < 1 {
		t.Fatal("expected positive window sizes by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Keybindings["quit"]) == 0 {
		t.Fatal("expected default quit keybinding")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/kanto_saves")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SaveDirectory != defaults.SaveDirectory {
		t.Fatalf("expected default save dir, got %q", cfg.SaveDirectory)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
  "save_directory": "/custom/saves",
  "tickrate": 100,
  "auto_save": false,
  "date_time_format": "YYYY/MM/DD",
  "no_of_boards_to_show": 5,
  "no_of_cards_to_show": 2,
  "keybindings": {"quit": ["x"]}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default_saves"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SaveDirectory != "/custom/saves" {
		t.Fatalf("unexpected save dir %q", cfg.SaveDirectory)
	}
	if cfg.Tickrate != 100 || cfg.AutoSave {
		t.Fatal("expected overrides applied")
	}
	if cfg.Keybindings["quit"][0] != "x" {
		t.Fatal("expected quit keybinding override")
	}
	if len(cfg.Keybindings["new_board"]) == 0 {
		t.Fatal("expected omitted keybindings backfilled from defaults")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad tickrate", `{"save_directory": "/s", "tickrate": 5}`},
		{"bad format", `{"save_directory": "/s", "date_time_format": "whenever"}`},
		{"bad window", `{"save_directory": "/s", "no_of_boards_to_show": 0}`},
		{"empty key", `{"save_directory": "/s", "keybindings": {"quit": [""]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default("/tmp/default_saves")); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "config.json")
	cfg := Default("/tmp/kanto_saves")
	cfg.Tickrate = 500
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := Load(path, Default("/other"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Tickrate != 500 || loaded.SaveDirectory != "/tmp/kanto_saves" {
		t.Fatalf("unexpected round trip %#v", loaded)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.json")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}
