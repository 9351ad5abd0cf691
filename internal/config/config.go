package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the config file name inside the app config directory.
const FileName = "config.json"

type Config struct {
	SaveDirectory      string              `json:"save_directory"`
	DefaultView        string              `json:"default_view"`
	Tickrate           int                 `json:"tickrate"`
	AutoSave           bool                `json:"auto_save"`
	AlwaysLoadLastSave bool                `json:"always_load_last_save"`
	EnableMouseSupport bool                `json:"enable_mouse_support"`
	AutoLogin          bool                `json:"auto_login"`
	ShowLineNumbers    bool                `json:"show_line_numbers"`
	DisableScrollBar   bool                `json:"disable_scroll_bar"`
	DefaultTheme       string              `json:"default_theme"`
	DateTimeFormat     string              `json:"date_time_format"`
	WarningDelta       int                 `json:"warning_delta"`
	NoOfBoardsToShow   int                 `json:"no_of_boards_to_show"`
	NoOfCardsToShow    int                 `json:"no_of_cards_to_show"`
	Keybindings        map[string][]string `json:"keybindings"`
}

func defaultKeybindings() map[string][]string {
	return map[string][]string{
		"quit":                   {"q", "ctrl+c"},
		"next_focus":             {"tab"},
		"prev_focus":             {"shift+tab"},
		"up":                     {"up"},
		"down":                   {"down"},
		"left":                   {"left"},
		"right":                  {"right"},
		"take_user_input":        {"i"},
		"stop_user_input":        {"esc"},
		"accept":                 {"enter"},
		"hide_ui_element":        {"h"},
		"new_board":              {"b"},
		"new_card":               {"n"},
		"delete_card":            {"d"},
		"delete_board":           {"D"},
		"card_status_completed":  {"1"},
		"card_status_active":     {"2"},
		"card_status_stale":      {"3"},
		"save_state":             {"ctrl+s"},
		"undo":                   {"u"},
		"redo":                   {"ctrl+r"},
		"reset_ui":               {"r"},
		"go_to_main_menu":        {"m"},
		"open_config_menu":       {"c"},
		"toggle_command_palette": {"ctrl+p"},
		"clear_all_toasts":       {"t"},
		"filter_by_tag":          {"f"},
	}
}

func Default(saveDir string) Config {
	return Config{
		SaveDirectory:      saveDir,
		DefaultView:        "Title, Body, Help and Log",
		Tickrate:           250,
		AutoSave:           true,
		AlwaysLoadLastSave: true,
		EnableMouseSupport: true,
		AutoLogin:          true,
		ShowLineNumbers:    true,
		DisableScrollBar:   false,
		DefaultTheme:       "Default Theme",
		DateTimeFormat:     "DD/MM/YYYY-HH:MM:SS",
		WarningDelta:       1,
		NoOfBoardsToShow:   3,
		NoOfCardsToShow:    4,
		Keybindings:        defaultKeybindings(),
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := json.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode json: %w", err)
	}

	// Partial keybinding maps keep defaults for the actions they omit.
	for action, keys := range defaultKeybindings() {
		if _, ok := cfg.Keybindings[action]; !ok {
			if cfg.Keybindings == nil {
				cfg.Keybindings = map[string][]string{}
			}
			cfg.Keybindings[action] = keys
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Save writes the config as indented JSON.
func Save(path string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}
	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Reset rewrites the file with defaults.
func Reset(path string, defaults Config) error {
	return Save(path, defaults)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.SaveDirectory) == "" {
		return errors.New("save_directory is required")
	}
	if c.Tickrate < 10 || c.Tickrate > 1000 {
		return fmt.Errorf("tickrate must be between 10 and 1000, got %d", c.Tickrate)
	}
	if c.NoOfBoardsToShow < 1 {
		return fmt.Errorf("no_of_boards_to_show must be >= 1, got %d", c.NoOfBoardsToShow)
	}
	if c.NoOfCardsToShow < 1 {
		return fmt.Errorf("no_of_cards_to_show must be >= 1, got %d", c.NoOfCardsToShow)
	}
	if c.WarningDelta < 0 {
		return fmt.Errorf("warning_delta must be >= 0, got %d", c.WarningDelta)
	}
	switch c.DateTimeFormat {
	case "DD/MM/YYYY", "DD/MM/YYYY-HH:MM:SS",
		"MM/DD/YYYY", "MM/DD/YYYY-HH:MM:SS",
		"YYYY/MM/DD", "YYYY/MM/DD-HH:MM:SS":
	default:
		return fmt.Errorf("invalid date_time_format: %q", c.DateTimeFormat)
	}
	for action, keys := range c.Keybindings {
		if len(keys) == 0 {
			return fmt.Errorf("keybindings[%s] must list at least one key", action)
		}
		for _, key := range keys {
			if strings.TrimSpace(key) == "" {
				return fmt.Errorf("keybindings[%s] contains an empty key", action)
			}
		}
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
