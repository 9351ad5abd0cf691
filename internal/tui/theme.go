package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
)

// StyleSlot identifies one editable style of a theme.
type StyleSlot string

const (
	SlotGeneral      StyleSlot = "General"
	SlotBoard        StyleSlot = "Board"
	SlotCard         StyleSlot = "Card"
	SlotSelected     StyleSlot = "Selected"
	SlotDueWarning   StyleSlot = "Due Warning"
	SlotPriorityHigh StyleSlot = "Priority High"
	SlotHelpKey      StyleSlot = "Help Key"
	SlotLogInfo      StyleSlot = "Log Info"
	SlotLogError     StyleSlot = "Log Error"
)

// styleSlotsOrdered is the display order in the theme editor.
var styleSlotsOrdered = []StyleSlot{
	SlotGeneral, SlotBoard, SlotCard, SlotSelected, SlotDueWarning,
	SlotPriorityHigh, SlotHelpKey, SlotLogInfo, SlotLogError,
}

// Theme is a named set of lipgloss styles keyed by slot.
type Theme struct {
	Name   string
	Styles map[StyleSlot]lipgloss.Style
}

func (t Theme) Style(slot StyleSlot) lipgloss.Style {
	if style, ok := t.Styles[slot]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Clone returns a deep copy so the theme editor can mutate freely.
func (t Theme) Clone() Theme {
	out := Theme{Name: t.Name, Styles: make(map[StyleSlot]lipgloss.Style, len(t.Styles))}
	for slot, style := range t.Styles {
		out.Styles[slot] = style
	}
	return out
}

// DefaultTheme builds the stock theme shipped with the app.
func DefaultTheme() Theme {
	return Theme{
		Name: "Default Theme",
		Styles: map[StyleSlot]lipgloss.Style{
			SlotGeneral:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			SlotBoard:        lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
			SlotCard:         lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			SlotSelected:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			SlotDueWarning:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			SlotPriorityHigh: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			SlotHelpKey:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			SlotLogInfo:      lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
			SlotLogError:     lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		},
	}
}

// BuiltinThemes lists the selectable themes in presentation order.
func BuiltinThemes() []Theme {
	midnight := DefaultTheme()
	midnight.Name = "Midnight Blue"
	midnight.Styles[SlotBoard] = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
	midnight.Styles[SlotSelected] = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)

	contrast := DefaultTheme()
	contrast.Name = "High Contrast"
	contrast.Styles[SlotGeneral] = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	contrast.Styles[SlotCard] = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	contrast.Styles[SlotSelected] = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15")).Bold(true)
	contrast.Styles[SlotDueWarning] = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)

	return []Theme{DefaultTheme(), midnight, contrast}
}

// ThemeByName resolves a configured theme name, falling back to the default.
func ThemeByName(name string) Theme {
	for _, theme := range BuiltinThemes() {
		if theme.Name == name {
			return theme
		}
	}
	return DefaultTheme()
}

// styleSpec is the serializable form of one slot's style. Empty color
// fields leave that attribute unset.
type styleSpec struct {
	FG   string `json:"fg,omitempty"`
	BG   string `json:"bg,omitempty"`
	Bold bool   `json:"bold,omitempty"`
}

type themeFile struct {
	Name  string                  `json:"name"`
	Slots map[StyleSlot]styleSpec `json:"slots"`
}

func (s styleSpec) style() lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.FG != "" {
		style = style.Foreground(lipgloss.Color(s.FG))
	}
	if s.BG != "" {
		style = style.Background(lipgloss.Color(s.BG))
	}
	if s.Bold {
		style = style.Bold(true)
	}
	return style
}

// themeFromSpecs builds a Theme from serialized slot specs.
func themeFromSpecs(name string, slots map[StyleSlot]styleSpec) Theme {
	theme := DefaultTheme()
	theme.Name = name
	for slot, spec := range slots {
		theme.Styles[slot] = spec.style()
	}
	return theme
}

// SaveThemeFile writes a custom theme into dir as <name>.json.
func SaveThemeFile(dir, name string, slots map[StyleSlot]styleSpec) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("theme name must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure theme dir: %w", err)
	}
	content, err := json.MarshalIndent(themeFile{Name: name, Slots: slots}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode theme: %w", err)
	}
	base := strings.ReplaceAll(strings.ToLower(name), " ", "_") + ".json"
	path := filepath.Join(dir, base)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write theme: %w", err)
	}
	return path, nil
}

// LoadThemeDir reads every custom theme file in dir. A missing dir is
// not an error.
func LoadThemeDir(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir: %w", err)
	}
	var themes []Theme
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var file themeFile
		if err := json.Unmarshal(content, &file); err != nil || file.Name == "" {
			continue
		}
		themes = append(themes, themeFromSpecs(file.Name, file.Slots))
	}
	return themes, nil
}

// ParseRGB parses "r,g,b" with each component in 0..255.
func ParseRGB(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 3 {
		return "", fmt.Errorf("expected r,g,b got %q", raw)
	}
	vals := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 || v > 255 {
			return "", fmt.Errorf("component %q out of range 0..255", strings.TrimSpace(part))
		}
		vals[i] = v
	}
	return fmt.Sprintf("#%02x%02x%02x", vals[0], vals[1], vals[2]), nil
}
