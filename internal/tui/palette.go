package tui

import (
	"strings"

	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/domain"
)

// paletteCommandID identifies one command-palette action.
type paletteCommandID int

const (
	cmdQuit paletteCommandID = iota
	cmdOpenMainMenu
	cmdOpenConfigMenu
	cmdChangeView
	cmdChangeTheme
	cmdChangeDateFormat
	cmdEditKeybindings
	cmdCreateTheme
	cmdNewBoard
	cmdNewCard
	cmdDeleteCard
	cmdDeleteBoard
	cmdSaveState
	cmdLoadLocalSave
	cmdLoadCloudSave
	cmdUndo
	cmdRedo
	cmdFilterByTag
	cmdClearFilter
	cmdLogin
	cmdSignUp
	cmdLogout
	cmdSyncToCloud
	cmdResetUI
)

// paletteCommand is one searchable command entry.
type paletteCommand struct {
	ID    paletteCommandID
	Label string
}

// paletteCommands stores the canonical command ordering.
var paletteCommands = []paletteCommand{
	{cmdNewBoard, "New Board"},
	{cmdNewCard, "New Card"},
	{cmdDeleteCard, "Delete Card"},
	{cmdDeleteBoard, "Delete Board"},
	{cmdSaveState, "Save Kanban State"},
	{cmdLoadLocalSave, "Load a Save (local)"},
	{cmdLoadCloudSave, "Load a Save (cloud)"},
	{cmdUndo, "Undo"},
	{cmdRedo, "Redo"},
	{cmdFilterByTag, "Filter by Tag"},
	{cmdClearFilter, "Clear Filter"},
	{cmdChangeView, "Change View"},
	{cmdChangeTheme, "Change Theme"},
	{cmdChangeDateFormat, "Change Date Format"},
	{cmdEditKeybindings, "Edit Keybindings"},
	{cmdCreateTheme, "Create Theme"},
	{cmdOpenConfigMenu, "Open Config Menu"},
	{cmdOpenMainMenu, "Open Main Menu"},
	{cmdLogin, "Login"},
	{cmdSignUp, "Sign Up"},
	{cmdLogout, "Logout"},
	{cmdSyncToCloud, "Sync to Cloud"},
	{cmdResetUI, "Reset UI"},
	{cmdQuit, "Quit"},
}

// paletteCardMatch points at one card found by the palette search.
type paletteCardMatch struct {
	BoardID uuid.UUID
	CardID  uuid.UUID
	Label   string
}

// paletteBoardMatch points at one board found by the palette search.
type paletteBoardMatch struct {
	BoardID uuid.UUID
	Label   string
}

// filterPaletteCommands keeps commands whose label contains the query.
func filterPaletteCommands(query string) []paletteCommand {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return paletteCommands
	}
	out := make([]paletteCommand, 0, len(paletteCommands))
	for _, cmd := range paletteCommands {
		if strings.Contains(strings.ToLower(cmd.Label), query) {
			out = append(out, cmd)
		}
	}
	return out
}

// searchCards finds cards whose name contains the query, tagged with the
// owning board for jump navigation.
func searchCards(boards domain.Boards, query string) []paletteCardMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []paletteCardMatch
	for bi := range boards {
		for ci := range boards[bi].Cards {
			card := &boards[bi].Cards[ci]
			if strings.Contains(strings.ToLower(card.Name), query) {
				out = append(out, paletteCardMatch{
					BoardID: boards[bi].ID,
					CardID:  card.ID,
					Label:   card.Name + " (" + boards[bi].Name + ")",
				})
			}
		}
	}
	return out
}

// searchBoards finds boards whose name contains the query.
func searchBoards(boards domain.Boards, query string) []paletteBoardMatch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []paletteBoardMatch
	for i := range boards {
		if strings.Contains(strings.ToLower(boards[i].Name), query) {
			out = append(out, paletteBoardMatch{BoardID: boards[i].ID, Label: boards[i].Name})
		}
	}
	return out
}
