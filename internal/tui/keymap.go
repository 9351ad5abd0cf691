package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/hylla/kanto/internal/config"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit           key.Binding
	nextFocus      key.Binding
	prevFocus      key.Binding
	up             key.Binding
	down           key.Binding
	left           key.Binding
	right          key.Binding
	takeUserInput  key.Binding
	stopUserInput  key.Binding
	accept         key.Binding
	hideUIElement  key.Binding
	newBoard       key.Binding
	newCard        key.Binding
	deleteCard     key.Binding
	deleteBoard    key.Binding
	statusComplete key.Binding
	statusActive   key.Binding
	statusStale    key.Binding
	saveState      key.Binding
	undo           key.Binding
	redo           key.Binding
	resetUI        key.Binding
	goToMainMenu   key.Binding
	openConfigMenu key.Binding
	commandPalette key.Binding
	clearToasts    key.Binding
	filterByTag    key.Binding
}

// bindingFor builds one binding from the configured keys for an action.
func bindingFor(bindings map[string][]string, action, help string) key.Binding {
	keys := bindings[action]
	if len(keys) == 0 {
		return key.NewBinding(key.WithDisabled())
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

// newKeyMap constructs key map from the configured keybindings.
func newKeyMap(bindings map[string][]string) keyMap {
	if bindings == nil {
		bindings = config.Default(".").Keybindings
	}
	return keyMap{
		quit:           bindingFor(bindings, "quit", "quit"),
		nextFocus:      bindingFor(bindings, "next_focus", "next focus"),
		prevFocus:      bindingFor(bindings, "prev_focus", "prev focus"),
		up:             bindingFor(bindings, "up", "up"),
		down:           bindingFor(bindings, "down", "down"),
		left:           bindingFor(bindings, "left", "left"),
		right:          bindingFor(bindings, "right", "right"),
		takeUserInput:  bindingFor(bindings, "take_user_input", "edit field"),
		stopUserInput:  bindingFor(bindings, "stop_user_input", "stop editing"),
		accept:         bindingFor(bindings, "accept", "accept"),
		hideUIElement:  bindingFor(bindings, "hide_ui_element", "hide element"),
		newBoard:       bindingFor(bindings, "new_board", "new board"),
		newCard:        bindingFor(bindings, "new_card", "new card"),
		deleteCard:     bindingFor(bindings, "delete_card", "delete card"),
		deleteBoard:    bindingFor(bindings, "delete_board", "delete board"),
		statusComplete: bindingFor(bindings, "card_status_completed", "mark complete"),
		statusActive:   bindingFor(bindings, "card_status_active", "mark active"),
		statusStale:    bindingFor(bindings, "card_status_stale", "mark stale"),
		saveState:      bindingFor(bindings, "save_state", "save"),
		undo:           bindingFor(bindings, "undo", "undo"),
		redo:           bindingFor(bindings, "redo", "redo"),
		resetUI:        bindingFor(bindings, "reset_ui", "reset ui"),
		goToMainMenu:   bindingFor(bindings, "go_to_main_menu", "main menu"),
		openConfigMenu: bindingFor(bindings, "open_config_menu", "config"),
		commandPalette: bindingFor(bindings, "toggle_command_palette", "command palette"),
		clearToasts:    bindingFor(bindings, "clear_all_toasts", "clear toasts"),
		filterByTag:    bindingFor(bindings, "filter_by_tag", "filter by tag"),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.newBoard, k.newCard, k.accept, k.saveState, k.undo, k.commandPalette, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.nextFocus, k.prevFocus},
		{k.newBoard, k.newCard, k.deleteCard, k.deleteBoard, k.accept, k.takeUserInput},
		{k.statusComplete, k.statusActive, k.statusStale, k.filterByTag, k.saveState, k.undo, k.redo},
		{k.goToMainMenu, k.openConfigMenu, k.commandPalette, k.clearToasts, k.resetUI, k.quit},
	}
}
