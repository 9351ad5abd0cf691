package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/hylla/kanto/internal/textbox"
	"github.com/hylla/kanto/internal/uistate"
)

// newDescBox builds the description editor seeded with existing text.
func newDescBox(text string) *textbox.TextBox {
	tb := textbox.New()
	tb.SetHeight(textboxHeight)
	tb.SetText(text)
	return tb
}

// focusedInput resolves the single-line widget behind the current focus.
func (m *Model) focusedInput() *textinput.Model {
	if m.popup == uistate.PopupEditGeneralConfig {
		return &m.configInput
	}
	if m.popup == uistate.PopupCustomRGBPromptFG || m.popup == uistate.PopupCustomRGBPromptBG {
		return &m.rgbInput
	}
	switch m.focus {
	case uistate.FocusNewBoardName:
		return &m.boardNameInput
	case uistate.FocusNewBoardDescription:
		return &m.boardDescInput
	case uistate.FocusNewCardName, uistate.FocusCardName:
		return &m.cardNameInput
	case uistate.FocusNewCardDueDate, uistate.FocusCardDueDate:
		return &m.cardDueInput
	case uistate.FocusEmailField:
		return &m.emailInput
	case uistate.FocusPasswordField:
		return &m.passwordInput
	case uistate.FocusConfirmPasswordField:
		return &m.confirmPasswordInput
	case uistate.FocusCardTags:
		return &m.cardTagsInput
	case uistate.FocusCardComments:
		return &m.cardCommentInput
	default:
		return nil
	}
}

// focusedTextbox resolves the multi-line editor behind the current focus.
func (m *Model) focusedTextbox() *textbox.TextBox {
	switch m.focus {
	case uistate.FocusNewCardDescription:
		return m.cardDescBox
	case uistate.FocusCardDescription:
		return m.cardDescEdit
	default:
		return nil
	}
}

// focusActiveInput gives terminal focus to whichever widget the UI focus
// points at. Textboxes track their own cursor and need no command.
func (m *Model) focusActiveInput() tea.Cmd {
	if in := m.focusedInput(); in != nil {
		return in.Focus()
	}
	return nil
}

// handleUserInputKey routes keys while text entry is active.
func (m Model) handleUserInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.popup == uistate.PopupCommandPalette {
		return m.handlePaletteKey(msg)
	}
	if m.popup == uistate.PopupEditGeneralConfig {
		switch msg.String() {
		case "esc":
			m.status = uistate.StatusInitialized
			m.closePopup()
			return m, nil
		case "enter":
			return m.applyGeneralConfig()
		}
		var cmd tea.Cmd
		m.configInput, cmd = m.configInput.Update(msg)
		return m, cmd
	}
	if m.popup == uistate.PopupCustomRGBPromptFG || m.popup == uistate.PopupCustomRGBPromptBG {
		switch msg.String() {
		case "esc":
			m.status = uistate.StatusInitialized
			m.openPopup(uistate.PopupEditThemeStyle)
			return m, nil
		case "enter":
			return m.applyRGBPrompt()
		}
		var cmd tea.Cmd
		m.rgbInput, cmd = m.rgbInput.Update(msg)
		return m, cmd
	}

	if tb := m.focusedTextbox(); tb != nil {
		return m.handleTextboxKey(msg, tb)
	}

	switch msg.String() {
	case "esc":
		m.status = uistate.StatusInitialized
		if m.popup == uistate.PopupViewCard {
			m.blurInputs()
			if m.cardEditDirty() {
				m.openPopup(uistate.PopupConfirmDiscardCardChanges)
				m.focus = uistate.FocusSubmitButton
				return m, nil
			}
			m.closeCardView()
			return m, nil
		}
		if in := m.focusedInput(); in != nil {
			in.SetValue("")
		}
		m.blurInputs()
		return m, nil
	case "enter":
		if m.focus == uistate.FocusCardComments {
			m.appendComment()
			return m, nil
		}
		m.status = uistate.StatusInitialized
		m.blurInputs()
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case "tab":
		m.status = uistate.StatusInitialized
		m.blurInputs()
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	}

	in := m.focusedInput()
	if in == nil {
		m.status = uistate.StatusInitialized
		return m, nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	return m, cmd
}

// appendComment commits the comment field into the card being edited.
func (m *Model) appendComment() {
	text := strings.TrimSpace(m.cardCommentInput.Value())
	if text == "" || m.cardEdit == nil {
		return
	}
	m.cardEdit.Comments = append(m.cardEdit.Comments, text)
	m.cardCommentInput.SetValue("")
}

func (m *Model) blurInputs() {
	for _, in := range []*textinput.Model{
		&m.boardNameInput, &m.boardDescInput, &m.cardNameInput, &m.cardDueInput,
		&m.emailInput, &m.passwordInput, &m.confirmPasswordInput,
		&m.cardTagsInput, &m.cardCommentInput, &m.paletteInput,
		&m.rgbInput, &m.configInput,
	} {
		in.Blur()
	}
}

// handleTextboxKey translates terminal keys into textbox edits.
func (m Model) handleTextboxKey(msg tea.KeyPressMsg, tb *textbox.TextBox) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.status = uistate.StatusInitialized
		if m.popup == uistate.PopupViewCard {
			m.blurInputs()
			if m.cardEditDirty() {
				m.openPopup(uistate.PopupConfirmDiscardCardChanges)
				m.focus = uistate.FocusSubmitButton
				return m, nil
			}
			m.closeCardView()
			return m, nil
		}
		tb.SetText("")
		return m, nil
	case "enter":
		tb.InsertNewline()
	case "tab":
		tb.InsertTab()
	case "backspace":
		tb.DeleteChar()
	case "delete":
		tb.DeleteNextChar()
	case "up":
		tb.MoveCursor(textbox.MoveUp)
	case "down":
		tb.MoveCursor(textbox.MoveDown)
	case "left":
		tb.MoveCursor(textbox.MoveBack)
	case "right":
		tb.MoveCursor(textbox.MoveForward)
	case "shift+up":
		tb.MoveCursorWithSelection(textbox.MoveUp)
	case "shift+down":
		tb.MoveCursorWithSelection(textbox.MoveDown)
	case "shift+left":
		tb.MoveCursorWithSelection(textbox.MoveBack)
	case "shift+right":
		tb.MoveCursorWithSelection(textbox.MoveForward)
	case "home":
		tb.MoveCursor(textbox.MoveHead)
	case "end":
		tb.MoveCursor(textbox.MoveEnd)
	case "pgup":
		tb.MoveCursor(textbox.MovePageUp)
	case "pgdown":
		tb.MoveCursor(textbox.MovePageDown)
	case "alt+left":
		tb.MoveCursor(textbox.MoveWordBack)
	case "alt+right":
		tb.MoveCursor(textbox.MoveWordForward)
	case "ctrl+k":
		tb.DeleteLineToEnd()
	case "ctrl+u":
		tb.DeleteLineToHead()
	case "ctrl+w":
		tb.DeleteWord()
	case "alt+d":
		tb.DeleteNextWord()
	case "ctrl+c":
		tb.Copy()
	case "ctrl+x":
		tb.Cut()
	case "ctrl+v":
		tb.Paste()
	case "ctrl+z":
		tb.Undo()
	case "ctrl+y":
		tb.Redo()
	case "space":
		tb.InsertChar(' ')
	default:
		text := msg.String()
		if len([]rune(text)) == 1 {
			tb.InsertChar([]rune(text)[0])
		}
	}
	return m, nil
}
