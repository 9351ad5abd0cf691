package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/config"
	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/history"
	"github.com/hylla/kanto/internal/uistate"
)

// handleNormalKey routes keys while the app is in the Initialized status.
func (m Model) handleNormalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.popup != uistate.PopupNone {
		return m.handlePopupKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.quitting = true
		return m, tea.Batch(m.autoSaveCmd(), tea.Quit)

	case key.Matches(msg, m.keys.commandPalette):
		return m.togglePalette()

	case key.Matches(msg, m.keys.clearToasts):
		m.toasts = nil
		return m, nil

	case key.Matches(msg, m.keys.nextFocus):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.prevFocus):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.resetUI):
		m.setView(uistate.ViewTitleBodyHelpLog)
		m.theme = ThemeByName(m.cfg.DefaultTheme)
		m.refreshProjection()
		m.pushToast(ToastInfo, "UI reset", 0)
		return m, nil
	}

	if m.view.IsKanban() {
		return m.handleKanbanKey(msg)
	}

	switch m.view {
	case uistate.ViewMainMenu:
		return m.handleMainMenuKey(msg)
	case uistate.ViewConfigMenu:
		return m.handleConfigMenuKey(msg)
	case uistate.ViewEditKeybindings:
		return m.handleKeybindingsKey(msg)
	case uistate.ViewNewBoard, uistate.ViewNewCard:
		return m.handleFormViewKey(msg)
	case uistate.ViewLogin, uistate.ViewSignUp, uistate.ViewResetPassword:
		return m.handleAuthViewKey(msg)
	case uistate.ViewLoadLocalSave:
		return m.handleLoadLocalKey(msg)
	case uistate.ViewLoadCloudSave:
		return m.handleLoadCloudKey(msg)
	case uistate.ViewCreateTheme:
		return m.handleCreateThemeKey(msg)
	case uistate.ViewHelpMenu, uistate.ViewLogsOnly:
		if key.Matches(msg, m.keys.stopUserInput) || key.Matches(msg, m.keys.goToMainMenu) {
			m.setView(uistate.ViewMainMenu)
		}
		return m, nil
	default:
		return m, nil
	}
}

// handleKanbanKey covers the board body and its sibling panels.
func (m Model) handleKanbanKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.up):
		m.applyNav(m.proj.GoUp(m.workingBoards(), m.sel))
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.applyNav(m.proj.GoDown(m.workingBoards(), m.sel))
		return m, nil
	case key.Matches(msg, m.keys.left):
		m.applyNav(m.proj.GoLeft(m.workingBoards(), m.sel))
		return m, nil
	case key.Matches(msg, m.keys.right):
		m.applyNav(m.proj.GoRight(m.workingBoards(), m.sel))
		return m, nil

	case key.Matches(msg, m.keys.accept):
		if m.focus == uistate.FocusBody {
			return m.openCardView()
		}
		return m, nil

	case key.Matches(msg, m.keys.newBoard):
		m.startNewBoardForm()
		return m, nil

	case key.Matches(msg, m.keys.newCard):
		if len(m.boards) == 0 {
			m.pushToast(ToastWarning, "create a board first", 0)
			return m, nil
		}
		m.startNewCardForm()
		return m, nil

	case key.Matches(msg, m.keys.deleteCard):
		return m.deleteCurrentCard()

	case key.Matches(msg, m.keys.deleteBoard):
		return m.deleteCurrentBoard()

	case key.Matches(msg, m.keys.statusComplete):
		return m.setCurrentCardStatus(domain.StatusComplete)
	case key.Matches(msg, m.keys.statusActive):
		return m.setCurrentCardStatus(domain.StatusActive)
	case key.Matches(msg, m.keys.statusStale):
		return m.setCurrentCardStatus(domain.StatusStale)

	case key.Matches(msg, m.keys.saveState):
		return m.saveState()

	case key.Matches(msg, m.keys.undo):
		return m.undo()
	case key.Matches(msg, m.keys.redo):
		return m.redo()

	case key.Matches(msg, m.keys.filterByTag):
		m.startFilterPopup()
		return m, nil

	case key.Matches(msg, m.keys.goToMainMenu):
		m.setView(uistate.ViewMainMenu)
		m.mainMenuIndex = 0
		return m, nil

	case key.Matches(msg, m.keys.openConfigMenu):
		m.setView(uistate.ViewConfigMenu)
		m.configIndex = 0
		return m, nil

	case key.Matches(msg, m.keys.hideUIElement):
		m.hideFocusedElement()
		return m, nil

	default:
		return m, nil
	}
}

// applyNav commits a navigation result and raises its boundary toast.
func (m *Model) applyNav(res domain.NavResult) {
	m.sel = res.Selection
	if res.Notice != "" {
		m.pushToast(ToastWarning, res.Notice, 0)
	}
}

// hideFocusedElement removes the focused panel from the kanban layout.
func (m *Model) hideFocusedElement() {
	layouts := map[uistate.ViewMode]map[uistate.Focus]uistate.ViewMode{
		uistate.ViewTitleBodyHelpLog: {
			uistate.FocusTitle: uistate.ViewBodyHelpLog,
			uistate.FocusHelp:  uistate.ViewTitleBodyLog,
			uistate.FocusLog:   uistate.ViewTitleBodyHelp,
		},
		uistate.ViewTitleBodyHelp: {
			uistate.FocusTitle: uistate.ViewBodyHelp,
			uistate.FocusHelp:  uistate.ViewTitleBody,
		},
		uistate.ViewTitleBodyLog: {
			uistate.FocusTitle: uistate.ViewBodyLog,
			uistate.FocusLog:   uistate.ViewTitleBody,
		},
		uistate.ViewBodyHelpLog: {
			uistate.FocusHelp: uistate.ViewBodyLog,
			uistate.FocusLog:  uistate.ViewBodyHelp,
		},
		uistate.ViewTitleBody: {uistate.FocusTitle: uistate.ViewZen},
		uistate.ViewBodyHelp:  {uistate.FocusHelp: uistate.ViewZen},
		uistate.ViewBodyLog:   {uistate.FocusLog: uistate.ViewZen},
	}
	if next, ok := layouts[m.view][m.focus]; ok {
		m.setView(next)
	}
}

// mutations

func (m Model) deleteCurrentCard() (tea.Model, tea.Cmd) {
	board, card, ok := m.currentCard()
	if !ok {
		m.pushToast(ToastWarning, "no card selected", 0)
		return m, nil
	}
	target, ok := m.authoritativeBoard(board.ID)
	if !ok {
		m.pushToast(ToastError, "board no longer exists", 0)
		m.refreshProjection()
		return m, nil
	}
	removed, index, err := target.RemoveCard(card.ID)
	if err != nil {
		m.pushToast(ToastError, err.Error(), 0)
		return m, nil
	}
	m.hist.Record(history.DeleteCard(removed, target.ID, index))
	m.sel = m.sel.ClearCard()
	m.refreshProjection()
	m.pushToast(ToastInfo, "deleted card "+removed.Name, 0)
	m.logLine("deleted card " + removed.Name)
	return m, m.autoSaveCmd()
}

func (m Model) deleteCurrentBoard() (tea.Model, tea.Cmd) {
	board, ok := m.currentBoard()
	if !ok {
		m.pushToast(ToastWarning, "no board selected", 0)
		return m, nil
	}
	removed, index, err := m.boards.Remove(board.ID)
	if err != nil {
		m.pushToast(ToastError, err.Error(), 0)
		return m, nil
	}
	m.hist.Record(history.DeleteBoard(removed, index))
	m.sel = domain.Selection{}
	m.refreshProjection()
	m.pushToast(ToastInfo, "deleted board "+removed.Name, 0)
	m.logLine("deleted board " + removed.Name)
	return m, m.autoSaveCmd()
}

func (m Model) setCurrentCardStatus(status domain.CardStatus) (tea.Model, tea.Cmd) {
	board, card, ok := m.currentCard()
	if !ok {
		m.pushToast(ToastWarning, "no card selected", 0)
		return m, nil
	}
	target, ok := m.authoritativeBoard(board.ID)
	if !ok {
		m.refreshProjection()
		return m, nil
	}
	live, ok := target.Card(card.ID)
	if !ok {
		m.refreshProjection()
		return m, nil
	}
	before := *live
	if err := live.SetStatus(status, m.now()); err != nil {
		m.pushToast(ToastError, err.Error(), 0)
		return m, nil
	}
	m.hist.Record(history.EditCard(before, *live, target.ID))
	m.refreshProjection()
	m.pushToast(ToastInfo, fmt.Sprintf("%s is now %s", live.Name, status), 0)
	return m, m.autoSaveCmd()
}

func (m Model) saveState() (tea.Model, tea.Cmd) {
	if m.svc == nil {
		m.pushToast(ToastError, "saving is unavailable", 0)
		return m, nil
	}
	snapshot := cloneBoards(m.boards)
	svc := m.svc
	m.pushToast(ToastLoading, "saving...", 0)
	return m, m.enqueueIO(func(ctx context.Context) any {
		name, err := svc.SaveLocal(snapshot)
		return savedMsg{name: name, err: err}
	})
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	action, err := m.hist.Undo(&m.boards)
	if err != nil {
		if errors.Is(err, history.ErrNothingToUndo) {
			m.pushToast(ToastWarning, "nothing to undo", 0)
		} else {
			m.pushToast(ToastError, "undo failed: "+err.Error(), 0)
		}
		return m, nil
	}
	m.refreshProjection()
	m.pushToast(ToastInfo, "undid: "+action.Describe(), 0)
	return m, m.autoSaveCmd()
}

func (m Model) redo() (tea.Model, tea.Cmd) {
	action, err := m.hist.Redo(&m.boards)
	if err != nil {
		if errors.Is(err, history.ErrNothingToRedo) {
			m.pushToast(ToastWarning, "nothing to redo", 0)
		} else {
			m.pushToast(ToastError, "redo failed: "+err.Error(), 0)
		}
		return m, nil
	}
	m.refreshProjection()
	m.pushToast(ToastInfo, "redid: "+action.Describe(), 0)
	return m, m.autoSaveCmd()
}

// forms

func (m *Model) startNewBoardForm() {
	m.boardNameInput.SetValue("")
	m.boardDescInput.SetValue("")
	m.setView(uistate.ViewNewBoard)
	m.focus = uistate.FocusNewBoardName
}

func (m *Model) startNewCardForm() {
	m.cardNameInput.SetValue("")
	m.cardDueInput.SetValue("")
	m.cardDescBox.SetText("")
	m.setView(uistate.ViewNewCard)
	m.focus = uistate.FocusNewCardName
}

// handleFormViewKey covers the new-board and new-card form views outside
// text-entry status.
func (m Model) handleFormViewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.setView(m.prevView)
		return m, nil

	case key.Matches(msg, m.keys.up):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.down):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.takeUserInput):
		if m.formFieldEditable() {
			m.status = uistate.StatusUserInput
			return m, m.focusActiveInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.accept):
		if m.focus == uistate.FocusSubmitButton {
			if m.view == uistate.ViewNewBoard {
				return m.submitNewBoard()
			}
			return m.submitNewCard()
		}
		if m.formFieldEditable() {
			m.status = uistate.StatusUserInput
			return m, m.focusActiveInput()
		}
		return m, nil

	default:
		return m, nil
	}
}

// formFieldEditable reports whether the focused target is a text field.
func (m *Model) formFieldEditable() bool {
	switch m.focus {
	case uistate.FocusNewBoardName, uistate.FocusNewBoardDescription,
		uistate.FocusNewCardName, uistate.FocusNewCardDescription, uistate.FocusNewCardDueDate,
		uistate.FocusEmailField, uistate.FocusPasswordField, uistate.FocusConfirmPasswordField,
		uistate.FocusCardName, uistate.FocusCardDescription, uistate.FocusCardDueDate,
		uistate.FocusCardTags, uistate.FocusCardComments, uistate.FocusTextInput:
		return true
	}
	return false
}

func (m Model) submitNewBoard() (tea.Model, tea.Cmd) {
	board, err := domain.NewBoard(m.boardNameInput.Value(), m.boardDescInput.Value())
	if err != nil {
		m.pushToast(ToastWarning, "board name must not be empty", 0)
		return m, nil
	}
	m.boards = append(m.boards, board)
	m.hist.Record(history.CreateBoard(board))
	m.clearFilter()
	m.refreshProjection()
	m.sel = domain.Selection{}.WithBoard(board.ID)
	m.sel = m.proj.EnsureSelection(m.workingBoards(), m.sel)
	m.setView(m.prevView)
	m.pushToast(ToastInfo, "created board "+board.Name, 0)
	m.logLine("created board " + board.Name)
	return m, m.autoSaveCmd()
}

func (m Model) submitNewCard() (tea.Model, tea.Cmd) {
	board, ok := m.currentBoard()
	if !ok {
		if len(m.boards) == 0 {
			m.pushToast(ToastWarning, "create a board first", 0)
			return m, nil
		}
		board = &m.boards[0]
	}
	target, ok := m.authoritativeBoard(board.ID)
	if !ok {
		m.pushToast(ToastError, "board no longer exists", 0)
		return m, nil
	}

	due := m.normalizeDueDate(m.cardDueInput.Value())
	card, err := domain.NewCard(domain.CardInput{
		Name:        m.cardNameInput.Value(),
		Description: m.cardDescBox.Text(),
		DueDate:     due,
	}, m.now())
	if err != nil {
		m.pushToast(ToastWarning, "card name must not be empty", 0)
		return m, nil
	}
	if err := target.AddCard(card); err != nil {
		m.pushToast(ToastWarning, "a card with that name already exists on this board", 0)
		return m, nil
	}
	m.hist.Record(history.CreateCard(card, target.ID))
	m.clearFilter()
	m.refreshProjection()
	m.sel = m.proj.EnsureSelection(m.workingBoards(), m.sel.WithBoard(target.ID).WithCard(card.ID))
	m.setView(m.prevView)
	m.pushToast(ToastInfo, "created card "+card.Name, 0)
	m.logLine("created card " + card.Name)
	return m, m.autoSaveCmd()
}

// normalizeDueDate reformats a raw due date under the configured format,
// degrading to unset with a warning when it does not parse.
func (m *Model) normalizeDueDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == domain.FieldNotSet {
		return ""
	}
	format := domain.DateTimeFormat(m.cfg.DateTimeFormat)
	if ts, ok := domain.ParseDueDate(raw, format); ok {
		return ts.Format(format.Layout())
	}
	m.pushToast(ToastWarning, fmt.Sprintf("could not parse due date %q, leaving it unset", raw), 0)
	return ""
}

// card view popup

func (m Model) openCardView() (tea.Model, tea.Cmd) {
	board, card, ok := m.currentCard()
	if !ok {
		m.pushToast(ToastWarning, "no card selected", 0)
		return m, nil
	}
	edit := *card
	edit.Tags = append([]string(nil), card.Tags...)
	edit.Comments = append([]string(nil), card.Comments...)
	m.cardEdit = &edit
	m.cardEditBase = *card
	m.cardEditBase.Tags = append([]string(nil), card.Tags...)
	m.cardEditBase.Comments = append([]string(nil), card.Comments...)
	m.cardEditBoardID = board.ID

	m.cardNameInput.SetValue(card.Name)
	m.cardDueInput.SetValue(card.DueDate)
	m.cardTagsInput.SetValue(strings.Join(card.Tags, ", "))
	m.cardCommentInput.SetValue("")
	m.cardDescEdit = newDescBox(card.Description)

	m.openPopup(uistate.PopupViewCard)
	m.focus = uistate.FocusCardName
	return m, nil
}

// cardEditDirty reports whether the popup holds uncommitted edits.
func (m *Model) cardEditDirty() bool {
	if m.cardEdit == nil {
		return false
	}
	pending := m.pendingCardEdit()
	base := m.cardEditBase
	if pending.Name != base.Name || pending.Description != base.Description ||
		pending.DueDate != base.DueDate || pending.Status != base.Status ||
		pending.Priority != base.Priority {
		return true
	}
	if len(pending.Tags) != len(base.Tags) || len(pending.Comments) != len(base.Comments) {
		return true
	}
	for i := range pending.Tags {
		if pending.Tags[i] != base.Tags[i] {
			return true
		}
	}
	for i := range pending.Comments {
		if pending.Comments[i] != base.Comments[i] {
			return true
		}
	}
	return false
}

// pendingCardEdit folds the live field widgets into the edit copy.
func (m *Model) pendingCardEdit() domain.Card {
	card := *m.cardEdit
	card.Name = strings.TrimSpace(m.cardNameInput.Value())
	card.Description = m.cardDescEdit.Text()
	card.DueDate = strings.TrimSpace(m.cardDueInput.Value())
	if card.DueDate == "" {
		card.DueDate = domain.FieldNotSet
	}
	card.Tags = splitTags(m.cardTagsInput.Value())
	return card
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func (m Model) commitCardEdit() (tea.Model, tea.Cmd) {
	if m.cardEdit == nil {
		m.closePopup()
		return m, nil
	}
	target, ok := m.authoritativeBoard(m.cardEditBoardID)
	if !ok {
		m.pushToast(ToastError, "board no longer exists", 0)
		m.closeCardView()
		return m, nil
	}
	pending := m.pendingCardEdit()
	if pending.Name == "" {
		m.pushToast(ToastWarning, "card name must not be empty", 0)
		return m, nil
	}
	if pending.DueDate != domain.FieldNotSet {
		pending.DueDate = m.normalizeDueDate(pending.DueDate)
		if pending.DueDate == "" {
			pending.DueDate = domain.FieldNotSet
		}
	}
	before := m.cardEditBase
	if err := target.ReplaceCard(pending, m.now()); err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			m.pushToast(ToastWarning, "a card with that name already exists on this board", 0)
			return m, nil
		}
		m.pushToast(ToastError, err.Error(), 0)
		return m, nil
	}
	live, _ := target.Card(pending.ID)
	m.hist.Record(history.EditCard(before, *live, target.ID))
	m.refreshProjection()
	m.pushToast(ToastInfo, "updated card "+pending.Name, 0)
	m.logLine("updated card " + pending.Name)
	m.closeCardView()
	return m, m.autoSaveCmd()
}

func (m *Model) closeCardView() {
	m.cardEdit = nil
	m.cardDescEdit = nil
	m.closePopup()
}

// popups

func (m Model) handlePopupKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.popup {
	case uistate.PopupViewCard:
		return m.handleCardViewKey(msg)
	case uistate.PopupConfirmDiscardCardChanges:
		return m.handleConfirmDiscardKey(msg)
	case uistate.PopupCommandPalette:
		return m.handlePaletteKey(msg)
	case uistate.PopupCardStatusSelector:
		return m.handleListSelectorKey(msg, len(domain.AllStatuses()), &m.statusIndex, m.applyStatusSelection)
	case uistate.PopupCardPrioritySelector:
		return m.handleListSelectorKey(msg, len(domain.AllPriorities()), &m.priorityIndex, m.applyPrioritySelection)
	case uistate.PopupChangeUIMode:
		return m.handleListSelectorKey(msg, len(uistate.SelectableViews()), &m.viewModeIndex, m.applyViewSelection)
	case uistate.PopupSelectDefaultView:
		return m.handleListSelectorKey(msg, len(uistate.SelectableViews()), &m.viewModeIndex, m.applyDefaultViewSelection)
	case uistate.PopupChangeDateFormat:
		return m.handleListSelectorKey(msg, len(domain.AllDateTimeFormats()), &m.dateFormatIndex, m.applyDateFormatSelection)
	case uistate.PopupChangeTheme:
		return m.handleListSelectorKey(msg, len(m.allThemes()), &m.themeIndex, m.applyThemeSelection)
	case uistate.PopupFilterByTag:
		return m.handleFilterPopupKey(msg)
	case uistate.PopupEditThemeStyle:
		return m.handleThemeStyleKey(msg)
	case uistate.PopupCustomRGBPromptFG, uistate.PopupCustomRGBPromptBG:
		return m.handleRGBPromptKey(msg)
	case uistate.PopupSaveTheme:
		return m.handleSaveThemeKey(msg)
	case uistate.PopupEditGeneralConfig:
		return m.handleGeneralConfigKey(msg)
	case uistate.PopupEditSpecificKeybinding:
		if key.Matches(msg, m.keys.stopUserInput) {
			m.closePopup()
			return m, nil
		}
		if key.Matches(msg, m.keys.accept) {
			m.status = uistate.StatusKeyBindMode
			m.pushToast(ToastInfo, "press the new key for "+m.keybindAction, 0)
			return m, nil
		}
		return m, nil
	default:
		m.closePopup()
		return m, nil
	}
}

func (m Model) handleCardViewKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		if m.cardEditDirty() {
			m.openPopup(uistate.PopupConfirmDiscardCardChanges)
			m.focus = uistate.FocusSubmitButton
			return m, nil
		}
		m.closeCardView()
		return m, nil

	case key.Matches(msg, m.keys.commandPalette):
		if m.cardEditDirty() {
			m.openPopup(uistate.PopupConfirmDiscardCardChanges)
			m.focus = uistate.FocusSubmitButton
			return m, nil
		}
		m.closeCardView()
		return m.togglePalette()

	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.down):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.prevFocus), key.Matches(msg, m.keys.up):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.takeUserInput):
		if m.formFieldEditable() {
			m.status = uistate.StatusUserInput
			return m, m.focusActiveInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.accept):
		switch m.focus {
		case uistate.FocusSubmitButton:
			return m.commitCardEdit()
		case uistate.FocusCardStatus:
			m.statusIndex = indexOfStatus(m.pendingStatus())
			m.openPopup(uistate.PopupCardStatusSelector)
			return m, nil
		case uistate.FocusCardPriority:
			m.priorityIndex = indexOfPriority(m.pendingPriority())
			m.openPopup(uistate.PopupCardPrioritySelector)
			return m, nil
		default:
			if m.formFieldEditable() {
				m.status = uistate.StatusUserInput
				return m, m.focusActiveInput()
			}
			return m, nil
		}

	default:
		return m, nil
	}
}

func (m *Model) pendingStatus() domain.CardStatus {
	if m.cardEdit != nil {
		return m.cardEdit.Status
	}
	return domain.StatusActive
}

func (m *Model) pendingPriority() domain.CardPriority {
	if m.cardEdit != nil {
		return m.cardEdit.Priority
	}
	return domain.PriorityMedium
}

func indexOfStatus(status domain.CardStatus) int {
	for i, s := range domain.AllStatuses() {
		if s == status {
			return i
		}
	}
	return 0
}

func indexOfPriority(priority domain.CardPriority) int {
	for i, p := range domain.AllPriorities() {
		if p == priority {
			return i
		}
	}
	return 0
}

func (m Model) handleConfirmDiscardKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.prevFocus),
		key.Matches(msg, m.keys.left), key.Matches(msg, m.keys.right):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil

	case key.Matches(msg, m.keys.stopUserInput):
		// Back to the card view with edits intact.
		m.openPopup(uistate.PopupViewCard)
		m.focus = uistate.FocusCardName
		return m, nil

	case key.Matches(msg, m.keys.accept):
		if m.focus == uistate.FocusSubmitButton {
			// Submit = save the pending edits.
			m.openPopup(uistate.PopupViewCard)
			return m.commitCardEdit()
		}
		// Extra focus = discard.
		m.pushToast(ToastInfo, "discarded changes", 0)
		m.closeCardView()
		return m, nil

	default:
		return m, nil
	}
}

// handleListSelectorKey drives the single-column selector popups.
func (m Model) handleListSelectorKey(msg tea.KeyPressMsg, length int, index *int, apply func() (tea.Model, tea.Cmd)) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		if m.cardEdit != nil {
			m.openPopup(uistate.PopupViewCard)
		} else {
			m.closePopup()
		}
		return m, nil
	case key.Matches(msg, m.keys.up):
		*index = (*index - 1 + length) % length
		return m, nil
	case key.Matches(msg, m.keys.down):
		*index = (*index + 1) % length
		return m, nil
	case key.Matches(msg, m.keys.accept):
		return apply()
	default:
		return m, nil
	}
}

func (m Model) applyStatusSelection() (tea.Model, tea.Cmd) {
	status := domain.AllStatuses()[clamp(m.statusIndex, 0, len(domain.AllStatuses())-1)]
	if m.cardEdit != nil {
		if err := m.cardEdit.SetStatus(status, m.now()); err != nil {
			m.pushToast(ToastError, err.Error(), 0)
		}
		m.openPopup(uistate.PopupViewCard)
		m.focus = uistate.FocusCardStatus
		return m, nil
	}
	m.closePopup()
	return m.setCurrentCardStatus(status)
}

func (m Model) applyPrioritySelection() (tea.Model, tea.Cmd) {
	priority := domain.AllPriorities()[clamp(m.priorityIndex, 0, len(domain.AllPriorities())-1)]
	if m.cardEdit != nil {
		if err := m.cardEdit.SetPriority(priority, m.now()); err != nil {
			m.pushToast(ToastError, err.Error(), 0)
		}
		m.openPopup(uistate.PopupViewCard)
		m.focus = uistate.FocusCardPriority
		return m, nil
	}
	m.closePopup()
	return m, nil
}

func (m Model) applyViewSelection() (tea.Model, tea.Cmd) {
	views := uistate.SelectableViews()
	m.closePopup()
	m.setView(views[clamp(m.viewModeIndex, 0, len(views)-1)])
	return m, nil
}

func (m Model) applyDefaultViewSelection() (tea.Model, tea.Cmd) {
	views := uistate.SelectableViews()
	selected := views[clamp(m.viewModeIndex, 0, len(views)-1)]
	m.cfg.DefaultView = selected.String()
	m.closePopup()
	m.pushToast(ToastInfo, "default view set to "+selected.String(), 0)
	return m, m.saveConfigCmd()
}

func (m Model) applyDateFormatSelection() (tea.Model, tea.Cmd) {
	formats := domain.AllDateTimeFormats()
	selected := formats[clamp(m.dateFormatIndex, 0, len(formats)-1)]
	m.cfg.DateTimeFormat = string(selected)
	m.closePopup()
	m.pushToast(ToastInfo, "date format set to "+string(selected), 0)
	return m, m.saveConfigCmd()
}

func (m Model) applyThemeSelection() (tea.Model, tea.Cmd) {
	themes := m.allThemes()
	selected := themes[clamp(m.themeIndex, 0, len(themes)-1)]
	m.theme = selected
	m.cfg.DefaultTheme = selected.Name
	m.closePopup()
	m.pushToast(ToastInfo, "theme set to "+selected.Name, 0)
	return m, m.saveConfigCmd()
}

// saveConfigCmd persists the config file in the background.
func (m *Model) saveConfigCmd() tea.Cmd {
	if m.svc == nil || m.runner == nil {
		return nil
	}
	cfg := m.cfg
	path := m.svc.Paths.ConfigPath
	return m.enqueueIO(func(ctx context.Context) any {
		if err := config.Save(path, cfg); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{}
	})
}

// filter popup

func (m *Model) startFilterPopup() {
	tags := m.boards.AllTags()
	if len(tags) == 0 {
		m.pushToast(ToastWarning, "no tags to filter by", 0)
		return
	}
	m.filterChoices = tags
	m.filterSelected = map[string]bool{}
	for _, tag := range m.filterTags {
		m.filterSelected[tag] = true
	}
	m.filterIndex = 0
	m.openPopup(uistate.PopupFilterByTag)
}

func (m Model) handleFilterPopupKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.stopUserInput):
		m.closePopup()
		return m, nil
	case key.Matches(msg, m.keys.up):
		if len(m.filterChoices) > 0 {
			m.filterIndex = (m.filterIndex - 1 + len(m.filterChoices)) % len(m.filterChoices)
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if len(m.filterChoices) > 0 {
			m.filterIndex = (m.filterIndex + 1) % len(m.filterChoices)
		}
		return m, nil
	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.prevFocus):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		return m, nil
	case key.Matches(msg, m.keys.accept):
		if m.focus == uistate.FocusSubmitButton {
			return m.applyFilterSelection()
		}
		if len(m.filterChoices) > 0 {
			tag := m.filterChoices[m.filterIndex]
			m.filterSelected[tag] = !m.filterSelected[tag]
		}
		return m, nil
	case key.Matches(msg, m.keys.filterByTag):
		m.clearFilter()
		m.closePopup()
		m.pushToast(ToastInfo, "filter cleared", 0)
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) applyFilterSelection() (tea.Model, tea.Cmd) {
	var tags []string
	for _, tag := range m.filterChoices {
		if m.filterSelected[tag] {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		m.pushToast(ToastWarning, "select at least one tag", 0)
		return m, nil
	}
	filtered, err := m.boards.FilterByTags(tags)
	if err != nil {
		m.pushToast(ToastWarning, err.Error(), 0)
		return m, nil
	}
	m.filterTags = tags
	m.filtered = filtered
	m.proj.Refresh(m.filtered)
	m.sel = m.proj.EnsureSelection(m.filtered, domain.Selection{})
	m.closePopup()
	m.pushToast(ToastInfo, fmt.Sprintf("filtering by %s", strings.Join(tags, ", ")), 0)
	return m, nil
}

// command palette

func (m Model) togglePalette() (tea.Model, tea.Cmd) {
	if m.popup == uistate.PopupCommandPalette {
		m.closePopup()
		m.status = uistate.StatusInitialized
		return m, nil
	}
	m.paletteInput.SetValue("")
	m.paletteCmds = filterPaletteCommands("")
	m.paletteCards = nil
	m.paletteBoards = nil
	m.paletteIndex = 0
	m.openPopup(uistate.PopupCommandPalette)
	m.focus = uistate.FocusCommandPaletteCommand
	m.status = uistate.StatusUserInput
	return m, m.paletteInput.Focus()
}

func (m *Model) refreshPaletteMatches() {
	query := m.paletteInput.Value()
	m.paletteCmds = filterPaletteCommands(query)
	m.paletteCards = searchCards(m.boards, query)
	m.paletteBoards = searchBoards(m.boards, query)
	m.paletteIndex = 0
}

// paletteSectionLen returns the match count for the focused section.
func (m *Model) paletteSectionLen() int {
	switch m.focus {
	case uistate.FocusCommandPaletteCard:
		return len(m.paletteCards)
	case uistate.FocusCommandPaletteBoard:
		return len(m.paletteBoards)
	default:
		return len(m.paletteCmds)
	}
}

func (m Model) handlePaletteKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.commandPalette), key.Matches(msg, m.keys.stopUserInput):
		m.closePopup()
		m.status = uistate.StatusInitialized
		return m, nil

	case key.Matches(msg, m.keys.nextFocus):
		m.focus = uistate.Next(m.view, m.popup, m.focus)
		m.paletteIndex = 0
		return m, nil
	case key.Matches(msg, m.keys.prevFocus):
		m.focus = uistate.Prev(m.view, m.popup, m.focus)
		m.paletteIndex = 0
		return m, nil

	case key.Matches(msg, m.keys.up):
		if n := m.paletteSectionLen(); n > 0 {
			m.paletteIndex = (m.paletteIndex - 1 + n) % n
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if n := m.paletteSectionLen(); n > 0 {
			m.paletteIndex = (m.paletteIndex + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.accept):
		return m.runPaletteSelection()

	default:
		var cmd tea.Cmd
		m.paletteInput, cmd = m.paletteInput.Update(msg)
		m.refreshPaletteMatches()
		return m, cmd
	}
}

func (m Model) runPaletteSelection() (tea.Model, tea.Cmd) {
	switch m.focus {
	case uistate.FocusCommandPaletteCard:
		if m.paletteIndex < len(m.paletteCards) {
			match := m.paletteCards[m.paletteIndex]
			m.closePopup()
			m.status = uistate.StatusInitialized
			m.jumpToCard(match.BoardID, match.CardID)
		}
		return m, nil
	case uistate.FocusCommandPaletteBoard:
		if m.paletteIndex < len(m.paletteBoards) {
			match := m.paletteBoards[m.paletteIndex]
			m.closePopup()
			m.status = uistate.StatusInitialized
			m.jumpToBoard(match.BoardID)
		}
		return m, nil
	default:
		if m.paletteIndex >= len(m.paletteCmds) {
			return m, nil
		}
		selected := m.paletteCmds[m.paletteIndex]
		m.closePopup()
		m.status = uistate.StatusInitialized
		return m.runCommand(selected.ID)
	}
}

// jumpToBoard re-anchors the projection so the board is visible.
func (m *Model) jumpToBoard(boardID uuid.UUID) {
	m.clearFilter()
	m.proj.Refresh(m.boards)
	for {
		if m.proj.Contains(boardID) {
			break
		}
		res := m.proj.GoRight(m.boards, m.sel)
		if res.Notice != "" {
			break
		}
		m.sel = res.Selection
	}
	m.sel = m.proj.EnsureSelection(m.boards, domain.Selection{}.WithBoard(boardID))
}

func (m *Model) jumpToCard(boardID, cardID uuid.UUID) {
	m.jumpToBoard(boardID)
	board, ok := m.boards.Get(boardID)
	if !ok {
		return
	}
	idx := board.CardIndex(cardID)
	if idx < 0 {
		return
	}
	for {
		cards, _ := m.proj.CardsFor(boardID)
		if containsID(cards, cardID) {
			break
		}
		res := m.proj.GoDown(m.boards, m.sel)
		if res.Notice != "" {
			break
		}
		m.sel = res.Selection
	}
	m.sel = m.proj.EnsureSelection(m.boards, domain.Selection{}.WithBoard(boardID).WithCard(cardID))
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func (m Model) runCommand(id paletteCommandID) (tea.Model, tea.Cmd) {
	switch id {
	case cmdQuit:
		m.quitting = true
		return m, tea.Batch(m.autoSaveCmd(), tea.Quit)
	case cmdOpenMainMenu:
		m.setView(uistate.ViewMainMenu)
		m.mainMenuIndex = 0
		return m, nil
	case cmdOpenConfigMenu:
		m.setView(uistate.ViewConfigMenu)
		m.configIndex = 0
		return m, nil
	case cmdChangeView:
		m.viewModeIndex = 0
		m.openPopup(uistate.PopupChangeUIMode)
		return m, nil
	case cmdChangeTheme:
		m.themeIndex = 0
		m.openPopup(uistate.PopupChangeTheme)
		return m, nil
	case cmdChangeDateFormat:
		m.dateFormatIndex = 0
		m.openPopup(uistate.PopupChangeDateFormat)
		return m, nil
	case cmdEditKeybindings:
		m.setView(uistate.ViewEditKeybindings)
		m.keybindIndex = 0
		return m, nil
	case cmdCreateTheme:
		m.themeEdit = m.theme.Clone()
		m.themeEdit.Name = "Custom Theme"
		m.themeSlotIndex = 0
		m.setView(uistate.ViewCreateTheme)
		return m, nil
	case cmdNewBoard:
		m.startNewBoardForm()
		return m, nil
	case cmdNewCard:
		if len(m.boards) == 0 {
			m.pushToast(ToastWarning, "create a board first", 0)
			return m, nil
		}
		m.startNewCardForm()
		return m, nil
	case cmdDeleteCard:
		return m.deleteCurrentCard()
	case cmdDeleteBoard:
		return m.deleteCurrentBoard()
	case cmdSaveState:
		return m.saveState()
	case cmdLoadLocalSave:
		return m.openLocalSaves()
	case cmdLoadCloudSave:
		return m.openCloudSaves()
	case cmdUndo:
		return m.undo()
	case cmdRedo:
		return m.redo()
	case cmdFilterByTag:
		m.startFilterPopup()
		return m, nil
	case cmdClearFilter:
		m.clearFilter()
		m.pushToast(ToastInfo, "filter cleared", 0)
		return m, nil
	case cmdLogin:
		m.startAuthView(uistate.ViewLogin)
		return m, nil
	case cmdSignUp:
		m.startAuthView(uistate.ViewSignUp)
		return m, nil
	case cmdLogout:
		return m.logout()
	case cmdSyncToCloud:
		return m.syncToCloud()
	case cmdResetUI:
		m.setView(uistate.ViewTitleBodyHelpLog)
		m.theme = ThemeByName(m.cfg.DefaultTheme)
		m.refreshProjection()
		return m, nil
	default:
		return m, nil
	}
}
