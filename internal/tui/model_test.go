package tui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/config"
	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/uistate"
)

func testConfig() config.Config {
	cfg := config.Default("saves")
	cfg.AutoSave = false
	cfg.AlwaysLoadLastSave = false
	cfg.AutoLogin = false
	return cfg
}

func testBoardSet(t *testing.T) domain.Boards {
	t.Helper()
	now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	backlog, err := domain.NewBoard("Backlog", "incoming work")
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	doing, err := domain.NewBoard("Doing", "")
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	for _, in := range []domain.CardInput{
		{Name: "triage inbox", Tags: []string{"ops"}},
		{Name: "write release notes", Tags: []string{"docs"}},
		{Name: "fix login flake", Tags: []string{"ops", "bug"}},
	} {
		card, err := domain.NewCard(in, now)
		if err != nil {
			t.Fatalf("NewCard() error = %v", err)
		}
		if err := backlog.AddCard(card); err != nil {
			t.Fatalf("AddCard() error = %v", err)
		}
	}
	card, err := domain.NewCard(domain.CardInput{Name: "ship v2", Tags: []string{"docs"}}, now)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if err := doing.AddCard(card); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	return domain.Boards{backlog, doing}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(testConfig(), WithBoards(testBoardSet(t)))
	return applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		if msg == nil {
			break
		}
		if _, isTick := msg.(tickMsg); isTick {
			break
		}
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func hasToast(m Model, kind ToastKind) bool {
	for _, toast := range m.toasts {
		if toast.Kind == kind {
			return true
		}
	}
	return false
}

// TestInitialSelection verifies behavior for the covered scenario.
func TestInitialSelection(t *testing.T) {
	m := newTestModel(t)
	if m.sel.BoardID == nil || *m.sel.BoardID != m.boards[0].ID {
		t.Fatalf("expected first board selected")
	}
	if m.sel.CardID == nil || *m.sel.CardID != m.boards[0].Cards[0].ID {
		t.Fatalf("expected first card selected")
	}
}

// TestNavigationBoundaryToast verifies behavior for the covered scenario.
func TestNavigationBoundaryToast(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	if !hasToast(m, ToastWarning) {
		t.Fatalf("expected boundary toast on left at first board")
	}
	if *m.sel.BoardID != m.boards[0].ID {
		t.Fatalf("selection moved past the first board")
	}

	m.toasts = nil
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if *m.sel.BoardID != m.boards[1].ID {
		t.Fatalf("expected right to select the second board")
	}
	if hasToast(m, ToastWarning) {
		t.Fatalf("unexpected toast on a legal move")
	}
}

// TestNewBoardFlow verifies behavior for the covered scenario.
func TestNewBoardFlow(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, keyRune('b'))
	if m.view != uistate.ViewNewBoard {
		t.Fatalf("expected new board view, got %v", m.view)
	}
	if m.focus != uistate.FocusNewBoardName {
		t.Fatalf("expected name field focused, got %v", m.focus)
	}

	m = applyMsg(t, m, keyRune('i'))
	if m.status != uistate.StatusUserInput {
		t.Fatalf("expected user input status")
	}
	m = typeText(t, m, "Ops")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != uistate.StatusInitialized {
		t.Fatalf("expected enter to leave input mode")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.focus != uistate.FocusSubmitButton {
		t.Fatalf("expected submit focus, got %v", m.focus)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(m.boards) != 3 {
		t.Fatalf("expected 3 boards after submit, got %d", len(m.boards))
	}
	if m.boards[2].Name != "Ops" {
		t.Fatalf("expected new board named Ops, got %q", m.boards[2].Name)
	}
	if !m.view.IsKanban() {
		t.Fatalf("expected return to kanban view, got %v", m.view)
	}
	if !m.hist.CanUndo() {
		t.Fatalf("expected board creation recorded in history")
	}
}

// TestEmptyBoardNameRejected verifies behavior for the covered scenario.
func TestEmptyBoardNameRejected(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, keyRune('b'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.focus != uistate.FocusSubmitButton {
		t.Fatalf("expected submit focus, got %v", m.focus)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(m.boards) != 2 {
		t.Fatalf("empty name must not create a board")
	}
	if !hasToast(m, ToastWarning) {
		t.Fatalf("expected validation toast")
	}
}

// TestEscapeClearsFocusedField verifies behavior for the covered scenario.
func TestEscapeClearsFocusedField(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, keyRune('b'))
	m = applyMsg(t, m, keyRune('i'))
	m = typeText(t, m, "Ops")
	if m.boardNameInput.Value() != "Ops" {
		t.Fatalf("expected typed name, got %q", m.boardNameInput.Value())
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.status != uistate.StatusInitialized {
		t.Fatalf("expected input mode exited")
	}
	if m.boardNameInput.Value() != "" {
		t.Fatalf("expected name field cleared, got %q", m.boardNameInput.Value())
	}
}

// TestDeleteCardUndoRedo verifies behavior for the covered scenario.
func TestDeleteCardUndoRedo(t *testing.T) {
	m := newTestModel(t)
	first := m.boards[0].Cards[0]

	m = applyMsg(t, m, keyRune('d'))
	if len(m.boards[0].Cards) != 2 {
		t.Fatalf("expected 2 cards after delete, got %d", len(m.boards[0].Cards))
	}

	m = applyMsg(t, m, keyRune('u'))
	if len(m.boards[0].Cards) != 3 {
		t.Fatalf("expected undo to restore the card")
	}
	if m.boards[0].Cards[0].ID != first.ID {
		t.Fatalf("expected the card restored at its original index")
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'r', Mod: tea.ModCtrl})
	if len(m.boards[0].Cards) != 2 {
		t.Fatalf("expected redo to delete the card again")
	}
}

// TestUndoEmptyLogToast verifies behavior for the covered scenario.
func TestUndoEmptyLogToast(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, keyRune('u'))
	if !hasToast(m, ToastWarning) {
		t.Fatalf("expected a toast when there is nothing to undo")
	}
}

// TestStatusQuickKeys verifies behavior for the covered scenario.
func TestStatusQuickKeys(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, keyRune('1'))
	if m.boards[0].Cards[0].Status != domain.StatusComplete {
		t.Fatalf("expected complete, got %v", m.boards[0].Cards[0].Status)
	}
	if m.boards[0].Cards[0].CompletedAt == nil {
		t.Fatalf("expected completion timestamp")
	}

	m = applyMsg(t, m, keyRune('3'))
	if m.boards[0].Cards[0].Status != domain.StatusStale {
		t.Fatalf("expected stale, got %v", m.boards[0].Cards[0].Status)
	}
	if m.boards[0].Cards[0].CompletedAt != nil {
		t.Fatalf("expected completion timestamp cleared")
	}

	if !m.hist.CanUndo() {
		t.Fatalf("expected status changes recorded in history")
	}
}

// TestFilterByTag verifies behavior for the covered scenario.
func TestFilterByTag(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, keyRune('f'))
	if m.popup != uistate.PopupFilterByTag {
		t.Fatalf("expected filter popup, got %v", m.popup)
	}
	// Choices are sorted; pick "docs".
	for i, tag := range m.filterChoices {
		if tag == "docs" {
			m.filterIndex = i
		}
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !m.filterSelected["docs"] {
		t.Fatalf("expected docs toggled on")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != uistate.FocusSubmitButton {
		t.Fatalf("expected submit focus, got %v", m.focus)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.popup != uistate.PopupNone {
		t.Fatalf("expected popup closed after apply")
	}
	working := m.workingBoards()
	total := 0
	for _, board := range working {
		for _, card := range board.Cards {
			total++
			if !card.HasAnyTag([]string{"docs"}) {
				t.Fatalf("filtered set contains untagged card %q", card.Name)
			}
		}
	}
	if total != 2 {
		t.Fatalf("expected 2 docs cards, got %d", total)
	}
	if len(m.boards[0].Cards) != 3 {
		t.Fatalf("filtering must not mutate the authoritative set")
	}

	// f inside the popup clears the filter.
	m = applyMsg(t, m, keyRune('f'))
	m = applyMsg(t, m, keyRune('f'))
	if len(m.filterTags) != 0 || len(m.filtered) != 0 {
		t.Fatalf("expected filter cleared")
	}
}

// TestMutationUnderFilterTargetsAuthoritativeSet verifies behavior for the covered scenario.
func TestMutationUnderFilterTargetsAuthoritativeSet(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, keyRune('f'))
	for i, tag := range m.filterChoices {
		if tag == "ops" {
			m.filterIndex = i
		}
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	before := len(m.boards[0].Cards)
	m = applyMsg(t, m, keyRune('d'))
	if len(m.boards[0].Cards) != before-1 {
		t.Fatalf("expected delete under filter to reach the authoritative set")
	}
}

// TestCardEditDiscardFlow verifies behavior for the covered scenario.
func TestCardEditDiscardFlow(t *testing.T) {
	m := newTestModel(t)
	original := m.boards[0].Cards[0].Name

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.popup != uistate.PopupViewCard {
		t.Fatalf("expected card popup, got %v", m.popup)
	}

	m = applyMsg(t, m, keyRune('i'))
	m = typeText(t, m, "X")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.status != uistate.StatusInitialized {
		t.Fatalf("expected input mode exited")
	}
	if m.popup != uistate.PopupConfirmDiscardCardChanges {
		t.Fatalf("expected confirm popup on dirty close, got %v", m.popup)
	}
	if m.focus != uistate.FocusSubmitButton {
		t.Fatalf("expected submit focused in confirm popup")
	}

	// Tab to the discard option and confirm.
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.popup != uistate.PopupNone {
		t.Fatalf("expected popups closed after discard")
	}
	if m.boards[0].Cards[0].Name != original {
		t.Fatalf("discard must leave the card untouched")
	}
	if m.hist.CanUndo() {
		t.Fatalf("discard must not touch history")
	}
}

// TestCardEditSaveFlow verifies behavior for the covered scenario.
func TestCardEditSaveFlow(t *testing.T) {
	m := newTestModel(t)
	original := m.boards[0].Cards[0].Name

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	m = applyMsg(t, m, keyRune('i'))
	m = typeText(t, m, "!")

	// Dirty close, keep the submit focus, save.
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.popup != uistate.PopupNone {
		t.Fatalf("expected popups closed after save")
	}
	if m.boards[0].Cards[0].Name != original+"!" {
		t.Fatalf("expected edited name, got %q", m.boards[0].Cards[0].Name)
	}
	if !m.hist.CanUndo() {
		t.Fatalf("expected one history record for the edit")
	}

	m = applyMsg(t, m, keyRune('u'))
	if m.boards[0].Cards[0].Name != original {
		t.Fatalf("expected undo to restore the original name")
	}
}

// TestCommentAppend verifies behavior for the covered scenario.
func TestCommentAppend(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	for m.focus != uistate.FocusCardComments {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	}
	m = applyMsg(t, m, keyRune('i'))
	m = typeText(t, m, "looks good")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(m.cardEdit.Comments) != 1 || m.cardEdit.Comments[0] != "looks good" {
		t.Fatalf("expected comment appended, got %v", m.cardEdit.Comments)
	}
	if m.cardCommentInput.Value() != "" {
		t.Fatalf("expected comment input cleared")
	}
}

// TestPaletteFiltering verifies behavior for the covered scenario.
func TestPaletteFiltering(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl})
	if m.popup != uistate.PopupCommandPalette {
		t.Fatalf("expected palette popup, got %v", m.popup)
	}
	if len(m.paletteCmds) != len(paletteCommands) {
		t.Fatalf("expected all commands with an empty query")
	}

	m = typeText(t, m, "undo")
	if len(m.paletteCmds) != 1 || m.paletteCmds[0].ID != cmdUndo {
		t.Fatalf("expected only Undo to match, got %v", m.paletteCmds)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.popup != uistate.PopupNone || m.status != uistate.StatusInitialized {
		t.Fatalf("expected palette dismissed")
	}
}

// TestPaletteCardSearch verifies behavior for the covered scenario.
func TestPaletteCardSearch(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl})
	m = typeText(t, m, "release")
	if len(m.paletteCards) != 1 {
		t.Fatalf("expected one card match, got %d", len(m.paletteCards))
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != uistate.FocusCommandPaletteCard {
		t.Fatalf("expected card section focus, got %v", m.focus)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.sel.CardID == nil || *m.sel.CardID != findCardID(t, m, "write release notes") {
		t.Fatalf("expected jump to the matched card")
	}
}

// findCardID resolves a card id by name for assertions.
func findCardID(t *testing.T, m Model, name string) uuid.UUID {
	t.Helper()
	for _, board := range m.boards {
		for _, card := range board.Cards {
			if card.Name == name {
				return card.ID
			}
		}
	}
	t.Fatalf("card %q not found", name)
	return uuid.Nil
}

// TestFocusClampAcrossTransitions verifies behavior for the covered scenario.
func TestFocusClampAcrossTransitions(t *testing.T) {
	m := newTestModel(t)
	inTargets := func() bool {
		for _, target := range uistate.AvailableTargets(m.view, m.popup) {
			if target == m.focus {
				return true
			}
		}
		return false
	}

	steps := []tea.Msg{
		keyRune('m'),
		tea.KeyPressMsg{Code: tea.KeyEscape},
		keyRune('c'),
		tea.KeyPressMsg{Code: tea.KeyEscape},
		tea.KeyPressMsg{Code: tea.KeyEscape},
		keyRune('b'),
		tea.KeyPressMsg{Code: tea.KeyEscape},
		keyRune('n'),
		tea.KeyPressMsg{Code: tea.KeyEscape},
		keyRune('f'),
		tea.KeyPressMsg{Code: tea.KeyEscape},
	}
	for i, step := range steps {
		m = applyMsg(t, m, step)
		if !inTargets() {
			t.Fatalf("step %d left focus %v outside targets of view %v popup %v", i, m.focus, m.view, m.popup)
		}
	}
}

// TestHideUIElement verifies behavior for the covered scenario.
func TestHideUIElement(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.focus != uistate.FocusHelp {
		t.Fatalf("expected help focus after tab, got %v", m.focus)
	}
	m = applyMsg(t, m, keyRune('h'))
	if m.view != uistate.ViewTitleBodyLog {
		t.Fatalf("expected help hidden, got %v", m.view)
	}
}

// TestMouseClickSelectsCard verifies behavior for the covered scenario.
func TestMouseClickSelectsCard(t *testing.T) {
	m := newTestModel(t)
	cols := m.boardColumns()
	if len(cols) < 2 {
		t.Fatalf("expected two visible board columns")
	}
	target := cols[1].cards[0]
	m = applyMsg(t, m, tea.MouseClickMsg{X: target.rect.x + 1, Y: target.rect.y + 1, Button: tea.MouseLeft})
	if *m.sel.BoardID != cols[1].boardID {
		t.Fatalf("expected click to select the second board")
	}
	if m.sel.CardID == nil || *m.sel.CardID != target.cardID {
		t.Fatalf("expected click to select the clicked card")
	}
}

// TestMouseDragMovesCardAcrossBoards verifies behavior for the covered scenario.
func TestMouseDragMovesCardAcrossBoards(t *testing.T) {
	m := newTestModel(t)
	cols := m.boardColumns()
	src := cols[0].cards[0]
	movedID := src.cardID

	m = applyMsg(t, m, tea.MouseClickMsg{X: src.rect.x + 1, Y: src.rect.y + 1, Button: tea.MouseLeft})
	dst := cols[1].cards[0]
	m = applyMsg(t, m, tea.MouseReleaseMsg{X: dst.rect.x + 1, Y: dst.rect.y + 1, Button: tea.MouseLeft})

	if len(m.boards[0].Cards) != 2 || len(m.boards[1].Cards) != 2 {
		t.Fatalf("expected card moved across boards, got %d/%d", len(m.boards[0].Cards), len(m.boards[1].Cards))
	}
	if m.boards[1].CardIndex(movedID) < 0 {
		t.Fatalf("moved card not found on the destination board")
	}
	if !m.hist.CanUndo() {
		t.Fatalf("expected the drag recorded in history")
	}

	m = applyMsg(t, m, keyRune('u'))
	if len(m.boards[0].Cards) != 3 || len(m.boards[1].Cards) != 1 {
		t.Fatalf("expected undo to reverse the drag")
	}
}

// TestWheelNavigation verifies behavior for the covered scenario.
func TestWheelNavigation(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if *m.sel.CardID != m.boards[0].Cards[1].ID {
		t.Fatalf("expected wheel down to select the next card")
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if *m.sel.CardID != m.boards[0].Cards[0].ID {
		t.Fatalf("expected wheel up to select the previous card")
	}
}

// TestKeybindingRebind verifies behavior for the covered scenario.
func TestKeybindingRebind(t *testing.T) {
	m := newTestModel(t)

	m = applyMsg(t, m, keyRune('c'))
	if m.view != uistate.ViewConfigMenu {
		t.Fatalf("expected config menu, got %v", m.view)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyUp}) // wraps to the last row
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.view != uistate.ViewEditKeybindings {
		t.Fatalf("expected keybindings editor, got %v", m.view)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.popup != uistate.PopupEditSpecificKeybinding {
		t.Fatalf("expected rebind popup, got %v", m.popup)
	}
	action := m.keybindAction

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.status != uistate.StatusKeyBindMode {
		t.Fatalf("expected key capture status")
	}
	m = applyMsg(t, m, keyRune('x'))
	if m.status != uistate.StatusInitialized {
		t.Fatalf("expected capture finished")
	}
	got := m.cfg.Keybindings[action]
	if len(got) != 1 || got[0] != "x" {
		t.Fatalf("expected %s bound to x, got %v", action, got)
	}
}

// TestToastPruneOnTick verifies behavior for the covered scenario.
func TestToastPruneOnTick(t *testing.T) {
	m := newTestModel(t)
	base := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	m.pushToast(ToastInfo, "hello", 0)
	m.pushToast(ToastLoading, "working", 0)

	m.now = func() time.Time { return base.Add(defaultToastDuration + time.Second) }
	m = applyMsg(t, m, tickMsg(m.now()))

	if len(m.toasts) != 1 || m.toasts[0].Kind != ToastLoading {
		t.Fatalf("expected only the loading toast to survive, got %v", m.toasts)
	}

	m = applyMsg(t, m, keyRune('t'))
	if len(m.toasts) != 0 {
		t.Fatalf("expected clear-all to drop every toast")
	}
}

// TestStatusSelectorInsideCardPopup verifies behavior for the covered scenario.
func TestStatusSelectorInsideCardPopup(t *testing.T) {
	m := newTestModel(t)
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	for m.focus != uistate.FocusCardStatus {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.popup != uistate.PopupCardStatusSelector {
		t.Fatalf("expected status selector, got %v", m.popup)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.popup != uistate.PopupViewCard {
		t.Fatalf("expected return to the card popup")
	}
	if m.cardEdit.Status != domain.StatusComplete {
		t.Fatalf("expected pending status updated, got %v", m.cardEdit.Status)
	}
	if m.boards[0].Cards[0].Status != domain.StatusActive {
		t.Fatalf("selector must not commit until the card is saved")
	}
}

// TestViewRenders verifies behavior for the covered scenario.
func TestViewRenders(t *testing.T) {
	m := newTestModel(t)
	v := m.View()
	if v.Content == nil || !v.AltScreen || v.MouseMode != tea.MouseModeCellMotion {
		t.Fatal("expected alt-screen view with mouse enabled")
	}

	out := m.renderKanban()
	for _, want := range []string{"Backlog", "Doing", "triage inbox"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected rendered board to contain %q", want)
		}
	}

	m.boards = nil
	m.refreshProjection()
	if !strings.Contains(m.renderKanban(), "no boards yet") {
		t.Fatal("expected the empty state hint")
	}
}
