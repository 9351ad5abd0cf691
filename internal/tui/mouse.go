package tui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/domain"
	"github.com/hylla/kanto/internal/history"
	"github.com/hylla/kanto/internal/uistate"
)

// hitTest resolves the board and card under a screen position.
func (m *Model) hitTest(x, y int) (boardID, cardID *uuid.UUID, cardIndex int) {
	cardIndex = -1
	for _, col := range m.boardColumns() {
		if !col.rect.contains(x, y) {
			continue
		}
		id := col.boardID
		boardID = &id
		for _, cr := range col.cards {
			if cr.rect.contains(x, y) {
				cid := cr.cardID
				cardID = &cid
				cardIndex = cr.index
				return
			}
		}
		// Below the last card counts as the end of the column.
		cardIndex = len(col.cards)
		return
	}
	return nil, nil, -1
}

// updateHover tracks the board and card under the pointer for drag drops.
func (m *Model) updateHover(x, y int) {
	if !m.view.IsKanban() || m.popup != uistate.PopupNone {
		m.hoverBoard = nil
		m.hoverCard = nil
		return
	}
	m.hoverBoard, m.hoverCard, _ = m.hitTest(x, y)
}

func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseRight:
		// Right click backs out, same as esc.
		if m.popup != uistate.PopupNone {
			m.closePopup()
			m.status = uistate.StatusInitialized
			return m, nil
		}
		if !m.view.IsKanban() {
			m.setView(m.prevView)
		}
		return m, nil

	case tea.MouseMiddle:
		return m.togglePalette()

	case tea.MouseLeft:
		if m.popup != uistate.PopupNone || !m.view.IsKanban() {
			return m, nil
		}
		return m.handleBodyClick(msg.X, msg.Y)

	default:
		return m, nil
	}
}

// handleBodyClick selects the clicked panel or card and starts a drag.
func (m Model) handleBodyClick(x, y int) (tea.Model, tea.Cmd) {
	for focus, r := range m.panelRects() {
		if r.contains(x, y) {
			m.focus = focus
			break
		}
	}
	if m.focus != uistate.FocusBody {
		return m, nil
	}

	boardID, cardID, _ := m.hitTest(x, y)
	if boardID == nil {
		return m, nil
	}
	m.sel = m.proj.EnsureSelection(m.workingBoards(), domain.Selection{}.WithBoard(*boardID))
	if cardID != nil {
		m.sel = m.sel.WithCard(*cardID)
		m.dragCard = cardID
		m.dragBoard = boardID
	}
	return m, nil
}

// handleMouseRelease finishes a drag, moving the dragged card to where it
// was dropped.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if m.dragCard == nil || m.dragBoard == nil {
		return m, nil
	}
	cardID := *m.dragCard
	srcID := *m.dragBoard
	m.dragCard = nil
	m.dragBoard = nil

	dstBoardID, dstCardID, dstIndex := m.hitTest(msg.X, msg.Y)
	if dstBoardID == nil || dstIndex < 0 {
		return m, nil
	}

	src, ok := m.authoritativeBoard(srcID)
	if !ok {
		return m, nil
	}
	from := src.CardIndex(cardID)
	if from < 0 {
		return m, nil
	}

	if *dstBoardID == srcID {
		to := dstIndex
		if dstCardID != nil {
			to = src.CardIndex(*dstCardID)
		}
		to = clamp(to, 0, len(src.Cards)-1)
		if to == from {
			return m, nil
		}
		if err := domain.MoveCardWithinBoard(m.boards, srcID, from, to); err != nil {
			m.pushToast(ToastError, err.Error(), 0)
			return m, nil
		}
		m.hist.Record(history.MoveCardWithinBoard(srcID, from, to))
	} else {
		dst, ok := m.authoritativeBoard(*dstBoardID)
		if !ok {
			return m, nil
		}
		to := dstIndex
		if dstCardID != nil {
			to = dst.CardIndex(*dstCardID)
		}
		to = clamp(to, 0, len(dst.Cards))
		card, found := src.Card(cardID)
		if !found {
			return m, nil
		}
		moved := *card
		if err := domain.MoveCardBetweenBoards(m.boards, cardID, srcID, *dstBoardID, to); err != nil {
			m.pushToast(ToastError, err.Error(), 0)
			return m, nil
		}
		m.hist.Record(history.MoveCardBetweenBoards(moved, srcID, *dstBoardID, from, to))
	}

	m.refreshProjection()
	m.sel = m.proj.EnsureSelection(m.workingBoards(), domain.Selection{}.WithBoard(*dstBoardID).WithCard(cardID))
	m.logLine("moved card by drag")
	return m, m.autoSaveCmd()
}

// handleMouseWheel scrolls the selection, mirroring the arrow keys.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if !m.view.IsKanban() || m.popup != uistate.PopupNone {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.applyNav(m.proj.GoUp(m.workingBoards(), m.sel))
	case tea.MouseWheelDown:
		m.applyNav(m.proj.GoDown(m.workingBoards(), m.sel))
	case tea.MouseWheelLeft:
		m.applyNav(m.proj.GoLeft(m.workingBoards(), m.sel))
	case tea.MouseWheelRight:
		m.applyNav(m.proj.GoRight(m.workingBoards(), m.sel))
	}
	return m, nil
}
