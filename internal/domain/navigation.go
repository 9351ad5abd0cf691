package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Selection is the current (board, card) pair. Either half may be unset.
type Selection struct {
	BoardID *uuid.UUID
	CardID  *uuid.UUID
}

func (s Selection) WithBoard(id uuid.UUID) Selection {
	s.BoardID = &id
	return s
}

func (s Selection) WithCard(id uuid.UUID) Selection {
	s.CardID = &id
	return s
}

func (s Selection) ClearCard() Selection {
	s.CardID = nil
	return s
}

// NavResult is the outcome of one navigation step. Notice carries a
// user-visible boundary message when no movement happened.
type NavResult struct {
	Selection Selection
	Notice    string
}

const (
	noticeFirstBoard = "Already at the first board"
	noticeLastBoard  = "Already at the last board"
	noticeFirstCard  = "Already at the first card"
	noticeLastCard   = "Already at the last card"
	noticeNoBoards   = "No boards to navigate"
	noticeNoCards    = "No cards in this board"
)

// EnsureSelection resolves the selection against the projection, defaulting
// to the first visible board and its first visible card. The focus clamp for
// the kanban body goes through here.
func (p *Projection) EnsureSelection(boards Boards, sel Selection) Selection {
	ids := p.BoardIDs()
	if len(ids) == 0 {
		return Selection{}
	}
	if sel.BoardID == nil || !p.Contains(*sel.BoardID) {
		sel = Selection{}.WithBoard(ids[0])
	}
	cards, _ := p.CardsFor(*sel.BoardID)
	if len(cards) == 0 {
		return sel.ClearCard()
	}
	if sel.CardID == nil || !slices.Contains(cards, *sel.CardID) {
		return sel.WithCard(cards[0])
	}
	return sel
}

// GoRight advances selection to the next visible board, sliding the window
// one board right when the selection already sits at its visible edge.
func (p *Projection) GoRight(boards Boards, sel Selection) NavResult {
	sel = p.EnsureSelection(boards, sel)
	if sel.BoardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoBoards}
	}
	ids := p.BoardIDs()
	visIdx := slices.Index(ids, *sel.BoardID)
	if visIdx >= 0 && visIdx < len(ids)-1 {
		return NavResult{Selection: p.selectBoard(boards, ids[visIdx+1])}
	}

	allIdx := boards.Index(*sel.BoardID)
	if allIdx < 0 || allIdx >= len(boards)-1 {
		return NavResult{Selection: sel, Notice: noticeLastBoard}
	}
	next := &boards[allIdx+1]
	p.slideRight(next)
	return NavResult{Selection: p.selectBoard(boards, next.ID)}
}

// GoLeft is the mirror of GoRight.
func (p *Projection) GoLeft(boards Boards, sel Selection) NavResult {
	sel = p.EnsureSelection(boards, sel)
	if sel.BoardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoBoards}
	}
	ids := p.BoardIDs()
	visIdx := slices.Index(ids, *sel.BoardID)
	if visIdx > 0 {
		return NavResult{Selection: p.selectBoard(boards, ids[visIdx-1])}
	}

	allIdx := boards.Index(*sel.BoardID)
	if allIdx <= 0 {
		return NavResult{Selection: sel, Notice: noticeFirstBoard}
	}
	prev := &boards[allIdx-1]
	p.slideLeft(prev)
	return NavResult{Selection: p.selectBoard(boards, prev.ID)}
}

// GoDown advances to the next visible card of the current board, sliding
// the card window one row down at the visible edge.
func (p *Projection) GoDown(boards Boards, sel Selection) NavResult {
	sel = p.EnsureSelection(boards, sel)
	if sel.BoardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoBoards}
	}
	board, ok := boards.Get(*sel.BoardID)
	if !ok {
		return NavResult{Selection: Selection{}, Notice: noticeNoBoards}
	}
	if sel.CardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoCards}
	}

	visible, _ := p.CardsFor(board.ID)
	visIdx := slices.Index(visible, *sel.CardID)
	if visIdx >= 0 && visIdx < len(visible)-1 {
		return NavResult{Selection: sel.WithCard(visible[visIdx+1])}
	}

	allIdx := board.CardIndex(*sel.CardID)
	if allIdx < 0 || allIdx >= len(board.Cards)-1 {
		return NavResult{Selection: sel, Notice: noticeLastCard}
	}
	next := board.Cards[allIdx+1].ID
	start := allIdx + 2 - p.cardsShown
	if start < 0 {
		start = 0
	}
	p.SetCards(board.ID, p.windowCardIDs(board, start))
	return NavResult{Selection: sel.WithCard(next)}
}

// GoUp is the mirror of GoDown; sliding up anchors the window so the card
// above the previous top row becomes visible.
func (p *Projection) GoUp(boards Boards, sel Selection) NavResult {
	sel = p.EnsureSelection(boards, sel)
	if sel.BoardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoBoards}
	}
	board, ok := boards.Get(*sel.BoardID)
	if !ok {
		return NavResult{Selection: Selection{}, Notice: noticeNoBoards}
	}
	if sel.CardID == nil {
		return NavResult{Selection: sel, Notice: noticeNoCards}
	}

	visible, _ := p.CardsFor(board.ID)
	visIdx := slices.Index(visible, *sel.CardID)
	if visIdx > 0 {
		return NavResult{Selection: sel.WithCard(visible[visIdx-1])}
	}

	allIdx := board.CardIndex(*sel.CardID)
	if allIdx <= 0 {
		return NavResult{Selection: sel, Notice: noticeFirstCard}
	}
	prev := board.Cards[allIdx-1].ID
	p.SetCards(board.ID, p.windowCardIDs(board, allIdx-1))
	return NavResult{Selection: sel.WithCard(prev)}
}

// windowCardIDs returns the card window of length up to cardsShown
// starting at the given index.
func (p *Projection) windowCardIDs(board *Board, start int) []uuid.UUID {
	if start < 0 {
		start = 0
	}
	end := min(start+p.cardsShown, len(board.Cards))
	ids := make([]uuid.UUID, 0, end-start)
	for i := start; i < end; i++ {
		ids = append(ids, board.Cards[i].ID)
	}
	return ids
}

func (p *Projection) selectBoard(boards Boards, id uuid.UUID) Selection {
	sel := Selection{}.WithBoard(id)
	if cards, ok := p.CardsFor(id); ok && len(cards) > 0 {
		return sel.WithCard(cards[0])
	}
	return sel
}

