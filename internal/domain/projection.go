package domain

import (
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Projection is the visible window over the board set: an ordered map of
// board ID to the IDs of that board's currently visible cards. It holds at
// most boardsShown boards and, per board, at most cardsShown cards, each a
// contiguous slice of the underlying sequence.
type Projection struct {
	visible     *orderedmap.OrderedMap[uuid.UUID, []uuid.UUID]
	boardsShown int
	cardsShown  int
}

func NewProjection(boardsShown, cardsShown int) *Projection {
	if boardsShown < 1 {
		boardsShown = 1
	}
	if cardsShown < 1 {
		cardsShown = 1
	}
	return &Projection{
		visible:     orderedmap.New[uuid.UUID, []uuid.UUID](),
		boardsShown: boardsShown,
		cardsShown:  cardsShown,
	}
}

// Refresh rebuilds the projection from the front of the board sequence.
func (p *Projection) Refresh(boards Boards) {
	p.visible = orderedmap.New[uuid.UUID, []uuid.UUID]()
	for i := range boards {
		if p.visible.Len() >= p.boardsShown {
			break
		}
		p.visible.Set(boards[i].ID, firstCardIDs(&boards[i], p.cardsShown))
	}
}

func (p *Projection) Len() int { return p.visible.Len() }

func (p *Projection) BoardsShown() int { return p.boardsShown }

func (p *Projection) CardsShown() int { return p.cardsShown }

// Resize changes the window limits and drops any overflow.
func (p *Projection) Resize(boardsShown, cardsShown int, boards Boards) {
	if boardsShown < 1 {
		boardsShown = 1
	}
	if cardsShown < 1 {
		cardsShown = 1
	}
	p.boardsShown = boardsShown
	p.cardsShown = cardsShown
	p.Refresh(boards)
}

// BoardIDs returns the visible board IDs in order.
func (p *Projection) BoardIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, p.visible.Len())
	for pair := p.visible.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (p *Projection) Contains(boardID uuid.UUID) bool {
	_, ok := p.visible.Get(boardID)
	return ok
}

// CardsFor returns the visible card IDs of a board.
func (p *Projection) CardsFor(boardID uuid.UUID) ([]uuid.UUID, bool) {
	ids, ok := p.visible.Get(boardID)
	return ids, ok
}

// SetCards replaces the visible card window of a board.
func (p *Projection) SetCards(boardID uuid.UUID, ids []uuid.UUID) {
	if _, ok := p.visible.Get(boardID); ok {
		p.visible.Set(boardID, ids)
	}
}

// Validate drops entries whose board or cards no longer exist and refills
// card windows from the live data.
func (p *Projection) Validate(boards Boards) {
	for _, id := range p.BoardIDs() {
		board, ok := boards.Get(id)
		if !ok {
			p.visible.Delete(id)
			continue
		}
		ids, _ := p.visible.Get(id)
		kept := make([]uuid.UUID, 0, len(ids))
		for _, cardID := range ids {
			if board.CardIndex(cardID) >= 0 {
				kept = append(kept, cardID)
			}
		}
		if len(kept) == 0 {
			kept = firstCardIDs(board, p.cardsShown)
		}
		p.visible.Set(id, kept)
	}
	if p.visible.Len() == 0 {
		p.Refresh(boards)
	}
}

func (p *Projection) slideRight(board *Board) {
	if oldest := p.visible.Oldest(); oldest != nil {
		p.visible.Delete(oldest.Key)
	}
	p.visible.Set(board.ID, firstCardIDs(board, p.cardsShown))
}

func (p *Projection) slideLeft(board *Board) {
	if newest := p.visible.Newest(); newest != nil {
		p.visible.Delete(newest.Key)
	}
	// Rebuild with the revealed board first to preserve ordering.
	rebuilt := orderedmap.New[uuid.UUID, []uuid.UUID]()
	rebuilt.Set(board.ID, firstCardIDs(board, p.cardsShown))
	for pair := p.visible.Oldest(); pair != nil; pair = pair.Next() {
		rebuilt.Set(pair.Key, pair.Value)
	}
	p.visible = rebuilt
}

func firstCardIDs(board *Board, limit int) []uuid.UUID {
	n := min(limit, len(board.Cards))
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, board.Cards[i].ID)
	}
	return ids
}
