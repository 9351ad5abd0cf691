package domain

import (
	"slices"

	"github.com/google/uuid"
)

// Boards is the authoritative ordered board sequence.
type Boards []Board

func (bs Boards) Index(id uuid.UUID) int {
	for i := range bs {
		if bs[i].ID == id {
			return i
		}
	}
	return -1
}

func (bs Boards) Get(id uuid.UUID) (*Board, bool) {
	if i := bs.Index(id); i >= 0 {
		return &bs[i], true
	}
	return nil, false
}

// FindCard locates a card anywhere in the set, returning its board too.
func (bs Boards) FindCard(id uuid.UUID) (*Board, *Card, bool) {
	for i := range bs {
		if card, ok := bs[i].Card(id); ok {
			return &bs[i], card, true
		}
	}
	return nil, nil, false
}

func (bs *Boards) Remove(id uuid.UUID) (Board, int, error) {
	i := bs.Index(id)
	if i < 0 {
		return Board{}, -1, ErrBoardNotFound
	}
	board := (*bs)[i]
	*bs = append((*bs)[:i], (*bs)[i+1:]...)
	return board, i, nil
}

// InsertAt places a board at index, clamping to the valid range.
func (bs *Boards) InsertAt(board Board, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(*bs) {
		index = len(*bs)
	}
	*bs = append((*bs)[:index], append(Boards{board}, (*bs)[index:]...)...)
}

// AllTags returns the sorted union of tags on every card in the set.
func (bs Boards) AllTags() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for i := range bs {
		for j := range bs[i].Cards {
			for _, tag := range bs[i].Cards[j].Tags {
				if _, ok := seen[tag]; ok {
					continue
				}
				seen[tag] = struct{}{}
				out = append(out, tag)
			}
		}
	}
	slices.Sort(out)
	return out
}

// FilterByTags derives a filtered copy of the set. Each board keeps only
// cards carrying at least one selected tag; boards left empty are dropped.
func (bs Boards) FilterByTags(tags []string) (Boards, error) {
	if len(tags) == 0 {
		return nil, ErrNothingToFilter
	}
	filtered := Boards{}
	for i := range bs {
		board := bs[i]
		kept := []Card{}
		for j := range board.Cards {
			if board.Cards[j].HasAnyTag(tags) {
				kept = append(kept, board.Cards[j])
			}
		}
		if len(kept) == 0 {
			continue
		}
		board.Cards = kept
		filtered = append(filtered, board)
	}
	return filtered, nil
}
