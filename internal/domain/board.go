package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Board struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cards       []Card    `json:"cards"`
}

func NewBoard(name, description string) (Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Board{}, ErrInvalidName
	}
	return Board{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Cards:       []Card{},
	}, nil
}

func (b *Board) CardIndex(id uuid.UUID) int {
	for i := range b.Cards {
		if b.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) Card(id uuid.UUID) (*Card, bool) {
	if i := b.CardIndex(id); i >= 0 {
		return &b.Cards[i], true
	}
	return nil, false
}

// AddCard appends a card, rejecting names already present on the board.
func (b *Board) AddCard(card Card) error {
	if b.hasCardNamed(card.Name, card.ID) {
		return ErrDuplicateName
	}
	b.Cards = append(b.Cards, card)
	return nil
}

// InsertCard places a card at index, clamping to the valid range.
func (b *Board) InsertCard(card Card, index int) {
	if index < 0 {
		index = 0
	}
	if index > len(b.Cards) {
		index = len(b.Cards)
	}
	b.Cards = append(b.Cards[:index], append([]Card{card}, b.Cards[index:]...)...)
}

func (b *Board) RemoveCard(id uuid.UUID) (Card, int, error) {
	i := b.CardIndex(id)
	if i < 0 {
		return Card{}, -1, ErrCardNotFound
	}
	card := b.Cards[i]
	b.Cards = append(b.Cards[:i], b.Cards[i+1:]...)
	return card, i, nil
}

// ReplaceCard swaps the stored card with the same ID for the given value,
// enforcing name uniqueness against the rest of the board.
func (b *Board) ReplaceCard(card Card, now time.Time) error {
	i := b.CardIndex(card.ID)
	if i < 0 {
		return ErrCardNotFound
	}
	if strings.TrimSpace(card.Name) == "" {
		return ErrInvalidName
	}
	if b.hasCardNamed(card.Name, card.ID) {
		return ErrDuplicateName
	}
	card.ModifiedAt = now.UTC()
	b.Cards[i] = card
	return nil
}

func (b *Board) SwapCards(from, to int) error {
	if from < 0 || from >= len(b.Cards) || to < 0 || to >= len(b.Cards) {
		return ErrIndexOutOfRange
	}
	b.Cards[from], b.Cards[to] = b.Cards[to], b.Cards[from]
	return nil
}

func (b *Board) hasCardNamed(name string, exclude uuid.UUID) bool {
	for i := range b.Cards {
		if b.Cards[i].ID != exclude && strings.EqualFold(b.Cards[i].Name, name) {
			return true
		}
	}
	return false
}
