package domain

import "github.com/google/uuid"

// MoveCardWithinBoard swaps the cards at from and to on one board. A drag
// dropped on another card of the same board resolves to this.
func MoveCardWithinBoard(bs Boards, boardID uuid.UUID, from, to int) error {
	board, ok := bs.Get(boardID)
	if !ok {
		return ErrBoardNotFound
	}
	return board.SwapCards(from, to)
}

// MoveCardBetweenBoards removes a card from the source board and inserts it
// at dstIdx on the destination board.
func MoveCardBetweenBoards(bs Boards, cardID, srcID, dstID uuid.UUID, dstIdx int) error {
	src, ok := bs.Get(srcID)
	if !ok {
		return ErrBoardNotFound
	}
	dst, ok := bs.Get(dstID)
	if !ok {
		return ErrBoardNotFound
	}
	card, _, err := src.RemoveCard(cardID)
	if err != nil {
		return err
	}
	dst.InsertCard(card, dstIdx)
	return nil
}
