// Package history records reversible board and card mutations and replays
// them backward and forward for undo/redo.
package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hylla/kanto/internal/domain"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

type Kind int

const (
	KindCreateCard Kind = iota
	KindDeleteCard
	KindCreateBoard
	KindDeleteBoard
	KindMoveCardWithinBoard
	KindMoveCardBetweenBoards
	KindEditCard
)

// Action is one recorded mutation. Entities are stored by value so that
// undoing a delete reintroduces the full contents, cards included.
type Action struct {
	Kind Kind

	Card    domain.Card
	OldCard domain.Card
	Board   domain.Board

	BoardID    uuid.UUID
	SrcBoardID uuid.UUID
	DstBoardID uuid.UUID

	Index   int
	FromIdx int
	ToIdx   int
	SrcIdx  int
	DstIdx  int
}

func CreateCard(card domain.Card, boardID uuid.UUID) Action {
	return Action{Kind: KindCreateCard, Card: card, BoardID: boardID}
}

func DeleteCard(card domain.Card, boardID uuid.UUID, index int) Action {
	return Action{Kind: KindDeleteCard, Card: card, BoardID: boardID, Index: index}
}

func CreateBoard(board domain.Board) Action {
	return Action{Kind: KindCreateBoard, Board: board}
}

func DeleteBoard(board domain.Board, index int) Action {
	return Action{Kind: KindDeleteBoard, Board: board, Index: index}
}

func MoveCardWithinBoard(boardID uuid.UUID, from, to int) Action {
	return Action{Kind: KindMoveCardWithinBoard, BoardID: boardID, FromIdx: from, ToIdx: to}
}

func MoveCardBetweenBoards(card domain.Card, srcID, dstID uuid.UUID, srcIdx, dstIdx int) Action {
	return Action{
		Kind:       KindMoveCardBetweenBoards,
		Card:       card,
		SrcBoardID: srcID,
		DstBoardID: dstID,
		SrcIdx:     srcIdx,
		DstIdx:     dstIdx,
	}
}

func EditCard(oldCard, newCard domain.Card, boardID uuid.UUID) Action {
	return Action{Kind: KindEditCard, OldCard: oldCard, Card: newCard, BoardID: boardID}
}

// Describe names the action for undo/redo toasts.
func (a Action) Describe() string {
	switch a.Kind {
	case KindCreateCard:
		return fmt.Sprintf("create card %q", a.Card.Name)
	case KindDeleteCard:
		return fmt.Sprintf("delete card %q", a.Card.Name)
	case KindCreateBoard:
		return fmt.Sprintf("create board %q", a.Board.Name)
	case KindDeleteBoard:
		return fmt.Sprintf("delete board %q", a.Board.Name)
	case KindMoveCardWithinBoard:
		return "move card"
	case KindMoveCardBetweenBoards:
		return fmt.Sprintf("move card %q", a.Card.Name)
	case KindEditCard:
		return fmt.Sprintf("edit card %q", a.OldCard.Name)
	default:
		return "unknown action"
	}
}

func (a Action) apply(bs *domain.Boards) error {
	switch a.Kind {
	case KindCreateCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		return board.AddCard(a.Card)
	case KindDeleteCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		_, _, err := board.RemoveCard(a.Card.ID)
		return err
	case KindCreateBoard:
		bs.InsertAt(a.Board, len(*bs))
		return nil
	case KindDeleteBoard:
		_, _, err := bs.Remove(a.Board.ID)
		return err
	case KindMoveCardWithinBoard:
		return domain.MoveCardWithinBoard(*bs, a.BoardID, a.FromIdx, a.ToIdx)
	case KindMoveCardBetweenBoards:
		return domain.MoveCardBetweenBoards(*bs, a.Card.ID, a.SrcBoardID, a.DstBoardID, a.DstIdx)
	case KindEditCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		i := board.CardIndex(a.Card.ID)
		if i < 0 {
			return domain.ErrCardNotFound
		}
		board.Cards[i] = a.Card
		return nil
	default:
		return fmt.Errorf("apply: unknown action kind %d", a.Kind)
	}
}

func (a Action) revert(bs *domain.Boards) error {
	switch a.Kind {
	case KindCreateCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		_, _, err := board.RemoveCard(a.Card.ID)
		return err
	case KindDeleteCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		board.InsertCard(a.Card, a.Index)
		return nil
	case KindCreateBoard:
		_, _, err := bs.Remove(a.Board.ID)
		return err
	case KindDeleteBoard:
		bs.InsertAt(a.Board, a.Index)
		return nil
	case KindMoveCardWithinBoard:
		return domain.MoveCardWithinBoard(*bs, a.BoardID, a.ToIdx, a.FromIdx)
	case KindMoveCardBetweenBoards:
		return domain.MoveCardBetweenBoards(*bs, a.Card.ID, a.DstBoardID, a.SrcBoardID, a.SrcIdx)
	case KindEditCard:
		board, ok := bs.Get(a.BoardID)
		if !ok {
			return domain.ErrBoardNotFound
		}
		i := board.CardIndex(a.Card.ID)
		if i < 0 {
			return domain.ErrCardNotFound
		}
		board.Cards[i] = a.OldCard
		return nil
	default:
		return fmt.Errorf("revert: unknown action kind %d", a.Kind)
	}
}

// Log is a bounded action sequence with a cursor. Everything before the
// cursor has been applied; entries at and beyond it are redoable.
type Log struct {
	actions []Action
	cursor  int
	limit   int
}

func NewLog(limit int) *Log {
	if limit < 1 {
		limit = 100
	}
	return &Log{limit: limit}
}

// Record notes an already-applied action, discarding any undone future.
func (l *Log) Record(a Action) {
	l.actions = append(l.actions[:l.cursor], a)
	if len(l.actions) > l.limit {
		l.actions = l.actions[1:]
	}
	l.cursor = len(l.actions)
}

// Undo reverts the action behind the cursor and returns it.
func (l *Log) Undo(bs *domain.Boards) (Action, error) {
	if l.cursor == 0 {
		return Action{}, ErrNothingToUndo
	}
	a := l.actions[l.cursor-1]
	if err := a.revert(bs); err != nil {
		return Action{}, fmt.Errorf("undo %s: %w", a.Describe(), err)
	}
	l.cursor--
	return a, nil
}

// Redo reapplies the action at the cursor and returns it.
func (l *Log) Redo(bs *domain.Boards) (Action, error) {
	if l.cursor >= len(l.actions) {
		return Action{}, ErrNothingToRedo
	}
	a := l.actions[l.cursor]
	if err := a.apply(bs); err != nil {
		return Action{}, fmt.Errorf("redo %s: %w", a.Describe(), err)
	}
	l.cursor++
	return a, nil
}

// Reset drops the whole log, e.g. after loading a save file.
func (l *Log) Reset() {
	l.actions = nil
	l.cursor = 0
}

func (l *Log) CanUndo() bool { return l.cursor > 0 }

func (l *Log) CanRedo() bool { return l.cursor < len(l.actions) }

func (l *Log) Len() int { return len(l.actions) }
