package domain

import "errors"

var (
	ErrInvalidName     = errors.New("invalid name")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrBoardNotFound   = errors.New("board not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidDueDate  = errors.New("invalid due date")
	ErrNothingToFilter = errors.New("no tags selected")
	ErrEmptySelection  = errors.New("nothing selected")
)
