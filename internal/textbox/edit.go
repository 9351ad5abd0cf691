package textbox

// Pos is a cursor position: row index and column in runes.
type Pos struct {
	Row int
	Col int
}

type EditKind int

const (
	EditInsertChar EditKind = iota
	EditDeleteChar
	EditInsertNewline
	EditDeleteNewline
	EditInsertStr
	EditDeleteStr
	EditInsertChunk
	EditDeleteChunk
)

// edit is one semantic change plus the cursor before and after it, so that
// undo and redo restore the exact cursor position.
type edit struct {
	kind   EditKind
	ch     rune
	str    string
	chunk  []string
	before Pos
	after  Pos
}

func (e edit) invert() edit {
	inv := e
	inv.before, inv.after = e.after, e.before
	switch e.kind {
	case EditInsertChar:
		inv.kind = EditDeleteChar
	case EditDeleteChar:
		inv.kind = EditInsertChar
	case EditInsertNewline:
		inv.kind = EditDeleteNewline
	case EditDeleteNewline:
		inv.kind = EditInsertNewline
	case EditInsertStr:
		inv.kind = EditDeleteStr
	case EditDeleteStr:
		inv.kind = EditInsertStr
	case EditInsertChunk:
		inv.kind = EditDeleteChunk
	case EditDeleteChunk:
		inv.kind = EditInsertChunk
	}
	return inv
}

// apply plays the edit against the line buffer. The cursor positions give
// the anchor rows and columns; they are trusted to be in range.
func (e edit) apply(lines *[]string) {
	switch e.kind {
	case EditInsertChar:
		line := []rune((*lines)[e.before.Row])
		line = append(line[:e.before.Col], append([]rune{e.ch}, line[e.before.Col:]...)...)
		(*lines)[e.before.Row] = string(line)
	case EditDeleteChar:
		line := []rune((*lines)[e.after.Row])
		(*lines)[e.after.Row] = string(append(line[:e.after.Col], line[e.after.Col+1:]...))
	case EditInsertNewline:
		line := []rune((*lines)[e.before.Row])
		rest := string(line[e.before.Col:])
		(*lines)[e.before.Row] = string(line[:e.before.Col])
		*lines = append((*lines)[:e.before.Row+1],
			append([]string{rest}, (*lines)[e.before.Row+1:]...)...)
	case EditDeleteNewline:
		row := e.before.Row
		joined := (*lines)[row-1] + (*lines)[row]
		(*lines)[row-1] = joined
		*lines = append((*lines)[:row], (*lines)[row+1:]...)
	case EditInsertStr:
		line := []rune((*lines)[e.before.Row])
		out := string(line[:e.before.Col]) + e.str + string(line[e.before.Col:])
		(*lines)[e.before.Row] = out
	case EditDeleteStr:
		line := []rune((*lines)[e.after.Row])
		n := len([]rune(e.str))
		(*lines)[e.after.Row] = string(append(line[:e.after.Col], line[e.after.Col+n:]...))
	case EditInsertChunk:
		insertChunk(lines, e.before, e.chunk)
	case EditDeleteChunk:
		deleteChunk(lines, e.after, e.chunk)
	}
}

func insertChunk(lines *[]string, at Pos, chunk []string) {
	first := []rune((*lines)[at.Row])
	tail := string(first[at.Col:])
	(*lines)[at.Row] = string(first[:at.Col]) + chunk[0]

	middleAndLast := make([]string, 0, len(chunk)-1)
	middleAndLast = append(middleAndLast, chunk[1:len(chunk)-1]...)
	middleAndLast = append(middleAndLast, chunk[len(chunk)-1]+tail)

	*lines = append((*lines)[:at.Row+1],
		append(middleAndLast, (*lines)[at.Row+1:]...)...)
}

func deleteChunk(lines *[]string, at Pos, chunk []string) {
	lastLine := []rune((*lines)[at.Row+len(chunk)-1])
	tail := string(lastLine[len([]rune(chunk[len(chunk)-1])):])
	first := []rune((*lines)[at.Row])
	(*lines)[at.Row] = string(first[:at.Col]) + tail
	*lines = append((*lines)[:at.Row+1], (*lines)[at.Row+len(chunk):]...)
}

// editHistory is a bounded undo/redo stack of edits.
type editHistory struct {
	edits  []edit
	cursor int
	limit  int
}

func newEditHistory(limit int) *editHistory {
	if limit < 1 {
		limit = 50
	}
	return &editHistory{limit: limit}
}

func (h *editHistory) push(e edit) {
	h.edits = append(h.edits[:h.cursor], e)
	if len(h.edits) > h.limit {
		h.edits = h.edits[1:]
	}
	h.cursor = len(h.edits)
}

func (h *editHistory) undo(lines *[]string) (Pos, bool) {
	if h.cursor == 0 {
		return Pos{}, false
	}
	h.cursor--
	e := h.edits[h.cursor]
	inv := e.invert()
	inv.apply(lines)
	return e.before, true
}

func (h *editHistory) redo(lines *[]string) (Pos, bool) {
	if h.cursor >= len(h.edits) {
		return Pos{}, false
	}
	e := h.edits[h.cursor]
	e.apply(lines)
	h.cursor++
	return e.after, true
}
