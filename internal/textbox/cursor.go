package textbox

type CursorMove int

const (
	MoveForward CursorMove = iota
	MoveBack
	MoveUp
	MoveDown
	MoveHead
	MoveEnd
	MoveTop
	MoveBottom
	MoveWordForward
	MoveWordBack
	MoveParagraphForward
	MoveParagraphBack
	MovePageUp
	MovePageDown
)

type charKind int

const (
	charSpace charKind = iota
	charPunct
	charWord
)

func kindOf(r rune) charKind {
	switch {
	case r == ' ' || r == '\t':
		return charSpace
	case (r >= '!' && r <= '/') || (r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') || (r >= '{' && r <= '~'):
		return charPunct
	default:
		return charWord
	}
}

// findWordStartForward returns the column of the next word start after col,
// or -1 when the rest of the line holds none.
func findWordStartForward(line []rune, col int) int {
	if col >= len(line) {
		return -1
	}
	prev := kindOf(line[col])
	for i := col + 1; i < len(line); i++ {
		cur := kindOf(line[i])
		if cur != charSpace && cur != prev {
			return i
		}
		prev = cur
	}
	return -1
}

// findWordStartBackward returns the column of the previous word start
// before col, or -1 when none exists on the line.
func findWordStartBackward(line []rune, col int) int {
	if col == 0 {
		return -1
	}
	i := col - 1
	for i >= 0 && kindOf(line[i]) == charSpace {
		i--
	}
	if i < 0 {
		return -1
	}
	kind := kindOf(line[i])
	for i > 0 && kindOf(line[i-1]) == kind {
		i--
	}
	return i
}

// nextCursor computes the destination of a cursor move, or returns ok=false
// when the move has nowhere to go.
func (tb *TextBox) nextCursor(move CursorMove) (Pos, bool) {
	row, col := tb.cursor.Row, tb.cursor.Col
	lines := tb.lines

	fitCol := func(col, row int) int {
		return min(col, len([]rune(lines[row])))
	}

	switch move {
	case MoveForward:
		if col >= len([]rune(lines[row])) {
			if row+1 < len(lines) {
				return Pos{row + 1, 0}, true
			}
			return Pos{}, false
		}
		return Pos{row, col + 1}, true
	case MoveBack:
		if col == 0 {
			if row == 0 {
				return Pos{}, false
			}
			return Pos{row - 1, len([]rune(lines[row-1]))}, true
		}
		return Pos{row, col - 1}, true
	case MoveUp:
		if row == 0 {
			return Pos{}, false
		}
		return Pos{row - 1, fitCol(col, row-1)}, true
	case MoveDown:
		if row+1 >= len(lines) {
			return Pos{}, false
		}
		return Pos{row + 1, fitCol(col, row+1)}, true
	case MoveHead:
		return Pos{row, 0}, true
	case MoveEnd:
		return Pos{row, len([]rune(lines[row]))}, true
	case MoveTop:
		return Pos{0, fitCol(col, 0)}, true
	case MoveBottom:
		last := len(lines) - 1
		return Pos{last, fitCol(col, last)}, true
	case MoveWordForward:
		if next := findWordStartForward([]rune(lines[row]), col); next >= 0 {
			return Pos{row, next}, true
		}
		if row+1 < len(lines) {
			return Pos{row + 1, 0}, true
		}
		return Pos{row, len([]rune(lines[row]))}, true
	case MoveWordBack:
		if prev := findWordStartBackward([]rune(lines[row]), col); prev >= 0 {
			return Pos{row, prev}, true
		}
		if row > 0 {
			return Pos{row - 1, len([]rune(lines[row-1]))}, true
		}
		return Pos{row, 0}, true
	case MoveParagraphForward:
		prevEmpty := lines[row] == ""
		for r := row + 1; r < len(lines); r++ {
			empty := lines[r] == ""
			if !empty && prevEmpty {
				return Pos{r, fitCol(col, r)}, true
			}
			prevEmpty = empty
		}
		last := len(lines) - 1
		return Pos{last, fitCol(col, last)}, true
	case MoveParagraphBack:
		if row == 0 {
			return Pos{}, false
		}
		prevEmpty := lines[row-1] == ""
		for r := row - 2; r >= 0; r-- {
			empty := lines[r] == ""
			if empty && !prevEmpty {
				return Pos{r + 1, fitCol(col, r+1)}, true
			}
			prevEmpty = empty
		}
		return Pos{0, fitCol(col, 0)}, true
	case MovePageUp:
		r := max(row-tb.pageSize(), 0)
		return Pos{r, fitCol(col, r)}, true
	case MovePageDown:
		r := min(row+tb.pageSize(), len(lines)-1)
		return Pos{r, fitCol(col, r)}, true
	}
	return Pos{}, false
}
