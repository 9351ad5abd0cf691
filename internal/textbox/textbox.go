// Package textbox implements the line-oriented edit buffer behind every
// multi-line field: cursor motion, selection, yank register and a bounded
// undo/redo stack of semantic edits.
package textbox

import (
	"strings"

	"github.com/atotto/clipboard"
)

const defaultTabWidth = 4

type TextBox struct {
	lines      []string
	cursor     Pos
	selStart   *Pos
	yank       []string
	history    *editHistory
	singleLine bool
	masked     bool
	tabWidth   int
	height     int
}

func New() *TextBox {
	return &TextBox{
		lines:    []string{""},
		history:  newEditHistory(50),
		tabWidth: defaultTabWidth,
		height:   10,
	}
}

// NewSingleLine returns a buffer that rejects newline and tab insertion so
// the dispatcher can reroute those keys as focus moves.
func NewSingleLine() *TextBox {
	tb := New()
	tb.singleLine = true
	return tb
}

func (tb *TextBox) SetMasked(masked bool) { tb.masked = masked }

func (tb *TextBox) Masked() bool { return tb.masked }

func (tb *TextBox) SetTabWidth(width int) {
	if width > 0 {
		tb.tabWidth = width
	}
}

func (tb *TextBox) SetHeight(height int) {
	if height > 0 {
		tb.height = height
	}
}

func (tb *TextBox) pageSize() int { return max(tb.height, 1) }

func (tb *TextBox) SingleLine() bool { return tb.singleLine }

// SetText replaces the contents, resets the cursor and drops all history.
func (tb *TextBox) SetText(text string) {
	tb.lines = strings.Split(text, "\n")
	if len(tb.lines) == 0 {
		tb.lines = []string{""}
	}
	tb.cursor = Pos{}
	tb.selStart = nil
	tb.history = newEditHistory(50)
}

func (tb *TextBox) Text() string { return strings.Join(tb.lines, "\n") }

func (tb *TextBox) Lines() []string {
	out := make([]string, len(tb.lines))
	copy(out, tb.lines)
	return out
}

// DisplayLines returns the lines for rendering, masked when the buffer
// holds a secret.
func (tb *TextBox) DisplayLines() []string {
	if !tb.masked {
		return tb.Lines()
	}
	out := make([]string, len(tb.lines))
	for i, line := range tb.lines {
		out[i] = strings.Repeat("*", len([]rune(line)))
	}
	return out
}

func (tb *TextBox) Cursor() Pos { return tb.cursor }

func (tb *TextBox) IsEmpty() bool {
	return len(tb.lines) == 1 && tb.lines[0] == ""
}

// MoveCursor moves without selection, cancelling any active one.
func (tb *TextBox) MoveCursor(move CursorMove) {
	tb.selStart = nil
	if pos, ok := tb.nextCursor(move); ok {
		tb.cursor = pos
	}
}

// MoveCursorWithSelection extends (or starts) a selection while moving.
func (tb *TextBox) MoveCursorWithSelection(move CursorMove) {
	if tb.selStart == nil {
		anchor := tb.cursor
		tb.selStart = &anchor
	}
	if pos, ok := tb.nextCursor(move); ok {
		tb.cursor = pos
	}
}

// JumpTo places the cursor at (row, col), clamped into the buffer.
func (tb *TextBox) JumpTo(row, col int) {
	tb.selStart = nil
	row = min(max(row, 0), len(tb.lines)-1)
	col = min(max(col, 0), len([]rune(tb.lines[row])))
	tb.cursor = Pos{row, col}
}

// Selection returns the ordered selection bounds, if any.
func (tb *TextBox) Selection() (Pos, Pos, bool) {
	if tb.selStart == nil || *tb.selStart == tb.cursor {
		return Pos{}, Pos{}, false
	}
	start, end := *tb.selStart, tb.cursor
	if end.Row < start.Row || (end.Row == start.Row && end.Col < start.Col) {
		start, end = end, start
	}
	return start, end, true
}

func (tb *TextBox) CancelSelection() { tb.selStart = nil }

func (tb *TextBox) record(e edit) {
	e.apply(&tb.lines)
	tb.cursor = e.after
	tb.selStart = nil
	tb.history.push(e)
}

// InsertChar inserts one rune at the cursor. Newlines are routed through
// InsertNewline, tabs through InsertTab.
func (tb *TextBox) InsertChar(r rune) bool {
	switch r {
	case '\n', '\r':
		return tb.InsertNewline()
	case '\t':
		return tb.InsertTab()
	}
	tb.deleteSelectionIfAny()
	tb.record(edit{
		kind:   EditInsertChar,
		ch:     r,
		before: tb.cursor,
		after:  Pos{tb.cursor.Row, tb.cursor.Col + 1},
	})
	return true
}

// InsertString inserts possibly multi-line text at the cursor.
func (tb *TextBox) InsertString(text string) bool {
	if text == "" {
		return false
	}
	tb.deleteSelectionIfAny()
	if tb.singleLine {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		tb.record(edit{
			kind:   EditInsertStr,
			str:    parts[0],
			before: tb.cursor,
			after:  Pos{tb.cursor.Row, tb.cursor.Col + len([]rune(parts[0]))},
		})
		return true
	}
	last := len(parts) - 1
	tb.record(edit{
		kind:   EditInsertChunk,
		chunk:  parts,
		before: tb.cursor,
		after:  Pos{tb.cursor.Row + last, len([]rune(parts[last]))},
	})
	return true
}

func (tb *TextBox) InsertNewline() bool {
	if tb.singleLine {
		return false
	}
	tb.deleteSelectionIfAny()
	tb.record(edit{
		kind:   EditInsertNewline,
		before: tb.cursor,
		after:  Pos{tb.cursor.Row + 1, 0},
	})
	return true
}

// InsertTab inserts the configured number of spaces.
func (tb *TextBox) InsertTab() bool {
	if tb.singleLine {
		return false
	}
	return tb.InsertString(strings.Repeat(" ", tb.tabWidth))
}

// DeleteChar is backspace: it removes the rune before the cursor, joining
// lines at column zero, or removes the selection when one is active.
func (tb *TextBox) DeleteChar() bool {
	if tb.deleteSelectionIfAny() {
		return true
	}
	row, col := tb.cursor.Row, tb.cursor.Col
	if col == 0 {
		if row == 0 {
			return false
		}
		tb.record(edit{
			kind:   EditDeleteNewline,
			before: Pos{row, 0},
			after:  Pos{row - 1, len([]rune(tb.lines[row-1]))},
		})
		return true
	}
	line := []rune(tb.lines[row])
	tb.record(edit{
		kind:   EditDeleteChar,
		ch:     line[col-1],
		before: Pos{row, col},
		after:  Pos{row, col - 1},
	})
	return true
}

// DeleteNextChar removes the rune under the cursor, joining with the next
// line at end of line.
func (tb *TextBox) DeleteNextChar() bool {
	if tb.deleteSelectionIfAny() {
		return true
	}
	row, col := tb.cursor.Row, tb.cursor.Col
	line := []rune(tb.lines[row])
	if col >= len(line) {
		if row+1 >= len(tb.lines) {
			return false
		}
		tb.record(edit{
			kind:   EditDeleteNewline,
			before: Pos{row + 1, 0},
			after:  Pos{row, len(line)},
		})
		return true
	}
	tb.record(edit{
		kind:   EditDeleteChar,
		ch:     line[col],
		before: Pos{row, col + 1},
		after:  Pos{row, col},
	})
	return true
}

// DeleteLineToEnd removes from the cursor to end of line into the yank
// register.
func (tb *TextBox) DeleteLineToEnd() bool {
	row, col := tb.cursor.Row, tb.cursor.Col
	line := []rune(tb.lines[row])
	if col >= len(line) {
		return tb.DeleteNextChar()
	}
	cut := string(line[col:])
	tb.yank = []string{cut}
	tb.record(edit{
		kind:   EditDeleteStr,
		str:    cut,
		before: Pos{row, len(line)},
		after:  Pos{row, col},
	})
	return true
}

// DeleteLineToHead removes from start of line to the cursor.
func (tb *TextBox) DeleteLineToHead() bool {
	row, col := tb.cursor.Row, tb.cursor.Col
	if col == 0 {
		return false
	}
	line := []rune(tb.lines[row])
	cut := string(line[:col])
	tb.yank = []string{cut}
	tb.record(edit{
		kind:   EditDeleteStr,
		str:    cut,
		before: Pos{row, col},
		after:  Pos{row, 0},
	})
	return true
}

// DeleteWord removes the word before the cursor.
func (tb *TextBox) DeleteWord() bool {
	row, col := tb.cursor.Row, tb.cursor.Col
	if col == 0 {
		return tb.DeleteChar()
	}
	line := []rune(tb.lines[row])
	start := findWordStartBackward(line, col)
	if start < 0 {
		start = 0
	}
	cut := string(line[start:col])
	tb.record(edit{
		kind:   EditDeleteStr,
		str:    cut,
		before: Pos{row, col},
		after:  Pos{row, start},
	})
	return true
}

// DeleteNextWord removes from the cursor to the next word start.
func (tb *TextBox) DeleteNextWord() bool {
	row, col := tb.cursor.Row, tb.cursor.Col
	line := []rune(tb.lines[row])
	if col >= len(line) {
		return tb.DeleteNextChar()
	}
	end := findWordStartForward(line, col)
	if end < 0 {
		end = len(line)
	}
	cut := string(line[col:end])
	tb.record(edit{
		kind:   EditDeleteStr,
		str:    cut,
		before: Pos{row, end},
		after:  Pos{row, col},
	})
	return true
}

// Copy stores the selection in the yank register and mirrors it to the
// system clipboard on a best-effort basis.
func (tb *TextBox) Copy() bool {
	text, ok := tb.selectedLines()
	if !ok {
		return false
	}
	tb.yank = text
	_ = clipboard.WriteAll(strings.Join(text, "\n"))
	tb.selStart = nil
	return true
}

// Cut copies the selection and removes it from the buffer.
func (tb *TextBox) Cut() bool {
	text, ok := tb.selectedLines()
	if !ok {
		return false
	}
	tb.yank = text
	_ = clipboard.WriteAll(strings.Join(text, "\n"))
	return tb.deleteSelectionIfAny()
}

// Paste inserts the yank register, falling back to the system clipboard
// when the register is empty.
func (tb *TextBox) Paste() bool {
	text := strings.Join(tb.yank, "\n")
	if text == "" {
		if clip, err := clipboard.ReadAll(); err == nil {
			text = clip
		}
	}
	return tb.InsertString(text)
}

func (tb *TextBox) Undo() bool {
	pos, ok := tb.history.undo(&tb.lines)
	if !ok {
		return false
	}
	tb.cursor = pos
	tb.selStart = nil
	return true
}

func (tb *TextBox) Redo() bool {
	pos, ok := tb.history.redo(&tb.lines)
	if !ok {
		return false
	}
	tb.cursor = pos
	tb.selStart = nil
	return true
}

func (tb *TextBox) selectedLines() ([]string, bool) {
	start, end, ok := tb.Selection()
	if !ok {
		return nil, false
	}
	if start.Row == end.Row {
		line := []rune(tb.lines[start.Row])
		return []string{string(line[start.Col:end.Col])}, true
	}
	out := []string{}
	first := []rune(tb.lines[start.Row])
	out = append(out, string(first[start.Col:]))
	for r := start.Row + 1; r < end.Row; r++ {
		out = append(out, tb.lines[r])
	}
	last := []rune(tb.lines[end.Row])
	out = append(out, string(last[:end.Col]))
	return out, true
}

// deleteSelectionIfAny removes the active selection as one edit.
func (tb *TextBox) deleteSelectionIfAny() bool {
	start, end, ok := tb.Selection()
	if !ok {
		tb.selStart = nil
		return false
	}
	selected, _ := tb.selectedLines()
	if start.Row == end.Row {
		tb.record(edit{
			kind:   EditDeleteStr,
			str:    selected[0],
			before: end,
			after:  start,
		})
		return true
	}
	tb.record(edit{
		kind:   EditDeleteChunk,
		chunk:  selected,
		before: end,
		after:  start,
	})
	return true
}
