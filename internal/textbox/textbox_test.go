package textbox

import (
	"testing"
)

func typeString(tb *TextBox, s string) {
	for _, r := range s {
		tb.InsertChar(r)
	}
}

func TestInsertAndText(t *testing.T) {
	tb := New()
	typeString(tb, "hello")
	tb.InsertNewline()
	typeString(tb, "world")
	if tb.Text() != "hello\nworld" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
	if tb.Cursor() != (Pos{1, 5}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
}

func TestSingleLineRejectsNewlineAndTab(t *testing.T) {
	tb := NewSingleLine()
	typeString(tb, "abc")
	if tb.InsertNewline() {
		t.Fatal("single-line buffer accepted a newline")
	}
	if tb.InsertTab() {
		t.Fatal("single-line buffer accepted a tab")
	}
	if tb.Text() != "abc" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestTabInsertsSpaces(t *testing.T) {
	tb := New()
	tb.SetTabWidth(2)
	tb.InsertTab()
	if tb.Text() != "  " {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestDeleteCharJoinsLines(t *testing.T) {
	tb := New()
	tb.SetText("ab\ncd")
	tb.JumpTo(1, 0)
	if !tb.DeleteChar() {
		t.Fatal("DeleteChar() returned false")
	}
	if tb.Text() != "abcd" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
	if tb.Cursor() != (Pos{0, 2}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
}

func TestDeleteNextCharAtLineEnd(t *testing.T) {
	tb := New()
	tb.SetText("ab\ncd")
	tb.JumpTo(0, 2)
	if !tb.DeleteNextChar() {
		t.Fatal("DeleteNextChar() returned false")
	}
	if tb.Text() != "abcd" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestDeleteLineToEndAndHead(t *testing.T) {
	tb := New()
	tb.SetText("hello world")
	tb.JumpTo(0, 5)
	tb.DeleteLineToEnd()
	if tb.Text() != "hello" {
		t.Fatalf("unexpected text %q", tb.Text())
	}

	tb.SetText("hello world")
	tb.JumpTo(0, 6)
	tb.DeleteLineToHead()
	if tb.Text() != "world" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestDeleteWord(t *testing.T) {
	tb := New()
	tb.SetText("one two three")
	tb.JumpTo(0, 8)
	tb.DeleteWord()
	if tb.Text() != "one three" {
		t.Fatalf("unexpected text %q", tb.Text())
	}

	tb.SetText("one two")
	tb.JumpTo(0, 4)
	tb.DeleteNextWord()
	if tb.Text() != "one " {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestWordMotion(t *testing.T) {
	tb := New()
	tb.SetText("foo bar, baz")
	tb.MoveCursor(MoveWordForward)
	if tb.Cursor() != (Pos{0, 4}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
	tb.MoveCursor(MoveWordForward)
	if tb.Cursor() != (Pos{0, 7}) {
		t.Fatalf("expected punctuation boundary, got %+v", tb.Cursor())
	}
	tb.MoveCursor(MoveEnd)
	tb.MoveCursor(MoveWordBack)
	if tb.Cursor() != (Pos{0, 9}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
}

func TestParagraphMotion(t *testing.T) {
	tb := New()
	tb.SetText("a\n\nb\nc\n\nd")
	tb.MoveCursor(MoveParagraphForward)
	if tb.Cursor().Row != 2 {
		t.Fatalf("expected row 2, got %d", tb.Cursor().Row)
	}
	tb.MoveCursor(MoveParagraphForward)
	if tb.Cursor().Row != 5 {
		t.Fatalf("expected row 5, got %d", tb.Cursor().Row)
	}
	tb.MoveCursor(MoveParagraphBack)
	if tb.Cursor().Row != 2 {
		t.Fatalf("expected row 2 going back, got %d", tb.Cursor().Row)
	}
}

func TestSelectionCopyCutPaste(t *testing.T) {
	tb := New()
	tb.SetText("hello world")
	tb.JumpTo(0, 0)
	for i := 0; i < 5; i++ {
		tb.MoveCursorWithSelection(MoveForward)
	}
	if !tb.Cut() {
		t.Fatal("Cut() returned false")
	}
	if tb.Text() != " world" {
		t.Fatalf("unexpected text after cut %q", tb.Text())
	}
	tb.MoveCursor(MoveEnd)
	if !tb.Paste() {
		t.Fatal("Paste() returned false")
	}
	if tb.Text() != " worldhello" {
		t.Fatalf("unexpected text after paste %q", tb.Text())
	}
}

func TestMultiLineSelectionDelete(t *testing.T) {
	tb := New()
	tb.SetText("alpha\nbeta\ngamma")
	tb.JumpTo(0, 2)
	for i := 0; i < 2; i++ {
		tb.MoveCursorWithSelection(MoveDown)
	}
	tb.MoveCursorWithSelection(MoveHead)
	// Selection spans (0,2) to (2,0).
	if !tb.Cut() {
		t.Fatal("Cut() returned false")
	}
	if tb.Text() != "algamma" {
		t.Fatalf("unexpected text %q", tb.Text())
	}

	if !tb.Undo() {
		t.Fatal("Undo() returned false")
	}
	if tb.Text() != "alpha\nbeta\ngamma" {
		t.Fatalf("undo did not restore text, got %q", tb.Text())
	}
}

func TestUndoRedoRestoresCursor(t *testing.T) {
	tb := New()
	typeString(tb, "ab")
	tb.InsertNewline()
	typeString(tb, "c")

	for tb.Undo() {
	}
	if tb.Text() != "" {
		t.Fatalf("expected empty buffer, got %q", tb.Text())
	}
	if tb.Cursor() != (Pos{0, 0}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}

	for tb.Redo() {
	}
	if tb.Text() != "ab\nc" {
		t.Fatalf("expected text restored, got %q", tb.Text())
	}
	if tb.Cursor() != (Pos{1, 1}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
}

func TestUndoTruncatesFuture(t *testing.T) {
	tb := New()
	typeString(tb, "ab")
	tb.Undo()
	typeString(tb, "x")
	if tb.Redo() {
		t.Fatal("expected redo history truncated")
	}
	if tb.Text() != "ax" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
}

func TestInsertStringMultiline(t *testing.T) {
	tb := New()
	tb.SetText("startend")
	tb.JumpTo(0, 5)
	tb.InsertString("one\ntwo\nthree")
	if tb.Text() != "startone\ntwo\nthreeend" {
		t.Fatalf("unexpected text %q", tb.Text())
	}
	if tb.Cursor() != (Pos{2, 5}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
	tb.Undo()
	if tb.Text() != "startend" {
		t.Fatalf("undo did not remove chunk, got %q", tb.Text())
	}
}

func TestMaskedDisplay(t *testing.T) {
	tb := NewSingleLine()
	tb.SetMasked(true)
	typeString(tb, "secret")
	lines := tb.DisplayLines()
	if lines[0] != "******" {
		t.Fatalf("unexpected masked line %q", lines[0])
	}
	if tb.Text() != "secret" {
		t.Fatalf("mask must not change contents, got %q", tb.Text())
	}
}

func TestJumpClamps(t *testing.T) {
	tb := New()
	tb.SetText("ab\ncd")
	tb.JumpTo(9, 9)
	if tb.Cursor() != (Pos{1, 2}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
	tb.JumpTo(-1, -1)
	if tb.Cursor() != (Pos{0, 0}) {
		t.Fatalf("unexpected cursor %+v", tb.Cursor())
	}
}
