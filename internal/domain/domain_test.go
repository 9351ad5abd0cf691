package domain

import (
	"testing"
	"time"
)

func TestNewBoardValidation(t *testing.T) {
	if _, err := NewBoard("   ", ""); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	b, err := NewBoard("  Todo ", " things to do ")
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	if b.Name != "Todo" || b.Description != "things to do" {
		t.Fatalf("unexpected board %#v", b)
	}
}

func TestNewCardDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c, err := NewCard(CardInput{
		Name: "  Write draft ",
		Tags: []string{"urgent", "urgent", " ", "docs"},
	}, now)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if c.Status != StatusActive {
		t.Fatalf("expected active status, got %q", c.Status)
	}
	if c.Priority != PriorityMedium {
		t.Fatalf("expected default medium, got %q", c.Priority)
	}
	if c.DueDate != FieldNotSet {
		t.Fatalf("expected unset due date, got %q", c.DueDate)
	}
	if len(c.Tags) != 2 {
		t.Fatalf("unexpected tags %#v", c.Tags)
	}
	if c.CompletedAt != nil {
		t.Fatal("expected no completion stamp")
	}
}

func TestCardStatusCoherence(t *testing.T) {
	now := time.Now()
	c, err := NewCard(CardInput{Name: "x"}, now)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if err := c.SetStatus(StatusComplete, now.Add(time.Minute)); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if c.CompletedAt == nil {
		t.Fatal("expected completion stamp after completing")
	}
	if err := c.SetStatus(StatusStale, now.Add(2*time.Minute)); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if c.CompletedAt != nil {
		t.Fatal("expected completion stamp cleared")
	}
	if err := c.SetStatus(CardStatus("bogus"), now); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestBoardDuplicateCardNames(t *testing.T) {
	now := time.Now()
	b, _ := NewBoard("Todo", "")
	c1, _ := NewCard(CardInput{Name: "task"}, now)
	if err := b.AddCard(c1); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	c2, _ := NewCard(CardInput{Name: "Task"}, now)
	if err := b.AddCard(c2); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	c3, _ := NewCard(CardInput{Name: "other"}, now)
	if err := b.AddCard(c3); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	edited := b.Cards[1]
	edited.Name = "task"
	if err := b.ReplaceCard(edited, now); err != ErrDuplicateName {
		t.Fatalf("expected ErrDuplicateName on edit, got %v", err)
	}
}

func TestParseDueDateFormats(t *testing.T) {
	tests := []struct {
		raw       string
		preferred DateTimeFormat
		ok        bool
	}{
		{"15/03/2030", DayMonthYear, true},
		{"03/15/2030", MonthDayYear, true},
		{"2030/03/15", YearMonthDay, true},
		{"15/03/2030-10:30:00", DayMonthYearTime, true},
		{"15-03-2030", DayMonthYear, true},
		{"Not Set", DayMonthYear, false},
		{"", DayMonthYear, false},
		{"soon", DayMonthYear, false},
	}
	for _, tt := range tests {
		if _, ok := ParseDueDate(tt.raw, tt.preferred); ok != tt.ok {
			t.Fatalf("ParseDueDate(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
		}
	}
}

func TestFilterByTags(t *testing.T) {
	now := time.Now()
	a, _ := NewBoard("A", "")
	b, _ := NewBoard("B", "")
	c1, _ := NewCard(CardInput{Name: "c1", Tags: []string{"urgent"}}, now)
	c2, _ := NewCard(CardInput{Name: "c2", Tags: []string{"later"}}, now)
	c3, _ := NewCard(CardInput{Name: "c3", Tags: []string{"urgent"}}, now)
	_ = a.AddCard(c1)
	_ = a.AddCard(c3)
	_ = b.AddCard(c2)
	boards := Boards{a, b}

	filtered, err := boards.FilterByTags([]string{"urgent"})
	if err != nil {
		t.Fatalf("FilterByTags() error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "A" {
		t.Fatalf("unexpected filtered set %#v", filtered)
	}
	if len(filtered[0].Cards) != 2 {
		t.Fatalf("expected two urgent cards, got %d", len(filtered[0].Cards))
	}
	if len(boards[0].Cards) != 2 || len(boards[1].Cards) != 1 {
		t.Fatal("filtering must not mutate the authoritative set")
	}

	if _, err := boards.FilterByTags(nil); err != ErrNothingToFilter {
		t.Fatalf("expected ErrNothingToFilter, got %v", err)
	}
}

func TestAllTags(t *testing.T) {
	now := time.Now()
	a, _ := NewBoard("A", "")
	c1, _ := NewCard(CardInput{Name: "c1", Tags: []string{"b", "a"}}, now)
	c2, _ := NewCard(CardInput{Name: "c2", Tags: []string{"a", "c"}}, now)
	_ = a.AddCard(c1)
	_ = a.AddCard(c2)
	tags := Boards{a}.AllTags()
	if len(tags) != 3 || tags[0] != "a" || tags[1] != "b" || tags[2] != "c" {
		t.Fatalf("unexpected tag union %#v", tags)
	}
}

func testBoards(t *testing.T, counts ...int) Boards {
	t.Helper()
	now := time.Now()
	boards := Boards{}
	for i, n := range counts {
		b, err := NewBoard(string(rune('A'+i)), "")
		if err != nil {
			t.Fatalf("NewBoard() error = %v", err)
		}
		for j := 0; j < n; j++ {
			c, err := NewCard(CardInput{Name: string(rune('a'+i)) + string(rune('0'+j))}, now)
			if err != nil {
				t.Fatalf("NewCard() error = %v", err)
			}
			if err := b.AddCard(c); err != nil {
				t.Fatalf("AddCard() error = %v", err)
			}
		}
		boards = append(boards, b)
	}
	return boards
}

func TestProjectionWindowLimits(t *testing.T) {
	boards := testBoards(t, 5, 5, 5, 5)
	p := NewProjection(2, 3)
	p.Refresh(boards)
	if p.Len() != 2 {
		t.Fatalf("expected 2 visible boards, got %d", p.Len())
	}
	for _, id := range p.BoardIDs() {
		cards, ok := p.CardsFor(id)
		if !ok || len(cards) != 3 {
			t.Fatalf("expected 3 visible cards, got %d", len(cards))
		}
		board, ok := boards.Get(id)
		if !ok {
			t.Fatal("projection references a missing board")
		}
		for _, cardID := range cards {
			if board.CardIndex(cardID) < 0 {
				t.Fatal("projection references a missing card")
			}
		}
	}
}

func TestNavigationRightSlidesWindow(t *testing.T) {
	boards := testBoards(t, 1, 1, 1)
	p := NewProjection(2, 3)
	p.Refresh(boards)
	sel := p.EnsureSelection(boards, Selection{})

	res := p.GoRight(boards, sel)
	if res.Notice != "" {
		t.Fatalf("unexpected notice %q", res.Notice)
	}
	if *res.Selection.BoardID != boards[1].ID {
		t.Fatal("expected selection on second board")
	}

	res = p.GoRight(boards, res.Selection)
	if *res.Selection.BoardID != boards[2].ID {
		t.Fatal("expected selection on third board after slide")
	}
	ids := p.BoardIDs()
	if len(ids) != 2 || ids[0] != boards[1].ID || ids[1] != boards[2].ID {
		t.Fatalf("unexpected window after slide right")
	}

	res = p.GoRight(boards, res.Selection)
	if res.Notice == "" {
		t.Fatal("expected boundary notice at last board")
	}
}

func TestNavigationLeftSlidesWindow(t *testing.T) {
	boards := testBoards(t, 1, 1, 1)
	p := NewProjection(2, 3)
	p.Refresh(boards)
	sel := p.EnsureSelection(boards, Selection{})

	sel = p.GoRight(boards, sel).Selection
	sel = p.GoRight(boards, sel).Selection

	res := p.GoLeft(boards, sel)
	if *res.Selection.BoardID != boards[1].ID {
		t.Fatal("expected selection back on second board")
	}
	res = p.GoLeft(boards, res.Selection)
	if *res.Selection.BoardID != boards[0].ID {
		t.Fatal("expected selection back on first board after slide")
	}
	ids := p.BoardIDs()
	if ids[0] != boards[0].ID {
		t.Fatal("expected first board revealed at window head")
	}
	res = p.GoLeft(boards, res.Selection)
	if res.Notice == "" {
		t.Fatal("expected boundary notice at first board")
	}
}

func TestNavigationVerticalSlidesWindow(t *testing.T) {
	boards := testBoards(t, 4)
	p := NewProjection(1, 2)
	p.Refresh(boards)
	sel := p.EnsureSelection(boards, Selection{})
	board := boards[0]

	res := p.GoDown(boards, sel)
	if *res.Selection.CardID != board.Cards[1].ID {
		t.Fatal("expected second card selected")
	}
	res = p.GoDown(boards, res.Selection)
	if *res.Selection.CardID != board.Cards[2].ID {
		t.Fatal("expected third card selected after slide")
	}
	cards, _ := p.CardsFor(board.ID)
	if len(cards) != 2 || cards[1] != board.Cards[2].ID {
		t.Fatalf("unexpected card window after slide down")
	}

	res = p.GoDown(boards, res.Selection)
	res = p.GoDown(boards, res.Selection)
	if res.Notice == "" {
		t.Fatal("expected boundary notice at last card")
	}

	for i := 0; i < 3; i++ {
		res = p.GoUp(boards, res.Selection)
	}
	if *res.Selection.CardID != board.Cards[0].ID {
		t.Fatal("expected first card selected after sliding up")
	}
	res = p.GoUp(boards, res.Selection)
	if res.Notice == "" {
		t.Fatal("expected boundary notice at first card")
	}
}

func TestNavigationTotality(t *testing.T) {
	boards := testBoards(t, 3, 0, 2)
	p := NewProjection(2, 2)
	p.Refresh(boards)
	sel := p.EnsureSelection(boards, Selection{})

	steps := []func(Boards, Selection) NavResult{
		p.GoRight, p.GoDown, p.GoDown, p.GoRight, p.GoLeft,
		p.GoUp, p.GoUp, p.GoLeft, p.GoLeft, p.GoRight,
	}
	for i, step := range steps {
		res := step(boards, sel)
		sel = res.Selection
		if sel.BoardID == nil {
			t.Fatalf("step %d cleared the board selection", i)
		}
		board, ok := boards.Get(*sel.BoardID)
		if !ok {
			t.Fatalf("step %d selected a missing board", i)
		}
		if sel.CardID != nil && board.CardIndex(*sel.CardID) < 0 {
			t.Fatalf("step %d selected a missing card", i)
		}
	}
}

func TestMoveCardBetweenBoards(t *testing.T) {
	boards := testBoards(t, 2, 1)
	card := boards[0].Cards[0]
	err := MoveCardBetweenBoards(boards, card.ID, boards[0].ID, boards[1].ID, 0)
	if err != nil {
		t.Fatalf("MoveCardBetweenBoards() error = %v", err)
	}
	if len(boards[0].Cards) != 1 || len(boards[1].Cards) != 2 {
		t.Fatalf("unexpected card counts after move")
	}
	if boards[1].Cards[0].ID != card.ID {
		t.Fatal("expected moved card at destination index 0")
	}
}

func TestMoveCardWithinBoard(t *testing.T) {
	boards := testBoards(t, 3)
	first := boards[0].Cards[0].ID
	third := boards[0].Cards[2].ID
	if err := MoveCardWithinBoard(boards, boards[0].ID, 0, 2); err != nil {
		t.Fatalf("MoveCardWithinBoard() error = %v", err)
	}
	if boards[0].Cards[0].ID != third || boards[0].Cards[2].ID != first {
		t.Fatal("expected cards swapped")
	}
	if err := MoveCardWithinBoard(boards, boards[0].ID, 0, 9); err != ErrIndexOutOfRange {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}
