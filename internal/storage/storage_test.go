package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hylla/kanto/internal/domain"
)

func sampleBoards(t *testing.T) domain.Boards {
	t.Helper()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	b, err := domain.NewBoard("Todo", "things")
	if err != nil {
		t.Fatalf("NewBoard() error = %v", err)
	}
	c, err := domain.NewCard(domain.CardInput{
		Name:        "Write spec",
		Description: "first draft",
		DueDate:     "15-03-2030",
		Tags:        []string{"docs"},
	}, now)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if err := b.AddCard(c); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	return domain.Boards{b}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	boards := sampleBoards(t)
	data, err := Encode(boards)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	redone, err := Encode(decoded)
	if err != nil {
		t.Fatalf("Encode() second error = %v", err)
	}
	if string(data) != string(redone) {
		t.Fatalf("round trip mismatch:\n%s\n%s", data, redone)
	}
}

func TestSaveNamingAndVersioning(t *testing.T) {
	store := New(t.TempDir())
	boards := sampleBoards(t)
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	name1, err := store.Save(boards, now)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if name1 != "kanban_15-03-2026_v1.json" {
		t.Fatalf("unexpected save name %q", name1)
	}

	name2, err := store.Save(boards, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if name2 != "kanban_15-03-2026_v2.json" {
		t.Fatalf("unexpected save name %q", name2)
	}

	name3, err := store.Save(boards, now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if name3 != "kanban_16-03-2026_v1.json" {
		t.Fatalf("unexpected save name %q", name3)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.Name != name3 {
		t.Fatalf("expected latest %q, got %q", name3, latest.Name)
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	for _, name := range []string{"notes.txt", "kanban_junk.json", "kanban_01-01-2026_vx.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}
	saves, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(saves) != 0 {
		t.Fatalf("expected no recognized saves, got %#v", saves)
	}
	if _, err := store.Latest(); !errors.Is(err, ErrNoSaves) {
		t.Fatalf("expected ErrNoSaves, got %v", err)
	}
}

func TestLoadLatestRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	boards := sampleBoards(t)
	now := time.Now()

	if _, err := store.Save(boards, now); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Todo" {
		t.Fatalf("unexpected boards %#v", loaded)
	}
	if len(loaded[0].Cards) != 1 || loaded[0].Cards[0].Name != "Write spec" {
		t.Fatalf("unexpected cards %#v", loaded[0].Cards)
	}
	if loaded[0].Cards[0].Description != "first draft" || loaded[0].Cards[0].DueDate != "15-03-2030" {
		t.Fatalf("unexpected card fields %#v", loaded[0].Cards[0])
	}
}

func TestSaveRequired(t *testing.T) {
	store := New(t.TempDir())
	boards := sampleBoards(t)

	required, err := store.SaveRequired(boards)
	if err != nil {
		t.Fatalf("SaveRequired() error = %v", err)
	}
	if !required {
		t.Fatal("expected save required with no saves on disk")
	}

	if _, err := store.Save(boards, time.Now()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	required, err = store.SaveRequired(boards)
	if err != nil {
		t.Fatalf("SaveRequired() error = %v", err)
	}
	if required {
		t.Fatal("expected no save required right after saving")
	}

	boards[0].Cards[0].Name = "changed"
	required, err = store.SaveRequired(boards)
	if err != nil {
		t.Fatalf("SaveRequired() error = %v", err)
	}
	if !required {
		t.Fatal("expected save required after mutation")
	}
}

func TestDelete(t *testing.T) {
	store := New(t.TempDir())
	name, err := store.Save(sampleBoards(t), time.Now())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete(name); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(name); !errors.Is(err, ErrSaveNotFound) {
		t.Fatalf("expected ErrSaveNotFound, got %v", err)
	}
}
