// Package storage reads and writes the local JSON save files.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/hylla/kanto/internal/domain"
)

var (
	ErrNoSaves      = errors.New("no save files found")
	ErrSaveNotFound = errors.New("save file not found")
)

// saveFilePattern matches kanban_<DD-MM-YYYY>_v<N>.json.
var saveFilePattern = regexp.MustCompile(`^kanban_(\d{2})-(\d{2})-(\d{4})_v(\d+)\.json$`)

// SaveFile identifies one save on disk.
type SaveFile struct {
	Name    string
	Date    time.Time
	Version int
}

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Encode serializes the board set in the on-disk format.
func Encode(boards domain.Boards) ([]byte, error) {
	data, err := json.MarshalIndent(boards, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode boards: %w", err)
	}
	return data, nil
}

// Decode reverses Encode.
func Decode(data []byte) (domain.Boards, error) {
	var boards domain.Boards
	if err := json.Unmarshal(data, &boards); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}
	return boards, nil
}

// Save writes a new versioned save file for today and returns its name.
func (s *Store) Save(boards domain.Boards, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	data, err := Encode(boards)
	if err != nil {
		return "", err
	}

	version := 1
	saves, err := s.List()
	if err != nil {
		return "", err
	}
	day := now.Format("02-01-2006")
	for _, save := range saves {
		if save.Date.Format("02-01-2006") == day && save.Version >= version {
			version = save.Version + 1
		}
	}

	name := fmt.Sprintf("kanban_%s_v%d.json", day, version)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write save: %w", err)
	}
	return name, nil
}

// List returns every save file sorted oldest first, by date then version.
func (s *Store) List() ([]SaveFile, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read save dir: %w", err)
	}

	saves := []SaveFile{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := saveFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse("02-01-2006", m[1]+"-"+m[2]+"-"+m[3])
		if err != nil {
			continue
		}
		version := 0
		fmt.Sscanf(m[4], "%d", &version)
		saves = append(saves, SaveFile{Name: entry.Name(), Date: date, Version: version})
	}
	sort.Slice(saves, func(i, j int) bool {
		if !saves[i].Date.Equal(saves[j].Date) {
			return saves[i].Date.Before(saves[j].Date)
		}
		return saves[i].Version < saves[j].Version
	})
	return saves, nil
}

// Latest returns the newest save file.
func (s *Store) Latest() (SaveFile, error) {
	saves, err := s.List()
	if err != nil {
		return SaveFile{}, err
	}
	if len(saves) == 0 {
		return SaveFile{}, ErrNoSaves
	}
	return saves[len(saves)-1], nil
}

// Load reads one save file by name.
func (s *Store) Load(name string) (domain.Boards, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrSaveNotFound
		}
		return nil, fmt.Errorf("read save: %w", err)
	}
	return Decode(data)
}

// LoadLatest reads the newest save file.
func (s *Store) LoadLatest() (domain.Boards, error) {
	latest, err := s.Latest()
	if err != nil {
		return nil, err
	}
	return s.Load(latest.Name)
}

// Delete removes one save file by name.
func (s *Store) Delete(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return ErrSaveNotFound
	}
	return err
}

// SaveRequired reports whether the state differs from the latest save.
// With no saves on disk, any non-empty state requires one.
func (s *Store) SaveRequired(boards domain.Boards) (bool, error) {
	latest, err := s.Latest()
	if errors.Is(err, ErrNoSaves) {
		return len(boards) > 0, nil
	}
	if err != nil {
		return false, err
	}
	onDisk, err := os.ReadFile(filepath.Join(s.dir, latest.Name))
	if err != nil {
		return false, fmt.Errorf("read save: %w", err)
	}
	current, err := Encode(boards)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(bytes.TrimSpace(onDisk), bytes.TrimSpace(current)), nil
}
