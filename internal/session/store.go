package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store keeps the reader state of the local owner in state.json.
type Store struct {
	path string
}

func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, "state.json")}
}

// Load returns the saved state. A missing file is the default state; an
// unreadable one is the default state plus an error describing why.
func (s *Store) Load() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("read state: %w", err)
	}

	state := Default()
	if err := json.Unmarshal(data, &state); err != nil {
		return Default(), fmt.Errorf("decode %s: %w", s.path, err)
	}
	return state, nil
}

// Save replaces state.json through a temporary file so a crash mid-write
// leaves the previous state in place.
func (s *Store) Save(state State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
