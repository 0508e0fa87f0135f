// Package filestore persists the aggregate as a single JSON document.
//
// Every Load reads the whole file and every Save rewrites it: the document is
// written to a temporary file in the same directory which is then renamed over
// the canonical path, so readers never observe a partial write. There is no
// locking across load/modify/save cycles; concurrent writers race and the last
// Save wins.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"topicwheel/internal/domain"
)

// Store is a file-backed aggregate store.
type Store struct {
	path string
}

// New creates a Store for the JSON document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the canonical document path.
func (s *Store) Path() string { return s.path }

// Load reads the aggregate. An absent document is created empty.
func (s *Store) Load(ctx context.Context) (*domain.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		st := domain.NewState()
		if err := s.Save(ctx, st); err != nil {
			return nil, err
		}
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", s.path, err)
	}

	var st domain.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", s.path, err)
	}
	st.Normalize()
	return &st, nil
}

// Save atomically replaces the document with st.
func (s *Store) Save(ctx context.Context, st *domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("filestore: create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("filestore: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("filestore: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("filestore: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("filestore: chmod temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("filestore: rename: %w", err)
	}
	return nil
}

// Ping checks that the document exists and is readable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("filestore: %w", err)
	}
	return f.Close()
}
