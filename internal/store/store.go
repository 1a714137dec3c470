// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Roadmap Kit - Roadmap Kit keeps a project's roadmap.json in sync with the tagged commits of its Git repository.
It parses commit messages for task, status and technical-debt tags and reconciles them into a persistent feature/task graph.

Copyright (C) 2025  The Roadmap Kit Authors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package store persists the roadmap document and its version snapshots as
// whole JSON files.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hacklet1101/roadmap-kit/internal/roadmap"
)

// ErrNotFound is returned when the roadmap document does not exist.
var ErrNotFound = errors.New("roadmap not found")

// Documents reads and writes the whole roadmap document.
type Documents interface {
	Load() (*roadmap.Roadmap, error)
	Save(r *roadmap.Roadmap) error
}

// FileStore keeps the roadmap in a single JSON file.
type FileStore struct {
	path string
}

var _ Documents = (*FileStore)(nil)

// NewFileStore creates a store for the roadmap file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the roadmap file location.
func (s *FileStore) Path() string { return s.path }

// Exists reports whether the roadmap file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads and decodes the roadmap. A missing file yields ErrNotFound.
func (s *FileStore) Load() (*roadmap.Roadmap, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // G304: path comes from project configuration
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading roadmap: %w", err)
	}
	r, err := roadmap.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return r, nil
}

// Save encodes the roadmap and replaces the file in one rename.
func (s *FileStore) Save(r *roadmap.Roadmap) error {
	data, err := roadmap.Encode(r)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("saving roadmap: %w", err)
	}
	return nil
}

// WriteFileAtomic writes content to a temporary file next to path and renames
// it into place, so readers never observe a partial file.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving temp file to %s: %w", path, err)
	}
	return nil
}
