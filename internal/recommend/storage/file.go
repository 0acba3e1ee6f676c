// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps one compressed blob file per key in a directory.
type FileStore struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileStore creates a file store at the given directory.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Backend returns "file".
func (s *FileStore) Backend() string { return "file" }

// Save writes the blob to a temp file and renames it over the previous one,
// so a crash mid-write never leaves a truncated blob behind.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *FileStore) Save(ctx context.Context, key string, data any, meta BlobMetadata) error {
	if err := validKey(key); err != nil {
		return err
	}

	raw, _, err := encodeBlob(key, data, meta)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("sync model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("replace model file: %w", err)
	}
	return nil
}

// Load reads and verifies the blob stored under key.
func (s *FileStore) Load(ctx context.Context, key string, target any) (*BlobMetadata, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, err := os.ReadFile(s.path(key))
	s.mu.RUnlock()

	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}

	return decodeBlob(raw, target)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, key+".gob.gz")
}

func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

var _ Persister = (*FileStore)(nil)
