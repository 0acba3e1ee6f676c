// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const modelKeyPrefix = "model:"

// BadgerStore keeps blobs in a BadgerDB key-value store.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a BadgerDB database at path.
// An empty path opens an in-memory database, which tests use.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = true

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Backend returns "badger".
func (s *BadgerStore) Backend() string { return "badger" }

// Save stores the blob under key in a single transaction.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *BadgerStore) Save(ctx context.Context, key string, data any, meta BlobMetadata) error {
	raw, _, err := encodeBlob(key, data, meta)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(modelKeyPrefix+key), raw); err != nil {
			return fmt.Errorf("set model: %w", err)
		}
		return nil
	})
}

// Load reads and verifies the blob stored under key.
func (s *BadgerStore) Load(ctx context.Context, key string, target any) (*BlobMetadata, error) {
	var raw []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(modelKeyPrefix + key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get model: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return decodeBlob(raw, target)
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Persister = (*BadgerStore)(nil)
