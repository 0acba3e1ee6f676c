// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned by Load when no blob exists for the key.
	ErrNotFound = errors.New("model blob not found")

	// ErrChecksumMismatch is returned by Load when the stored checksum does
	// not match the decompressed payload.
	ErrChecksumMismatch = errors.New("model blob checksum mismatch")
)

// BlobMetadata describes one stored blob.
type BlobMetadata struct {
	// Key is the storage key, e.g. "user_models".
	Key string `json:"key"`

	// Version is caller-defined and monotonically increasing per key.
	Version int `json:"version"`

	// Entries is the number of logical records in the blob (users, for models).
	Entries int `json:"entries"`

	// SavedAt is when the blob was written.
	SavedAt time.Time `json:"saved_at"`

	// Checksum is the SHA-256 checksum of the raw gob data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed payload size.
	SizeBytes int64 `json:"size_bytes"`
}

// Persister stores and restores gob-encodable values by key.
type Persister interface {
	// Save encodes data and stores it under key, replacing any previous blob.
	Save(ctx context.Context, key string, data any, meta BlobMetadata) error

	// Load decodes the blob stored under key into target.
	// Returns ErrNotFound when the key is absent.
	Load(ctx context.Context, key string, target any) (*BlobMetadata, error)

	// Backend names the implementation for logs and metrics.
	Backend() string

	Close() error
}

// storedBlob is the envelope shared by all backends.
type storedBlob struct {
	Metadata       BlobMetadata
	CompressedData []byte
}

// encodeBlob serializes data into the envelope format.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func encodeBlob(key string, data any, meta BlobMetadata) ([]byte, BlobMetadata, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, meta, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)
	meta.Checksum = hex.EncodeToString(hash[:])

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return nil, meta, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return nil, meta, fmt.Errorf("finalize compression: %w", err)
	}

	meta.Key = key
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(storedBlob{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return nil, meta, fmt.Errorf("encode envelope: %w", err)
	}
	return out.Bytes(), meta, nil
}

// decodeBlob verifies and decodes an envelope into target.
func decodeBlob(raw []byte, target any) (*BlobMetadata, error) {
	var sb storedBlob
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&sb); err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sb.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sb.Metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, sb.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}

	return &sb.Metadata, nil
}
