// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

// Package storage persists trained user models as opaque blobs.
//
// The recommend package treats the full user-model collection as one value
// and hands it to a Persister under a fixed key. This package neither knows
// nor cares what is inside the blob.
//
// # Storage Format
//
// Every backend writes the same envelope:
//
//	structure:
//	  - Metadata (BlobMetadata, including a SHA-256 checksum of the raw gob data)
//	  - CompressedData (gzip-compressed gob-encoded value)
//
// The checksum is verified on Load; a mismatch yields ErrChecksumMismatch.
//
// # Backends
//
//   - FileStore: one {key}.gob.gz file per key, written via temp file and rename
//   - BadgerStore: one BadgerDB entry per key under the "model:" prefix
//   - BreakerStore: wraps either backend with a sony/gobreaker circuit breaker
//
// # Thread Safety
//
// All backends are safe for concurrent use.
package storage
