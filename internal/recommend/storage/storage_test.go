// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package storage

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

type testState struct {
	Users map[string][]float64
	Note  string
}

func newTestState() testState {
	return testState{
		Users: map[string][]float64{
			"alice": {1, 2, 3},
			"bob":   {0.5},
		},
		Note: "v1",
	}
}

func backends(t *testing.T) map[string]Persister {
	t.Helper()

	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	bs, err := OpenBadgerStore("")
	if err != nil {
		t.Fatalf("OpenBadgerStore: %v", err)
	}
	t.Cleanup(func() { _ = bs.Close() })

	return map[string]Persister{"file": fs, "badger": bs}
}

func TestPersister_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := newTestState()
			if err := p.Save(ctx, "user_models", want, BlobMetadata{Version: 3, Entries: 2}); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			var got testState
			meta, err := p.Load(ctx, "user_models", &got)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if meta.Version != 3 || meta.Entries != 2 || meta.Key != "user_models" {
				t.Errorf("metadata = %+v", meta)
			}
			if meta.Checksum == "" || meta.SizeBytes == 0 {
				t.Errorf("checksum/size not populated: %+v", meta)
			}
			if len(got.Users["alice"]) != 3 || got.Note != "v1" {
				t.Errorf("decoded = %+v", got)
			}
		})
	}
}

func TestPersister_LoadMissing(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var got testState
			if _, err := p.Load(ctx, "absent", &got); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestPersister_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	for name, p := range backends(t) {
		t.Run(name, func(t *testing.T) {
			first := newTestState()
			second := testState{Users: map[string][]float64{"carol": {9}}, Note: "v2"}

			if err := p.Save(ctx, "k", first, BlobMetadata{Version: 1}); err != nil {
				t.Fatalf("Save(first) error = %v", err)
			}
			if err := p.Save(ctx, "k", second, BlobMetadata{Version: 2}); err != nil {
				t.Fatalf("Save(second) error = %v", err)
			}

			var got testState
			meta, err := p.Load(ctx, "k", &got)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if meta.Version != 2 || got.Note != "v2" || len(got.Users) != 1 {
				t.Errorf("got version %d note %q users %d", meta.Version, got.Note, len(got.Users))
			}
		})
	}
}

func TestFileStore_CorruptBlob(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user_models.gob.gz"), []byte("not a gob"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var got testState
	if _, err := fs.Load(context.Background(), "user_models", &got); err == nil {
		t.Fatal("Load() on corrupt blob should fail")
	}
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := fs.Save(context.Background(), "user_models", newTestState(), BlobMetadata{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "user_models.gob.gz" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only user_models.gob.gz", names)
	}
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b"} {
		if err := fs.Save(context.Background(), key, newTestState(), BlobMetadata{}); err == nil {
			t.Errorf("Save(%q) should fail", key)
		}
	}
}

func TestDecodeBlob_ChecksumMismatch(t *testing.T) {
	raw, _, err := encodeBlob("k", newTestState(), BlobMetadata{})
	if err != nil {
		t.Fatalf("encodeBlob: %v", err)
	}

	var sb storedBlob
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&sb); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	sb.Metadata.Checksum = "deadbeef"
	var tampered bytes.Buffer
	if err := gob.NewEncoder(&tampered).Encode(sb); err != nil {
		t.Fatalf("encode envelope: %v", err)
	}

	var target testState
	if _, err := decodeBlob(tampered.Bytes(), &target); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("decodeBlob(tampered) error = %v, want ErrChecksumMismatch", err)
	}
}

// flakyStore fails Save until healthy is set.
type flakyStore struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (f *flakyStore) Save(ctx context.Context, key string, data any, meta BlobMetadata) error {
	f.calls.Add(1)
	if !f.healthy.Load() {
		return errors.New("disk unavailable")
	}
	return nil
}

func (f *flakyStore) Load(ctx context.Context, key string, target any) (*BlobMetadata, error) {
	f.calls.Add(1)
	return nil, ErrNotFound
}

func (f *flakyStore) Backend() string { return "flaky" }
func (f *flakyStore) Close() error    { return nil }

func TestBreakerStore_OpensAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyStore{}
	bs := NewBreakerStore(inner, BreakerConfig{Name: "test-open", MaxFailures: 2, Timeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := bs.Save(ctx, "k", 1, BlobMetadata{}); err == nil {
			t.Fatalf("Save #%d should fail", i)
		}
	}
	if bs.State() != gobreaker.StateOpen {
		t.Fatalf("State() = %v, want open", bs.State())
	}

	before := inner.calls.Load()
	err := bs.Save(ctx, "k", 1, BlobMetadata{})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Save() with open circuit error = %v, want ErrOpenState", err)
	}
	if inner.calls.Load() != before {
		t.Error("open circuit should not reach the backend")
	}
}

func TestBreakerStore_NotFoundDoesNotTrip(t *testing.T) {
	inner := &flakyStore{}
	bs := NewBreakerStore(inner, BreakerConfig{Name: "test-notfound", MaxFailures: 1, Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		var v int
		if _, err := bs.Load(context.Background(), "k", &v); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Load() error = %v, want ErrNotFound", err)
		}
	}
	if bs.State() != gobreaker.StateClosed {
		t.Errorf("State() = %v, want closed", bs.State())
	}
}

func TestBreakerStore_Backend(t *testing.T) {
	bs := NewBreakerStore(&flakyStore{}, BreakerConfig{Name: "test-backend"})
	if bs.Backend() != "flaky" {
		t.Errorf("Backend() = %q, want flaky", bs.Backend())
	}
}
