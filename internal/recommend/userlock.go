// Hybrid Music Recommender - LLM and Reinforcement Learning Personalization
// Copyright 2026 abhishekbiswas772
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abhishekbiswas772/hybrid-music-recommender-agentic-ai

package recommend

import (
	"sync"
)

// userLocks serializes training per user. Entries are reference counted and
// removed once no goroutine holds or waits on them.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

func (l *userLocks) acquire(userID string) *userLock {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()
	return ul
}

func (l *userLocks) release(userID string, ul *userLock) {
	l.mu.Lock()
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
	l.mu.Unlock()
}

// Lock blocks until the user's lock is held and returns its unlock func.
func (l *userLocks) Lock(userID string) func() {
	ul := l.acquire(userID)
	ul.mu.Lock()
	return func() {
		ul.mu.Unlock()
		l.release(userID, ul)
	}
}

// TryLock returns an unlock func and true, or nil and false if another
// goroutine holds the user's lock.
func (l *userLocks) TryLock(userID string) (func(), bool) {
	ul := l.acquire(userID)
	if !ul.mu.TryLock() {
		l.release(userID, ul)
		return nil, false
	}
	return func() {
		ul.mu.Unlock()
		l.release(userID, ul)
	}, true
}

// held returns the number of tracked users.
func (l *userLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
