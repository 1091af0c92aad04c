// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the default round store: one game.State per session ID.
//
// Characteristics:
//   - Stores game.State values (copies) keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Get returns ErrNotFound for unknown sessions.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/guessnumber/internal/game"
)

// ErrNotFound is returned by Get when a session has no active round.
var ErrNotFound = errors.New("round not found")

// Store defines the persistence interface for active rounds.
// Implementations may be backed by memory (this file), SQLite, or Redis.
type Store interface {
	// Save replaces the round for a session.
	Save(ctx context.Context, sessionID string, s game.State) error

	// Get retrieves the round for a session.
	// Returns ErrNotFound if the session has none.
	Get(ctx context.Context, sessionID string) (game.State, error)

	// Delete drops the round for a session. Missing sessions are not an error.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backing resources.
	Close() error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex          // guards rounds map
	rounds map[string]game.State // keyed by session ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]game.State)}
}

func (m *memory) Save(ctx context.Context, sessionID string, s game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[sessionID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, sessionID string) (game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.rounds[sessionID]; ok {
		return s, nil
	}
	return game.State{}, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, sessionID)
	return nil
}

func (m *memory) Close() error { return nil }
