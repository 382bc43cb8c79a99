// internal/store/memory.go
//
// Round persistence for the HTTP boundary.
//
// A round is owned by one store entry; Update runs a mutation under the
// store's lock so two requests for the same round never interleave.
//
// Characteristics of the in-memory implementation:
//   - Rounds keyed by ID in a map, guarded by a mutex.
//   - Callers always receive clones; stored rounds are never aliased.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordier/internal/game"
)

// ErrNotFound is returned for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Store persists live rounds.
type Store interface {
	// Save persists or replaces a round.
	Save(ctx context.Context, r *game.Round) error

	// Get returns a copy of the round with the given ID.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Update loads the round, applies fn and saves the result atomically.
	// If fn returns an error nothing is saved and that error is returned.
	Update(ctx context.Context, id string, fn func(r *game.Round) error) error

	// Delete removes a round. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes rounds not updated since before cutoff and reports how
	// many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

type memEntry struct {
	round   *game.Round
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.Mutex
	rounds map[string]memEntry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]memEntry)}
}

func (m *memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = memEntry{round: r.Clone(), touched: time.Now()}
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.rounds[id]; ok {
		return e.round.Clone(), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Update(ctx context.Context, id string, fn func(r *game.Round) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rounds[id]
	if !ok {
		return ErrNotFound
	}
	r := e.round.Clone()
	if err := fn(r); err != nil {
		return err
	}
	m.rounds[id] = memEntry{round: r, touched: time.Now()}
	return nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rounds, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.rounds {
		if e.touched.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n, nil
}
