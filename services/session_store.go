package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"piercing-studio-site/models"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps visitor view state between requests.
type SessionStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.ViewState, error)
	Save(ctx context.Context, id uuid.UUID, state *models.ViewState) error
	Delete(ctx context.Context, id uuid.UUID) error
	// PruneIdle removes sessions last saved before the cutoff and reports
	// how many were removed.
	PruneIdle(ctx context.Context, before time.Time) (int64, error)
}

type memoryEntry struct {
	state     []byte
	updatedAt time.Time
}

// MemoryStore is the default single-process store. State is kept
// serialised so callers never share a ViewState with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*models.ViewState, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	var state models.ViewState
	if err := json.Unmarshal(entry.state, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *MemoryStore) Save(_ context.Context, id uuid.UUID, state *models.ViewState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[id] = memoryEntry{state: b, updatedAt: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) PruneIdle(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, entry := range m.entries {
		if entry.updatedAt.Before(before) {
			delete(m.entries, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
