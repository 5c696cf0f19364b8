package balance

import (
	"context"
	"sync"
)

// MemoryStore keeps balances in memory
// It is used when no database is configured
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[string]int
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[string]int),
	}
}

// GetBalance returns the balance for the player
func (m *MemoryStore) GetBalance(_ context.Context, playerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	amount, ok := m.balances[playerID]
	if !ok {
		return 0, ErrNotFound
	}

	return amount, nil
}

// UpdateBalance sets the balance for the player
func (m *MemoryStore) UpdateBalance(_ context.Context, playerID string, amount int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[playerID] = amount
	return true, nil
}
