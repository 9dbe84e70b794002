package session

import (
	"context"
	"maps"
	"sync"
)

// MemoryManager keeps sessions in process memory. Used by tests and local
// development; production wiring uses the Postgres manager.
type MemoryManager struct {
	mu       sync.Mutex
	sessions map[string]map[string][]byte
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{sessions: make(map[string]map[string][]byte)}
}

func (m *MemoryManager) Load(ctx context.Context, id string) (*Scope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[id]
	if !ok {
		return NewScope(id, nil), nil
	}
	return NewScope(id, maps.Clone(stored)), nil
}

func (m *MemoryManager) Save(ctx context.Context, scope *Scope) error {
	if !scope.Dirty() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[scope.ID()] = maps.Clone(scope.values)
	return nil
}
