package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/turnlog/core/history"
)

type memoryStore struct {
	logs map[string]history.Log
	mu   sync.RWMutex
}

// NewMemoryStore creates a Store with in-memory storage. Snapshots are lost
// when the process terminates; suitable for development and testing but not
// for recovery across runs.
func NewMemoryStore() Store {
	return &memoryStore{
		logs: make(map[string]history.Log),
	}
}

func (m *memoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.logs))
	for id := range m.logs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryStore) Load(_ context.Context, sessionID string) (history.Log, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log, exists := m.logs[sessionID]
	if !exists {
		return history.Log{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}
	return log.Clone(), nil
}

func (m *memoryStore) Save(_ context.Context, sessionID string, log history.Log) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logs[sessionID] = log.Clone()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.logs, sessionID)
	return nil
}
