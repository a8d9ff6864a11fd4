package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/turnlog/core/history"
)

type memorySession struct {
	id     string
	log    history.Log
	policy Policy
	mu     sync.RWMutex
}

// NewMemorySession creates a Session backed by an in-memory log under the
// given policy. The session is assigned a unique UUIDv7 identifier.
func NewMemorySession(policy Policy) Session {
	return &memorySession{
		id:     uuid.Must(uuid.NewV7()).String(),
		policy: policy,
	}
}

// Resume creates a Session that continues an existing log under its original
// identifier, as loaded from a persistence backend. Callers are expected to
// sanitize the log before the first turn.
func Resume(id string, log history.Log, policy Policy) Session {
	return &memorySession{
		id:     id,
		log:    log.Clone(),
		policy: policy,
	}
}

func (s *memorySession) ID() string {
	return s.id
}

func (s *memorySession) Log() history.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.log.Clone()
}

func (s *memorySession) Append(t history.Turn) history.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Append(t)
}

func (s *memorySession) SetLog(l history.Log) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = l.Clone()
}

func (s *memorySession) Policy() Policy {
	return s.policy
}

func (s *memorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = history.Log{NextSeq: s.log.NextSeq}
}
