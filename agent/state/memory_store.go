package state

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore keeps sessions in process memory. Loaded states are copies.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]SessionState
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]SessionState),
	}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*SessionState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrStateNotFound
	}
	return &st, nil
}

func (m *MemoryStore) Save(ctx context.Context, st *SessionState) error {
	if err := st.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[st.SessionID] = *st
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
