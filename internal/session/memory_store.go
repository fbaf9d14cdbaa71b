package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	newID    func() string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		newID:    GenerateID,
	}
}

func (m *MemoryStore) Create(_ context.Context, s Session) (string, error) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := 0; i < maxCreateAttempts; i++ {
		id := m.newID()
		if _, taken := m.sessions[id]; taken {
			continue
		}
		s.ID = id
		m.sessions[id] = s
		return id, nil
	}

	return "", ErrIDExhausted
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if s.UserData != nil {
		u := *s.UserData
		s.UserData = &u
	}
	return &s, nil
}

func (m *MemoryStore) Set(_ context.Context, s Session) error {
	if s.ID == "" {
		return errors.New("session: missing id")
	}

	if s.UserData != nil {
		u := *s.UserData
		s.UserData = &u
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Exists(_ context.Context, sessionID string) (bool, error) {
	m.mu.RLock()
	_, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	return ok, nil
}

// Len returns the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
