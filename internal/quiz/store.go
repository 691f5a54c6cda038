package quiz

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Store keeps the sessions of a hosting process. Each session belongs to the
// grader that created it.
type Store interface {
	Create(bankID string, p Participant, g Grader) *Session
	// Update runs fn with exclusive access to the session.
	Update(id, owner string, fn func(*Session) error) error
	Delete(id, owner string) error
	Len() int
}

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]*Session{}}
}

func (m *memoryStore) Create(bankID string, p Participant, g Grader) *Session {
	s := NewSession(uuid.NewString(), bankID, p, g)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

func (m *memoryStore) Update(id, owner string, fn func(*Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Grader.Username != owner {
		return ErrSessionNotFound
	}
	return fn(s)
}

func (m *memoryStore) Delete(id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.Grader.Username != owner {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
