package interview

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dmaryin/interview-coach/internal/ai"
)

// Store keeps sessions isolated per identity. Concurrent sessions never
// share mutable state; each entry is an independent record.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a fresh session and returns it.
func (st *Store) Create(generator ai.Generator, log *zap.Logger) *Session {
	session := NewSession(generator, log)

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[session.ID()] = session

	return session
}

// Get returns the session with the given id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	return session, ok
}

// Remove forgets the session with the given id.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
