package interview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session identifier is unknown to the store.
var ErrSessionNotFound = errors.New("session not found")

// Store holds interview sessions keyed by identifier.
type Store interface {
	Create(ctx context.Context, role, level, mode string) (Session, error)
	Get(ctx context.Context, sessionID string) (Session, error)
	RecordAnswerAndAdvance(ctx context.Context, sessionID, answer, nextQuestion string) error
}

// MemoryStore implements Store with a process-local map.
// Sessions live until the process exits.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// NewSession builds a session with a fresh identifier and the opening question pending.
func NewSession(role, level, mode string) Session {
	exchanges := make([]Exchange, 0, 8)
	exchanges = append(exchanges, Exchange{Question: OpeningQuestion})
	return Session{
		ID:        uuid.NewString(),
		Role:      role,
		Level:     level,
		Mode:      mode,
		Exchanges: exchanges,
		CreatedAt: time.Now().UTC(),
	}
}

// Create provisions a new session.
func (s *MemoryStore) Create(_ context.Context, role, level, mode string) (Session, error) {
	session := NewSession(role, level, mode)

	s.mu.Lock()
	s.sessions[session.ID] = &session
	s.mu.Unlock()

	return session.Clone(), nil
}

// Get retrieves a copy of the session.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return session.Clone(), nil
}

// RecordAnswerAndAdvance fills the pending answer and appends nextQuestion as the new pending exchange.
func (s *MemoryStore) RecordAnswerAndAdvance(_ context.Context, sessionID, answer, nextQuestion string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	if n := len(session.Exchanges); n > 0 {
		session.Exchanges[n-1].Answer = answer
	}
	session.Exchanges = append(session.Exchanges, Exchange{Question: nextQuestion})
	return nil
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
