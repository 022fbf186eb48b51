package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps sessions in process memory, for single-instance runs
// without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	settings
}

type entry struct {
	email   string
	expires time.Time
}

// NewMemory creates an empty store.
func NewMemory(opts ...Option) *MemoryStore {
	s := &MemoryStore{sessions: make(map[string]entry), settings: defaults()}
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

func (s *MemoryStore) Create(_ context.Context, email string) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = entry{email: email, expires: s.now().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[token]
	now := s.now()
	if !ok || !now.Before(e.expires) {
		delete(s.sessions, token)
		return "", ErrNoSession
	}
	e.expires = now.Add(s.ttl)
	s.sessions[token] = e
	return e.email, nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *MemoryStore) Active(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, token)
		}
	}
	return len(s.sessions), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
