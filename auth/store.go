package auth

import (
	"context"
	"sync"
)

// TokenStore persists bearer credentials under a session key.
type TokenStore interface {
	Load(ctx context.Context, key string) (token string, ok bool, err error)
	Save(ctx context.Context, key, token string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps credentials in process memory. Restarting the dashboard
// signs everyone out.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	token, ok := m.tokens[key]
	return token, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key, token string) error {
	m.mu.Lock()
	m.tokens[key] = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.tokens, key)
	m.mu.Unlock()
	return nil
}

// Session is the credential slot of one operator session.
type Session struct {
	store TokenStore
	key   string
}

func NewSession(store TokenStore, key string) *Session {
	return &Session{store: store, key: key}
}

func (s *Session) Key() string { return s.key }

// GetToken returns the stored credential, or "" when there is none.
func (s *Session) GetToken(ctx context.Context) (string, error) {
	token, ok, err := s.store.Load(ctx, s.key)
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

// SetToken persists token. An empty token clears the stored credential.
func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.store.Delete(ctx, s.key)
	}
	return s.store.Save(ctx, s.key, token)
}
