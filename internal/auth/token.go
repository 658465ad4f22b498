package auth

import (
	"context"
	"sync"
	"time"
)

// TokenManager hands out the session token attached to every request.
type TokenManager interface {
	// GetToken returns the current token, authenticating first when none
	// is held.
	GetToken(ctx context.Context) (string, error)

	// RefreshToken discards rejected if it is still the current token and
	// returns a freshly obtained one.
	RefreshToken(ctx context.Context, rejected string) (string, error)

	// SetToken replaces the current token.
	SetToken(token string)
}

// Token is a session token issued by the authentication endpoint.
type Token struct {
	Value      string
	AcquiredAt time.Time
}

// Valid reports whether the token can be sent. Session tokens carry no expiry
// so any non-empty token is valid.
func (t *Token) Valid() bool {
	return t != nil && t.Value != ""
}

// TokenStore holds one token and is safe for concurrent use.
type TokenStore struct {
	mutex sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the stored token or nil.
func (s *TokenStore) Get() *Token {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.token
}

// Set replaces the stored token.
func (s *TokenStore) Set(token *Token) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token
}

// Clear removes the stored token.
func (s *TokenStore) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = nil
}

// StaticTokenManager always returns the token it was given and never talks to
// the server.
type StaticTokenManager struct {
	store *TokenStore
}

// NewStaticTokenManager wraps an existing session token.
func NewStaticTokenManager(token string) *StaticTokenManager {
	manager := &StaticTokenManager{store: NewTokenStore()}
	manager.SetToken(token)

	return manager
}

func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	token := m.store.Get()
	if !token.Valid() {
		return "", ErrStaticTokenEmpty
	}

	return token.Value, nil
}

func (m *StaticTokenManager) RefreshToken(ctx context.Context, rejected string) (string, error) {
	return "", ErrStaticTokenCannotRefresh
}

func (m *StaticTokenManager) SetToken(token string) {
	m.store.Set(&Token{Value: token, AcquiredAt: time.Now()})
}
