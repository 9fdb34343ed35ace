package config

import "sync"

// TokenStore implements domain.TokenStore on top of the config file. The
// in-memory copy answers reads (the HTTP client checks it on every
// request); writes go through to the persisted "server.token" key.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore seeds a token store from the loaded configuration.
func NewTokenStore(cfg *Config) *TokenStore {
	return &TokenStore{token: cfg.Server.Token}
}

// Token returns the current bearer token, or "" when logged out.
func (t *TokenStore) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// SetToken stores and persists a new bearer token.
func (t *TokenStore) SetToken(token string) error {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
	return SaveToken(token)
}

// Clear drops the token in memory and on disk.
func (t *TokenStore) Clear() error {
	t.mu.Lock()
	t.token = ""
	t.mu.Unlock()
	return SaveToken("")
}
