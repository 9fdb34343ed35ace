package service

import (
	"context"
	"log/slog"

	"github.com/motoki/aniterm/internal/domain"
)

// SessionService owns the session lifecycle: login, logout, registration
// and the authenticated flag. It is the only writer of the token store
// besides the client adapter's 401 clear.
type SessionService struct {
	auth   domain.AuthRepository
	tokens domain.TokenStore
	cache  *Cache
	logger *slog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(auth domain.AuthRepository, tokens domain.TokenStore, cache *Cache, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		auth:   auth,
		tokens: tokens,
		cache:  cache,
		logger: logger,
	}
}

// Login exchanges credentials for a token, persists it and flags every
// cache entry stale (not cleared) so reads re-fetch under the new
// credential while already-rendered data stays on screen.
func (s *SessionService) Login(ctx context.Context, creds domain.Credentials) error {
	token, err := s.auth.Login(ctx, creds)
	if err != nil {
		// Only an explicit rejection invalidates a leftover token; a
		// transport failure says nothing about its validity.
		if domain.IsAuthError(err) {
			if clearErr := s.tokens.Clear(); clearErr != nil {
				s.logger.Error("failed to clear token after login rejection", "error", clearErr)
			}
		}
		s.logger.Warn("login failed", "error", err)
		return err
	}

	if err := s.tokens.SetToken(token); err != nil {
		return err
	}
	s.cache.MarkAllStale()
	s.logger.Info("login succeeded")
	return nil
}

// Logout clears the persisted token and wipes the cache unconditionally.
func (s *SessionService) Logout() error {
	if err := s.tokens.Clear(); err != nil {
		return err
	}
	s.cache.Clear()
	s.logger.Info("logged out")
	return nil
}

// Register creates an account. It does not log the user in.
func (s *SessionService) Register(ctx context.Context, reg domain.Registration) error {
	if err := s.auth.Register(ctx, reg); err != nil {
		s.logger.Warn("registration failed", "error", err)
		return err
	}
	s.logger.Info("registered account", "username", reg.Username)
	return nil
}

// IsAuthenticated reports whether a token is currently stored. Checked live
// on every call; the 401 side effect in the client adapter can flip it at
// any time.
func (s *SessionService) IsAuthenticated() bool {
	return s.tokens.Token() != ""
}
