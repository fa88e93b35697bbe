package apiclient

import (
	"context"
	"strings"
	"sync"

	"smartcareer-backend/internal/domain"
	"smartcareer-backend/pkg/logger"
)

// Session tracks the signed-in user. State lives in the client's TokenStore,
// so a 401 seen by any call on the same client also ends the session.
type Session struct {
	client *Client
	mu     sync.Mutex
}

func NewSession(client *Client) *Session {
	return &Session{client: client}
}

func (s *Session) credentials() Credentials {
	creds, err := s.client.tokens.Load()
	if err != nil {
		logger.Log.Warn("failed to load session", "error", err)
		return Credentials{}
	}
	return creds
}

// User returns the signed-in user, or nil.
func (s *Session) User() *domain.User {
	creds := s.credentials()
	if creds.Token == "" {
		return nil
	}
	return creds.User
}

func (s *Session) Token() string {
	return s.credentials().Token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	res, err := s.client.Login(ctx, LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	return s.store(res)
}

func (s *Session) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	res, err := s.client.Register(ctx, RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return s.store(res)
}

func (s *Session) store(res *domain.AuthResult) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := Credentials{Token: res.Token, User: res.User, ExpiresAt: res.ExpiresAt}
	if err := s.client.tokens.Save(creds); err != nil {
		return nil, err
	}
	return res.User, nil
}

// Logout revokes the token on the server and always clears local state.
func (s *Session) Logout(ctx context.Context) error {
	if s.Authenticated() {
		if err := s.client.Logout(ctx); err != nil && !IsKind(err, KindUnauthorized) {
			logger.Log.Warn("server logout failed", "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.tokens.Clear()
}

// UpdateUser replaces the locally held user, e.g. after a profile edit.
func (s *Session) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds := s.credentials()
	if creds.Token == "" {
		return nil
	}
	creds.User = user
	return s.client.tokens.Save(creds)
}

// Validate checks the token with the server. Only an explicit 401 ends the
// session; network and server failures keep it and report true.
func (s *Session) Validate(ctx context.Context) bool {
	if !s.Authenticated() {
		return false
	}

	user, err := s.client.Validate(ctx)
	switch {
	case err == nil:
		if err := s.UpdateUser(user); err != nil {
			logger.Log.Warn("failed to persist session user", "error", err)
		}
		return true
	case IsKind(err, KindUnauthorized):
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.client.tokens.Clear(); err != nil {
			logger.Log.Warn("failed to clear session", "error", err)
		}
		return false
	default:
		logger.Log.Warn("session validation failed, keeping session", "error", err)
		return true
	}
}
