// Package auth tracks who is logged in to the CareerNavigator API.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/kalambet/careernav/internal/api"
)

// Backend is the subset of the API client used for authentication.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.AuthResponse, error)
	Register(ctx context.Context, email, password, fullName string) (api.AuthResponse, error)
	Profile(ctx context.Context) (api.User, error)
}

// Session supplies the current user and whether it is still being loaded.
type Session struct {
	backend Backend

	mu      sync.Mutex
	user    *api.User
	token   string
	loading bool
}

func NewSession(backend Backend) *Session {
	return &Session{backend: backend}
}

func (s *Session) Login(ctx context.Context, email, password string) (api.AuthResponse, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return api.AuthResponse{}, fmt.Errorf("logging in: %w", err)
	}
	s.set(resp)
	return resp, nil
}

func (s *Session) Register(ctx context.Context, email, password, fullName string) (api.AuthResponse, error) {
	resp, err := s.backend.Register(ctx, email, password, fullName)
	if err != nil {
		return api.AuthResponse{}, fmt.Errorf("registering: %w", err)
	}
	s.set(resp)
	return resp, nil
}

func (s *Session) set(resp api.AuthResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := resp.User
	s.user = &u
	s.token = resp.Token
}

// Refresh reloads the current user from the profile endpoint. Loading reports
// true while it runs.
func (s *Session) Refresh(ctx context.Context) (api.User, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	u, err := s.backend.Profile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return api.User{}, fmt.Errorf("loading current user: %w", err)
	}
	s.user = &u
	return u, nil
}

// User returns the current user; ok is false when nobody is logged in.
func (s *Session) User() (u api.User, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.token = ""
}
