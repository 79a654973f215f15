package client

import (
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/vbonduro/guides/internal/domain"
)

// Storage keys for the persisted login.
const (
	TokenKey = "yitong_token"
	UserKey  = "yitong_user"
)

// AuthStore holds the logged-in token and user, mirrored to Storage.
type AuthStore struct {
	mu      sync.RWMutex
	storage Storage
	token   string
	user    *domain.UserInfo
}

// NewAuthStore restores any persisted login. An unreadable user record is
// treated as absent.
func NewAuthStore(storage Storage) *AuthStore {
	s := &AuthStore{storage: storage}
	s.token, _ = storage.Get(TokenKey)
	if raw, ok := storage.Get(UserKey); ok && raw != "" {
		var u domain.UserInfo
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			s.user = &u
		}
	}
	return s
}

// SetAuth records a login and persists it before returning.
func (s *AuthStore) SetAuth(token string, user domain.UserInfo) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	if err := s.storage.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.storage.Set(UserKey, string(raw)); err != nil {
		return fmt.Errorf("failed to persist user: %w", err)
	}
	return nil
}

// Logout clears the login from memory and storage.
func (s *AuthStore) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return errors.Join(s.storage.Remove(TokenKey), s.storage.Remove(UserKey))
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in user, or nil.
func (s *AuthStore) User() *domain.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) LoggedIn() bool {
	return s.Token() != ""
}
