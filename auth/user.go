package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrUserNotFound = errors.New("auth: user not found")
	ErrEmailInUse   = errors.New("auth: email already in use")
)

// User models the slice of a stored user record this package consumes.
// The core never writes user records; creation and deletion live behind
// the UserStore implementation.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
}

// UserProgression is one point of the registration growth curve: the
// cumulative number of accounts that existed at the end of a day.
type UserProgression struct {
	CreationDate time.Time `json:"creation_date"`
	IncrCount    int       `json:"incr_count"`
}

// UserStore is the external user-store collaborator contract. Lookups
// only consider non-deleted users.
type UserStore interface {
	RoleFinder
	FindActiveUserByEmail(ctx context.Context, email string) (User, error)
}

// MemoryUserStore is an in-memory UserStore for tests and local
// development. Keys are lower-cased emails.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemoryUserStore builds an empty in-memory store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]User)}
}

// Put inserts or replaces a user record.
func (s *MemoryUserStore) Put(user User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(user.Email)] = user
}

// FindActiveUserByEmail returns the stored user or ErrUserNotFound.
func (s *MemoryUserStore) FindActiveUserByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

// FindRolesByEmail returns the stored role strings or ErrUserNotFound.
func (s *MemoryUserStore) FindRolesByEmail(ctx context.Context, email string) ([]string, error) {
	user, err := s.FindActiveUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), user.Roles...), nil
}
