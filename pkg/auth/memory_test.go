package auth

import (
	"context"
	"sync"
)

// memoryStorage is a test double with the same uniqueness contract as the
// production store: CreateUser atomically rejects duplicate emails.
type memoryStorage struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{users: make(map[string]*User)}
}

func (s *memoryStorage) FindUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *memoryStorage) CreateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Email]; exists {
		return ErrEmailAlreadyExists
	}
	copied := *user
	s.users[user.Email] = &copied
	return nil
}

func (s *memoryStorage) byEmail(email string) *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[email]
}

func (s *memoryStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
