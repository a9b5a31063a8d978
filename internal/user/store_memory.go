package user

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"clubsphere/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*User // keyed by email
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*User)}
}

func (s *MemoryStore) Upsert(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[u.Email]; ok {
		existing.Name = u.Name
		existing.PhotoURL = u.PhotoURL
		return nil
	}
	s.users[u.Email] = &User{
		ID:        primitive.NewObjectID().Hex(),
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *MemoryStore) SetRole(_ context.Context, email, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.Role = role
	return nil
}
