package club

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

// MemoryStore keeps clubs in process memory for tests and local runs. The
// mutex stands in for the document store's single-document atomicity.
type MemoryStore struct {
	mu    sync.RWMutex
	clubs map[string]*Club
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{clubs: make(map[string]*Club)}
}

func (s *MemoryStore) List(_ context.Context) ([]Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Club, 0, len(s.clubs))
	for _, c := range s.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Club, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "malformed club id")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clubs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	cp.Members = slices.Clone(c.Members)
	return &cp, nil
}

func (s *MemoryStore) Insert(_ context.Context, c *Club) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	cp := *c
	cp.ID = id
	cp.Members = []string{}
	s.clubs[id] = &cp
	return id, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, upd Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clubs[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Name = upd.Name
	c.Description = upd.Description
	c.Category = upd.Category
	c.FeeMinorUnits = upd.FeeMinorUnits
	c.ManagerEmail = upd.ManagerEmail
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clubs[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.clubs, id)
	return nil
}

func (s *MemoryStore) AddMember(_ context.Context, id, email string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, dErrors.New(dErrors.CodeInvalidRequest, "malformed club id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clubs[id]
	if !ok {
		return false, nil
	}
	if slices.Contains(c.Members, email) {
		return false, nil
	}
	c.Members = append(c.Members, email)
	return true, nil
}
