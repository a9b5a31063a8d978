package event

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

type MemoryStore struct {
	mu     sync.RWMutex
	events map[string]*Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]*Event)}
}

func (s *MemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Event, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "malformed event id")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	cp.Attendees = slices.Clone(e.Attendees)
	return &cp, nil
}

func (s *MemoryStore) Insert(_ context.Context, e *Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	cp := *e
	cp.ID = id
	cp.Attendees = []string{}
	s.events[id] = &cp
	return id, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, upd Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.Title = upd.Title
	e.Description = upd.Description
	e.Date = upd.Date
	e.Location = upd.Location
	e.FeeMinorUnits = upd.FeeMinorUnits
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *MemoryStore) AddAttendee(_ context.Context, id, email string) (bool, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return false, dErrors.New(dErrors.CodeInvalidRequest, "malformed event id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return false, nil
	}
	if slices.Contains(e.Attendees, email) {
		return false, nil
	}
	e.Attendees = append(e.Attendees, email)
	return true, nil
}
