package store

import (
	"context"
	"sync"

	"clubsphere/internal/payment"
	"clubsphere/pkg/platform/sentinel"
)

// MemoryStore keeps the ledger in maps keyed by paymentId; the map lookup
// under the mutex plays the role of the unique index.
type MemoryStore struct {
	mu            sync.RWMutex
	payments      map[string]payment.PaymentRecord
	memberships   map[string]payment.MembershipRecord
	registrations map[string]payment.RegistrationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		payments:      make(map[string]payment.PaymentRecord),
		memberships:   make(map[string]payment.MembershipRecord),
		registrations: make(map[string]payment.RegistrationRecord),
	}
}

func (s *MemoryStore) InsertPayment(_ context.Context, rec *payment.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payments[rec.PaymentID]; exists {
		return sentinel.ErrConflict
	}
	s.payments[rec.PaymentID] = *rec
	return nil
}

func (s *MemoryStore) InsertMembership(_ context.Context, rec *payment.MembershipRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.memberships[rec.PaymentID]; exists {
		return sentinel.ErrConflict
	}
	s.memberships[rec.PaymentID] = *rec
	return nil
}

func (s *MemoryStore) InsertRegistration(_ context.Context, rec *payment.RegistrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.registrations[rec.PaymentID]; exists {
		return sentinel.ErrConflict
	}
	s.registrations[rec.PaymentID] = *rec
	return nil
}

func (s *MemoryStore) ListPayments(_ context.Context) ([]payment.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payment.PaymentRecord, 0, len(s.payments))
	for _, rec := range s.payments {
		out = append(out, rec)
	}
	return out, nil
}

// Memberships returns a snapshot for test assertions.
func (s *MemoryStore) Memberships() []payment.MembershipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payment.MembershipRecord, 0, len(s.memberships))
	for _, rec := range s.memberships {
		out = append(out, rec)
	}
	return out
}

// Registrations returns a snapshot for test assertions.
func (s *MemoryStore) Registrations() []payment.RegistrationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]payment.RegistrationRecord, 0, len(s.registrations))
	for _, rec := range s.registrations {
		out = append(out, rec)
	}
	return out
}
