package club

import (
	"context"
	"errors"
	"time"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

// Service keeps validation out of handlers and storage concerns out of the
// domain. Clubs are undifferentiated CRUD; the one operation with real
// semantics, AddMember, is delegated untouched to the store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Club, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Club, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "club not found")
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Create(ctx context.Context, c *Club) (string, error) {
	if c.Name == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "club name is required")
	}
	if c.FeeMinorUnits < 0 {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "membership fee must not be negative")
	}
	c.CreatedAt = time.Now().UTC()
	return s.store.Insert(ctx, c)
}

func (s *Service) Update(ctx context.Context, id string, upd Update) error {
	if upd.Name == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "club name is required")
	}
	if upd.FeeMinorUnits < 0 {
		return dErrors.New(dErrors.CodeInvalidRequest, "membership fee must not be negative")
	}
	if err := s.store.Update(ctx, id, upd); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "club not found")
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "club not found")
		}
		return err
	}
	return nil
}

// TryEnroll exposes the conditional append for the payment reconciler.
func (s *Service) TryEnroll(ctx context.Context, clubID, email string) (bool, error) {
	return s.store.AddMember(ctx, clubID, email)
}
