package event

import (
	"context"
	"errors"
	"time"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) Create(ctx context.Context, e *Event) (string, error) {
	if e.Title == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "event title is required")
	}
	if e.ClubID == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "event clubId is required")
	}
	if e.FeeMinorUnits < 0 {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "event fee must not be negative")
	}
	e.CreatedAt = time.Now().UTC()
	return s.store.Insert(ctx, e)
}

func (s *Service) Update(ctx context.Context, id string, upd Update) error {
	if upd.Title == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "event title is required")
	}
	if upd.FeeMinorUnits < 0 {
		return dErrors.New(dErrors.CodeInvalidRequest, "event fee must not be negative")
	}
	if err := s.store.Update(ctx, id, upd); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return err
	}
	return nil
}

// TryEnroll exposes the conditional append for the payment reconciler.
func (s *Service) TryEnroll(ctx context.Context, eventID, email string) (bool, error) {
	return s.store.AddAttendee(ctx, eventID, email)
}
