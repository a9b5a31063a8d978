package user

import (
	"context"
	"errors"
	"strings"

	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Sync upserts the user on login. Profile fields are client-trusted; the
// role never is.
func (s *Service) Sync(ctx context.Context, u *User) error {
	if !strings.Contains(u.Email, "@") {
		return dErrors.New(dErrors.CodeInvalidRequest, "valid email is required")
	}
	return s.store.Upsert(ctx, u)
}

func (s *Service) Get(ctx context.Context, email string) (*User, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) SetRole(ctx context.Context, email, role string) error {
	switch role {
	case RoleAdmin, RoleModerator, RoleUser:
	default:
		return dErrors.New(dErrors.CodeInvalidRequest, "unknown role: "+role)
	}
	if err := s.store.SetRole(ctx, email, role); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return err
	}
	return nil
}

// GetRole implements the authorization middleware's RoleLookup. Unknown
// users default to the user role so a first-time principal is never locked
// out of public flows.
func (s *Service) GetRole(ctx context.Context, email string) (string, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return RoleUser, nil
		}
		return "", err
	}
	return u.Role, nil
}
