package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "clubsphere/pkg/domain-errors"
)

type UserServiceSuite struct {
	suite.Suite
	store   *MemoryStore
	service *Service
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.service = NewService(s.store)
}

func (s *UserServiceSuite) TestSync() {
	ctx := context.Background()

	s.Run("first sync creates the user with the default role", func() {
		err := s.service.Sync(ctx, &User{Email: "a@example.com", Name: "Ada"})
		s.Require().NoError(err)

		u, err := s.service.Get(ctx, "a@example.com")
		s.Require().NoError(err)
		s.Equal(RoleUser, u.Role)
		s.Equal("Ada", u.Name)
		s.NotEmpty(u.ID)
	})

	s.Run("repeat sync updates the profile but never the role", func() {
		s.Require().NoError(s.service.Sync(ctx, &User{Email: "b@example.com", Name: "Bo"}))
		s.Require().NoError(s.service.SetRole(ctx, "b@example.com", RoleModerator))

		s.Require().NoError(s.service.Sync(ctx, &User{Email: "b@example.com", Name: "Bob", Role: RoleAdmin}))

		u, err := s.service.Get(ctx, "b@example.com")
		s.Require().NoError(err)
		s.Equal("Bob", u.Name)
		s.Equal(RoleModerator, u.Role, "role must survive profile syncs")
	})

	s.Run("invalid email is rejected", func() {
		err := s.service.Sync(ctx, &User{Email: "not-an-email"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidRequest))
	})
}

func (s *UserServiceSuite) TestSetRole() {
	ctx := context.Background()
	s.Require().NoError(s.service.Sync(ctx, &User{Email: "a@example.com"}))

	s.Run("known role is applied", func() {
		s.Require().NoError(s.service.SetRole(ctx, "a@example.com", RoleAdmin))
		u, err := s.service.Get(ctx, "a@example.com")
		s.Require().NoError(err)
		s.Equal(RoleAdmin, u.Role)
	})

	s.Run("unknown role is rejected", func() {
		err := s.service.SetRole(ctx, "a@example.com", "owner")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidRequest))
	})

	s.Run("missing user surfaces as a coded not-found", func() {
		err := s.service.SetRole(ctx, "nobody@example.com", RoleAdmin)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *UserServiceSuite) TestGetRole() {
	ctx := context.Background()

	s.Run("unknown principal defaults to the user role", func() {
		role, err := s.service.GetRole(ctx, "nobody@example.com")
		s.Require().NoError(err)
		s.Equal(RoleUser, role)
	})

	s.Run("known principal returns the stored role", func() {
		s.Require().NoError(s.service.Sync(ctx, &User{Email: "a@example.com"}))
		s.Require().NoError(s.service.SetRole(ctx, "a@example.com", RoleModerator))

		role, err := s.service.GetRole(ctx, "a@example.com")
		s.Require().NoError(err)
		s.Equal(RoleModerator, role)
	})
}
