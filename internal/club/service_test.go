package club

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "clubsphere/pkg/domain-errors"
)

type ClubServiceSuite struct {
	suite.Suite
	store   *MemoryStore
	service *Service
}

func TestClubServiceSuite(t *testing.T) {
	suite.Run(t, new(ClubServiceSuite))
}

func (s *ClubServiceSuite) SetupTest() {
	s.store = NewMemoryStore()
	s.service = NewService(s.store)
}

func (s *ClubServiceSuite) TestCreate() {
	ctx := context.Background()

	s.Run("valid club is stored with a creation time", func() {
		id, err := s.service.Create(ctx, &Club{Name: "Chess Club", FeeMinorUnits: 1000})
		s.Require().NoError(err)

		c, err := s.service.Get(ctx, id)
		s.Require().NoError(err)
		s.False(c.CreatedAt.IsZero())
	})

	s.Run("missing name is rejected", func() {
		_, err := s.service.Create(ctx, &Club{FeeMinorUnits: 1000})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidRequest))
	})

	s.Run("negative fee is rejected", func() {
		_, err := s.service.Create(ctx, &Club{Name: "Chess Club", FeeMinorUnits: -5})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidRequest))
	})
}

func (s *ClubServiceSuite) TestGet() {
	ctx := context.Background()

	s.Run("missing club surfaces as a coded not-found", func() {
		_, err := s.service.Get(ctx, "65b2fdb0f0a9c23d58a10000")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *ClubServiceSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("missing club surfaces as a coded not-found", func() {
		err := s.service.Update(ctx, "65b2fdb0f0a9c23d58a10000", Update{Name: "X"})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("missing name is rejected before touching the store", func() {
		err := s.service.Update(ctx, "65b2fdb0f0a9c23d58a10000", Update{})
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeInvalidRequest))
	})
}

func (s *ClubServiceSuite) TestTryEnroll() {
	ctx := context.Background()

	id, err := s.service.Create(ctx, &Club{Name: "Chess Club"})
	s.Require().NoError(err)

	added, err := s.service.TryEnroll(ctx, id, "a@example.com")
	s.Require().NoError(err)
	s.True(added)

	added, err = s.service.TryEnroll(ctx, id, "a@example.com")
	s.Require().NoError(err)
	s.False(added)
}
