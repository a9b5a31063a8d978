//go:build integration

package reconcile_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"clubsphere/internal/payment"
	"clubsphere/internal/payment/reconcile"
	platformredis "clubsphere/internal/platform/redis"
	"clubsphere/pkg/testutil/containers"
)

type ResultCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *reconcile.ResultCache
}

func TestResultCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ResultCacheSuite))
}

func (s *ResultCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())

	client, err := platformredis.New(s.redis.Addr)
	s.Require().NoError(err)
	s.Require().NotNil(client)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cache = reconcile.NewResultCache(client, logger)
}

func (s *ResultCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *ResultCacheSuite) TestMissOnUnknownSession() {
	s.Nil(s.cache.Get(context.Background(), "cs_unknown"))
}

// TestReplaySemantics verifies that a cached hit always reads as a replay:
// Enrolled false, AlreadyEnrolled true, regardless of what was stored.
func (s *ResultCacheSuite) TestReplaySemantics() {
	ctx := context.Background()

	s.cache.Put(ctx, "cs_1", &payment.ReconciliationResult{
		Status:    payment.StatusRecorded,
		Kind:      payment.KindClubJoin,
		SubjectID: "club-1",
		PaymentID: "pi_1",
		Enrolled:  true,
	})

	cached := s.cache.Get(ctx, "cs_1")
	s.Require().NotNil(cached)
	s.Equal(payment.StatusRecorded, cached.Status)
	s.Equal("pi_1", cached.PaymentID)
	s.False(cached.Enrolled)
	s.True(cached.AlreadyEnrolled)
}

func (s *ResultCacheSuite) TestCorruptEntryDegradesToMiss() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "payment:recorded:cs_bad", "not json", 0).Err())
	s.Nil(s.cache.Get(ctx, "cs_bad"))
}
