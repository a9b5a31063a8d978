//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clubsphere/internal/audit"
	"clubsphere/internal/audit/store/postgres"
	"clubsphere/pkg/testutil/containers"
)

const schema = `
CREATE TABLE IF NOT EXISTS payment_audit_events (
    id          UUID PRIMARY KEY,
    event_type  TEXT NOT NULL,
    session_id  TEXT NOT NULL DEFAULT '',
    payment_id  TEXT NOT NULL DEFAULT '',
    subject_id  TEXT NOT NULL DEFAULT '',
    user_email  TEXT NOT NULL DEFAULT '',
    amount      BIGINT NOT NULL DEFAULT 0,
    occurred_at TIMESTAMPTZ NOT NULL
)`

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	_, err := s.pg.DB.ExecContext(context.Background(), schema)
	s.Require().NoError(err)
	s.store = postgres.New(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(context.Background(), "TRUNCATE payment_audit_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestAppendAndList() {
	ctx := context.Background()

	first := audit.Event{
		ID:        uuid.NewString(),
		Type:      audit.EventSessionCreated,
		SubjectID: "club-1",
		UserEmail: "buyer@example.com",
		Amount:    1000,
		At:        time.Now().UTC().Truncate(time.Microsecond),
	}
	second := audit.Event{
		ID:        uuid.NewString(),
		Type:      audit.EventPaymentRecorded,
		SessionID: "cs_1",
		PaymentID: "pi_1",
		SubjectID: "club-1",
		UserEmail: "buyer@example.com",
		Amount:    1000,
		At:        first.At.Add(time.Second),
	}

	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	events, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	s.Equal(audit.EventSessionCreated, events[0].Type)
	s.Equal(audit.EventPaymentRecorded, events[1].Type)
	s.Equal("pi_1", events[1].PaymentID)
	s.Equal("cs_1", events[1].SessionID)
	s.Equal(int64(1000), events[1].Amount)
	s.True(events[1].At.Equal(second.At))
}

func (s *PostgresStoreSuite) TestDuplicateIDRejected() {
	ctx := context.Background()
	event := audit.Event{
		ID:   uuid.NewString(),
		Type: audit.EventPaymentRecorded,
		At:   time.Now().UTC(),
	}
	s.Require().NoError(s.store.Append(ctx, event))
	s.Error(s.store.Append(ctx, event))
}
