package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere/internal/audit"
	"clubsphere/internal/audit/store/memory"
	"clubsphere/internal/platform/metrics"
)

type capturePublisher struct {
	events chan audit.Event
	fail   bool
}

func (p *capturePublisher) Publish(_ context.Context, event audit.Event) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.events <- event
	return nil
}

func waitForEvents(t *testing.T, store *memory.Store, n int) []audit.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		events, err := store.List(context.Background())
		require.NoError(t, err)
		if len(events) >= n {
			return events
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d audit events, have %d", n, len(events))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWorkerDrainsInbox(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	svc := audit.NewService(m, logger)
	store := memory.New()
	pub := &capturePublisher{events: make(chan audit.Event, 8)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := New(store, pub, svc.Inbox(), logger)
	go func() { _ = w.Run(ctx) }()

	svc.Emit(audit.Event{Type: audit.EventPaymentRecorded, SessionID: "cs_1", PaymentID: "pi_1"})

	events := waitForEvents(t, store, 1)
	assert.Equal(t, audit.EventPaymentRecorded, events[0].Type)
	assert.Equal(t, "cs_1", events[0].SessionID)
	assert.NotEmpty(t, events[0].ID, "emit must stamp an id")
	assert.False(t, events[0].At.IsZero(), "emit must stamp a time")

	published := <-pub.events
	assert.Equal(t, "pi_1", published.PaymentID)
}

func TestWorkerSurvivesPublisherFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	svc := audit.NewService(m, logger)
	store := memory.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := New(store, &capturePublisher{fail: true}, svc.Inbox(), logger)
	go func() { _ = w.Run(ctx) }()

	svc.Emit(audit.Event{Type: audit.EventPaymentRecorded, SessionID: "cs_1"})
	svc.Emit(audit.Event{Type: audit.EventPaymentDuplicate, SessionID: "cs_1"})

	events := waitForEvents(t, store, 2)
	assert.Len(t, events, 2, "store appends must proceed past publish failures")
}

func TestWorkerToleratesNilSinks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	svc := audit.NewService(m, logger)

	ctx, cancel := context.WithCancel(context.Background())
	w := New(nil, nil, svc.Inbox(), logger)

	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()

	svc.Emit(audit.Event{Type: audit.EventPaymentRejected})
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on context cancellation")
	}
}
