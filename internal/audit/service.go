// Package audit records payment-flow events for operators. Emission is
// fire-and-forget: a full inbox drops the event and bumps a counter rather
// than slowing the payment path.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"clubsphere/internal/platform/metrics"
)

// Store persists audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Publisher pushes audit events to the ops stream.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

const defaultInboxSize = 256

type Service struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		inbox:   make(chan Event, defaultInboxSize),
		logger:  logger,
		metrics: m,
	}
}

// Emit stamps and enqueues the event without blocking the caller.
func (s *Service) Emit(event Event) {
	event.ID = uuid.NewString()
	event.At = time.Now().UTC()
	select {
	case s.inbox <- event:
	default:
		s.metrics.AuditEventsDropped.Inc()
		s.logger.Warn("audit inbox full, event dropped", "type", event.Type)
	}
}

// Inbox is consumed by the worker.
func (s *Service) Inbox() <-chan Event {
	return s.inbox
}
