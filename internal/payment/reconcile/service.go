// Package reconcile converts a paid checkout session into domain state
// exactly once. There is no stored in-progress state: every call re-derives
// the session's facts from the gateway and re-applies two idempotent steps
// (conditional enrollment, insert-if-absent recording), so a crash between
// steps, a gateway redelivery, or a racing duplicate call all heal by
// simply running the procedure again.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"clubsphere/internal/audit"
	"clubsphere/internal/payment"
	"clubsphere/internal/payment/gateway"
	"clubsphere/internal/payment/store"
	"clubsphere/internal/platform/metrics"
	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/platform/sentinel"
)

// Enroller is the idempotent conditional-append primitive. added=false
// means the email was already present or the subject is unknown; callers
// treat both as already-enrolled, never as an error.
type Enroller interface {
	TryEnroll(ctx context.Context, subjectID, email string) (added bool, err error)
}

type Service struct {
	gateway gateway.Gateway
	ledger  store.LedgerStore
	clubs   Enroller
	events  Enroller
	cache   *ResultCache
	audit   *audit.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(
	gw gateway.Gateway,
	ledger store.LedgerStore,
	clubs Enroller,
	events Enroller,
	cache *ResultCache,
	auditSvc *audit.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		gateway: gw,
		ledger:  ledger,
		clubs:   clubs,
		events:  events,
		cache:   cache,
		audit:   auditSvc,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Reconcile drives a session to its terminal state. The session id is only
// a lookup key; every financial fact comes from the gateway's retrieval
// response. Safe to call any number of times, concurrently or not.
func (s *Service) Reconcile(ctx context.Context, sessionID string) (*payment.ReconciliationResult, error) {
	ctx, span := otel.Tracer("payment/reconcile").Start(ctx, "reconcile",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	if sessionID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "session_id is required")
	}

	if cached := s.cache.Get(ctx, sessionID); cached != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeRecorded).Inc()
		return cached, nil
	}

	sess, err := s.gateway.GetSession(ctx, sessionID)
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	if sess.PaymentStatus != gateway.PaymentStatusPaid {
		// Not an error: the session may simply not be finalized yet. Zero
		// writes; the caller is free to poll again.
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeNotPaid).Inc()
		s.audit.Emit(audit.Event{Type: audit.EventPaymentRejected, SessionID: sessionID})
		return &payment.ReconciliationResult{Status: payment.StatusNotPaid}, nil
	}

	confirmed, err := payment.Confirm(sess)
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}
	span.SetAttributes(
		attribute.String("payment.id", confirmed.PaymentID),
		attribute.String("payment.kind", string(confirmed.Kind)),
	)

	added, err := s.enroll(ctx, confirmed)
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	duplicate, err := s.record(ctx, confirmed)
	if err != nil {
		s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	result := &payment.ReconciliationResult{
		Status:          payment.StatusRecorded,
		Kind:            confirmed.Kind,
		SubjectID:       confirmed.SubjectID,
		PaymentID:       confirmed.PaymentID,
		Enrolled:        added,
		AlreadyEnrolled: !added,
	}
	s.cache.Put(ctx, sessionID, result)

	eventType := audit.EventPaymentRecorded
	if duplicate {
		eventType = audit.EventPaymentDuplicate
	}
	s.audit.Emit(audit.Event{
		Type:      eventType,
		SessionID: sessionID,
		PaymentID: confirmed.PaymentID,
		SubjectID: confirmed.SubjectID,
		UserEmail: confirmed.BuyerEmail,
		Amount:    confirmed.AmountTotal,
	})
	s.metrics.Reconciliations.WithLabelValues(metrics.OutcomeRecorded).Inc()
	s.logger.InfoContext(ctx, "payment reconciled",
		"session_id", sessionID,
		"payment_id", confirmed.PaymentID,
		"kind", confirmed.Kind,
		"enrolled", added,
		"duplicate", duplicate,
	)
	return result, nil
}

// enroll applies the conditional append for the confirmed purchase. The
// return value is informational and never gates recording.
func (s *Service) enroll(ctx context.Context, cp *payment.ConfirmedPayment) (bool, error) {
	switch cp.Kind {
	case payment.KindClubJoin:
		return s.clubs.TryEnroll(ctx, cp.SubjectID, cp.BuyerEmail)
	case payment.KindEventRegistration:
		return s.events.TryEnroll(ctx, cp.SubjectID, cp.BuyerEmail)
	default:
		return false, dErrors.New(dErrors.CodeInvalidRequest, "unknown purchase kind")
	}
}

// record performs the insert-if-absent writes keyed by paymentId. A
// uniqueness conflict means another execution already recorded this
// payment; it is swallowed, not surfaced. Returns whether any write was a
// duplicate.
func (s *Service) record(ctx context.Context, cp *payment.ConfirmedPayment) (bool, error) {
	now := s.now().UTC()
	duplicate := false

	var err error
	switch cp.Kind {
	case payment.KindClubJoin:
		err = s.ledger.InsertMembership(ctx, &payment.MembershipRecord{
			ClubID:    cp.SubjectID,
			UserEmail: cp.BuyerEmail,
			PaymentID: cp.PaymentID,
			Status:    payment.StatusCompleted,
			JoinedAt:  now,
		})
	case payment.KindEventRegistration:
		err = s.ledger.InsertRegistration(ctx, &payment.RegistrationRecord{
			EventID:      cp.SubjectID,
			UserEmail:    cp.BuyerEmail,
			PaymentID:    cp.PaymentID,
			Status:       payment.StatusCompleted,
			RegisteredAt: now,
		})
	}
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		duplicate = true
		s.metrics.DuplicateConfirmations.Inc()
	case err != nil:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "record enrollment")
	}

	err = s.ledger.InsertPayment(ctx, &payment.PaymentRecord{
		PaymentID: cp.PaymentID,
		UserEmail: cp.BuyerEmail,
		SubjectID: cp.SubjectID,
		Amount:    cp.AmountTotal,
		Kind:      cp.Kind,
		Status:    payment.StatusCompleted,
		CreatedAt: now,
	})
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		duplicate = true
		s.metrics.DuplicateConfirmations.Inc()
	case err != nil:
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "record payment")
	}

	return duplicate, nil
}
