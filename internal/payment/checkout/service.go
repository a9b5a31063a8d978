// Package checkout implements the checkout session factory: it shapes a
// gateway request from a client-trusted purchase intent and returns the
// hosted redirect URL. It effects no state change of its own.
package checkout

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"go.opentelemetry.io/otel"

	"clubsphere/internal/audit"
	"clubsphere/internal/payment"
	"clubsphere/internal/payment/gateway"
	"clubsphere/internal/platform/metrics"
	dErrors "clubsphere/pkg/domain-errors"
)

// Currency is fixed; the fee input is always interpreted in it.
const Currency = "usd"

type Service struct {
	gateway    gateway.Gateway
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      *audit.Service
	successURL string
	cancelURL  string
}

func NewService(gw gateway.Gateway, successURL, cancelURL string, auditSvc *audit.Service, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		gateway:    gw,
		logger:     logger,
		metrics:    m,
		audit:      auditSvc,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// ParseFee converts a client-supplied fee (major units, e.g. "10" dollars)
// into integer minor units. Non-numeric or negative input is rejected; zero
// is a legitimate fee.
func ParseFee(raw string) (int64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, dErrors.New(dErrors.CodeInvalidRequest, "fee must be a number")
	}
	if f < 0 {
		return 0, dErrors.New(dErrors.CodeInvalidRequest, "fee must not be negative")
	}
	return int64(math.Round(f * 100)), nil
}

// CreateSession validates the intent, issues a single session-creation call
// to the gateway and returns the redirect URL. Any gateway failure bubbles
// to the caller untouched; there is no local retry.
func (s *Service) CreateSession(ctx context.Context, intent payment.PurchaseIntent) (string, error) {
	ctx, span := otel.Tracer("payment/checkout").Start(ctx, "checkout.create_session")
	defer span.End()

	if !intent.Kind.Valid() {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "unknown purchase kind")
	}
	if intent.SubjectID == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "subjectId is required")
	}
	if intent.BuyerEmail == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "buyer email is required")
	}
	if intent.FeeMinorUnits < 0 {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "fee must not be negative")
	}
	if intent.Kind == payment.KindEventRegistration && intent.ClubID == "" {
		return "", dErrors.New(dErrors.CodeInvalidRequest, "clubId is required for event registrations")
	}

	url, err := s.gateway.CreateSession(ctx, gateway.CreateSessionParams{
		ProductName:   intent.SubjectName,
		UnitAmount:    intent.FeeMinorUnits,
		Currency:      Currency,
		CustomerEmail: intent.BuyerEmail,
		Metadata:      intent.SessionMetadata(),
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout session creation failed",
			"error", err,
			"kind", intent.Kind,
			"subject_id", intent.SubjectID,
		)
		return "", err
	}

	s.metrics.CheckoutSessionsCreated.Inc()
	s.audit.Emit(audit.Event{
		Type:      audit.EventSessionCreated,
		SubjectID: intent.SubjectID,
		UserEmail: intent.BuyerEmail,
		Amount:    intent.FeeMinorUnits,
	})
	s.logger.InfoContext(ctx, "checkout session created",
		"kind", intent.Kind,
		"subject_id", intent.SubjectID,
		"amount_minor_units", intent.FeeMinorUnits,
	)
	return url, nil
}
