package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"clubsphere/internal/audit"
	"clubsphere/internal/payment"
	"clubsphere/internal/payment/checkout"
	"clubsphere/internal/payment/gateway"
	"clubsphere/internal/payment/reconcile"
	"clubsphere/internal/payment/store"
	"clubsphere/internal/platform/metrics"
	"clubsphere/internal/user"
	dErrors "clubsphere/pkg/domain-errors"
	"clubsphere/pkg/testutil"
)

// stubValidator maps tokens to principal emails without real JWT plumbing.
type stubValidator struct {
	tokens map[string]string
}

func (v *stubValidator) ValidateToken(token string) (string, error) {
	email, ok := v.tokens[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return email, nil
}

// stubGateway records created sessions and serves retrievals for them.
type stubGateway struct {
	sessions map[string]*gateway.Session
	created  []gateway.CreateSessionParams
}

func (g *stubGateway) CreateSession(_ context.Context, params gateway.CreateSessionParams) (string, error) {
	g.created = append(g.created, params)
	return "https://checkout.example/cs_next", nil
}

func (g *stubGateway) GetSession(_ context.Context, sessionID string) (*gateway.Session, error) {
	sess, ok := g.sessions[sessionID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeGatewayError, "no such session")
	}
	return sess, nil
}

type enrollerStub struct{ added bool }

func (e *enrollerStub) TryEnroll(context.Context, string, string) (bool, error) {
	return e.added, nil
}

type PaymentHandlerSuite struct {
	suite.Suite
	router  http.Handler
	gateway *stubGateway
	ledger  *store.MemoryStore
	users   *user.Service
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerSuite))
}

func (s *PaymentHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	auditSvc := audit.NewService(m, logger)

	s.gateway = &stubGateway{sessions: make(map[string]*gateway.Session)}
	s.ledger = store.NewMemoryStore()
	s.users = user.NewService(user.NewMemoryStore())

	checkoutSvc := checkout.NewService(s.gateway, "https://app.example/success?session_id={CHECKOUT_SESSION_ID}", "https://app.example/cancel", auditSvc, m, logger)
	reconcileSvc := reconcile.NewService(s.gateway, s.ledger, &enrollerStub{added: true}, &enrollerStub{added: true}, nil, auditSvc, m, logger)

	validator := &stubValidator{tokens: map[string]string{
		"member-token": "member@example.com",
		"admin-token":  "admin@example.com",
	}}
	s.Require().NoError(s.users.Sync(context.Background(), &user.User{Email: "member@example.com"}))
	s.Require().NoError(s.users.Sync(context.Background(), &user.User{Email: "admin@example.com"}))
	s.Require().NoError(s.users.SetRole(context.Background(), "admin@example.com", user.RoleAdmin))

	h := New(checkoutSvc, reconcileSvc, s.ledger, validator, s.users, logger)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

// =============================================================================
// POST /payments/checkout-session
// =============================================================================

func (s *PaymentHandlerSuite) TestCreateCheckoutSession() {
	s.Run("requires authentication", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/checkout-session", map[string]any{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("buyer email comes from the token, never the body", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/checkout-session", map[string]any{
			"kind":        "club_join",
			"subjectId":   "club-1",
			"subjectName": "Chess Club",
			"fee":         "10",
			"email":       "spoofed@example.com",
		})
		req.Header.Set("Authorization", "Bearer member-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "url", "https://checkout.example/cs_next")

		s.Require().Len(s.gateway.created, 1)
		s.Equal("member@example.com", s.gateway.created[0].CustomerEmail)
		s.Equal(int64(1000), s.gateway.created[0].UnitAmount)
	})

	s.Run("accepts the fee as a JSON number too", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/checkout-session", map[string]any{
			"kind":        "club_join",
			"subjectId":   "club-1",
			"subjectName": "Chess Club",
			"fee":         12.5,
		})
		req.Header.Set("Authorization", "Bearer member-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		last := s.gateway.created[len(s.gateway.created)-1]
		s.Equal(int64(1250), last.UnitAmount)
	})

	s.Run("malformed fee is a bad request", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/checkout-session", map[string]any{
			"kind":      "club_join",
			"subjectId": "club-1",
			"fee":       "free",
		})
		req.Header.Set("Authorization", "Bearer member-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
	})

	s.Run("invalid JSON body is a bad request", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/payments/checkout-session", "not json")
		req.Header.Set("Authorization", "Bearer member-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
	})
}

// =============================================================================
// GET /payments/success
// =============================================================================

func (s *PaymentHandlerSuite) TestSuccess() {
	s.gateway.sessions["cs_paid"] = &gateway.Session{
		ID:              "cs_paid",
		PaymentStatus:   gateway.PaymentStatusPaid,
		PaymentIntentID: "pi_1",
		AmountTotal:     1000,
		CustomerEmail:   "member@example.com",
		Metadata: map[string]string{
			"kind":      "club_join",
			"subjectId": "club-1",
		},
	}
	s.gateway.sessions["cs_unpaid"] = &gateway.Session{
		ID:            "cs_unpaid",
		PaymentStatus: gateway.PaymentStatusUnpaid,
	}

	s.Run("no auth gate on the trigger", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments/success?session_id=cs_paid")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		result := testutil.UnmarshalResponse[payment.ReconciliationResult](s.T(), rr)
		s.Equal(payment.StatusRecorded, result.Status)
		s.Equal("pi_1", result.PaymentID)
	})

	s.Run("unpaid session reports not_paid with 200", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments/success?session_id=cs_unpaid")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "status", "not_paid")
	})

	s.Run("missing session id is a bad request", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments/success")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_request")
	})

	s.Run("unknown session is a gateway error", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments/success?session_id=cs_ghost")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadGateway, "gateway_error")
	})
}

// =============================================================================
// GET /payments
// =============================================================================

func (s *PaymentHandlerSuite) TestListPayments() {
	s.Run("requires authentication", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("requires the admin role", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments")
		req.Header.Set("Authorization", "Bearer member-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})

	s.Run("admin sees the ledger", func() {
		s.Require().NoError(s.ledger.InsertPayment(context.Background(), &payment.PaymentRecord{
			PaymentID: "pi_9",
			UserEmail: "member@example.com",
			SubjectID: "club-1",
			Amount:    1000,
			Kind:      payment.KindClubJoin,
			Status:    payment.StatusCompleted,
		}))

		req := testutil.NewRequest(s.T(), http.MethodGet, "/payments")
		req.Header.Set("Authorization", "Bearer admin-token")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		records := testutil.UnmarshalResponse[[]payment.PaymentRecord](s.T(), rr)
		s.Require().Len(*records, 1)
		s.Equal("pi_9", (*records)[0].PaymentID)
	})
}
