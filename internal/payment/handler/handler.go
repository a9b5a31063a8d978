package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"clubsphere/internal/payment"
	"clubsphere/internal/payment/checkout"
	"clubsphere/internal/platform/middleware"
	"clubsphere/internal/transport/http/shared"
	dErrors "clubsphere/pkg/domain-errors"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, intent payment.PurchaseIntent) (string, error)
}

type ReconcileService interface {
	Reconcile(ctx context.Context, sessionID string) (*payment.ReconciliationResult, error)
}

type LedgerReader interface {
	ListPayments(ctx context.Context) ([]payment.PaymentRecord, error)
}

type Handler struct {
	logger    *slog.Logger
	checkout  CheckoutService
	reconcile ReconcileService
	ledger    LedgerReader
	validator middleware.TokenValidator
	roles     middleware.RoleLookup
}

func New(
	checkoutSvc CheckoutService,
	reconcileSvc ReconcileService,
	ledger LedgerReader,
	validator middleware.TokenValidator,
	roles middleware.RoleLookup,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		logger:    logger,
		checkout:  checkoutSvc,
		reconcile: reconcileSvc,
		ledger:    ledger,
		validator: validator,
		roles:     roles,
	}
}

// Register mounts the payment routes. The success endpoint carries no auth
// or role gate: its only gate is a gateway-verified paid session, because
// the gateway is the trust anchor for that path. Note this reproduces the
// redirect-triggered trigger as-is; authenticating the trigger itself
// belongs to the provider's signed-webhook channel.
func (h *Handler) Register(r chi.Router) {
	r.Get("/payments/success", h.handleSuccess)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/payments/checkout-session", h.handleCreateSession)
		r.With(middleware.RequireRole(h.roles, h.logger, "admin")).
			Get("/payments", h.handleList)
	})
}

type createSessionRequest struct {
	Kind        payment.Kind    `json:"kind"`
	SubjectID   string          `json:"subjectId"`
	SubjectName string          `json:"subjectName"`
	Fee         json.RawMessage `json:"fee"`
	ClubID      string          `json:"clubId"`
	ClubName    string          `json:"clubName"`
}

// handleCreateSession shapes a purchase intent from the request and the
// authenticated principal. The buyer email is always the principal's, never
// the body's.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidRequest, "invalid request body"))
		return
	}

	fee, err := checkout.ParseFee(rawToString(req.Fee))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	intent := payment.PurchaseIntent{
		Kind:          req.Kind,
		SubjectID:     req.SubjectID,
		SubjectName:   req.SubjectName,
		FeeMinorUnits: fee,
		BuyerEmail:    middleware.GetEmail(r.Context()),
		ClubID:        req.ClubID,
		ClubName:      req.ClubName,
	}

	url, err := h.checkout.CreateSession(r.Context(), intent)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// handleSuccess is the reconciliation trigger. The session id is a lookup
// key only; no other input is trusted for financial facts.
func (h *Handler) handleSuccess(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")

	result, err := h.reconcile.Reconcile(r.Context(), sessionID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "reconciliation failed",
			"error", err,
			"session_id", sessionID,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.ledger.ListPayments(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []payment.PaymentRecord{}
	}
	shared.WriteJSON(w, http.StatusOK, records)
}

// rawToString accepts the fee as either a JSON number or a quoted string.
func rawToString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	}
	return string(trimmed)
}
