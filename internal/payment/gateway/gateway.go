// Package gateway abstracts the hosted payment provider: create a checkout
// session and return a redirect URL; retrieve the canonical, server-verified
// state of a session by id.
package gateway

import "context"

// PaymentStatus values echoed from the provider.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

// CreateSessionParams shapes a hosted checkout: a single line item in a
// fixed currency, the buyer's email for pre-fill, and a flat metadata bag
// carrying everything reconciliation will need later.
type CreateSessionParams struct {
	ProductName   string
	UnitAmount    int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	// SuccessURL carries the provider's session-id placeholder.
	SuccessURL string
	CancelURL  string
}

// Session is the provider's canonical view of a checkout session. Amount,
// payer and paid-status come from here and nowhere else.
type Session struct {
	ID            string
	PaymentStatus string
	// PaymentIntentID is the provider's identifier for the completed
	// payment: stable, unique, and the ledger's idempotency key.
	PaymentIntentID string
	AmountTotal     int64
	CustomerEmail   string
	Metadata        map[string]string
}

//go:generate mockgen -source=gateway.go -destination=mocks/gateway_mock.go -package=mocks Gateway

// Gateway is the payment provider capability. Both calls are single-attempt;
// retry policy belongs to external callers.
type Gateway interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (redirectURL string, err error)
	// GetSession returns a coded gateway error for unknown session ids.
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
