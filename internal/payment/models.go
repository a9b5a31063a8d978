// Package payment holds the types of the payment-reconciliation subsystem.
//
// Two type families are kept deliberately apart. PurchaseIntent is
// client-trusted and only ever shapes a gateway request; it effects no state
// change. ConfirmedPayment is built exclusively from the gateway's own
// session-retrieval response and is the only type the reconciler reads
// financial facts from. Keeping them separate makes it a compile error to
// reconcile off client input.
package payment

import "time"

// Kind discriminates what a checkout purchases.
type Kind string

const (
	KindClubJoin          Kind = "club_join"
	KindEventRegistration Kind = "event_registration"
)

func (k Kind) Valid() bool {
	return k == KindClubJoin || k == KindEventRegistration
}

// PurchaseIntent is transient: born at checkout-session creation, never
// persisted. Its identifying fields travel to the gateway inside the session
// metadata bag, which is the durable carrier between the two legs of the
// flow; the service itself holds no session state.
type PurchaseIntent struct {
	Kind          Kind
	SubjectID     string
	SubjectName   string
	FeeMinorUnits int64
	BuyerEmail    string

	// Set for event registrations only.
	ClubID   string
	ClubName string
}

// ConfirmedPayment carries gateway-verified facts for a paid session.
type ConfirmedPayment struct {
	SessionID   string
	PaymentID   string
	AmountTotal int64
	BuyerEmail  string
	Kind        Kind
	SubjectID   string
	SubjectName string

	// Event registrations only.
	ClubID   string
	ClubName string
}

// PaymentRecord is the append-only audit row for a completed payment.
// PaymentID is the idempotency key: globally unique in its collection.
type PaymentRecord struct {
	PaymentID string    `json:"paymentId"`
	UserEmail string    `json:"userEmail"`
	SubjectID string    `json:"subjectId"`
	Amount    int64     `json:"amount"`
	Kind      Kind      `json:"kind"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type MembershipRecord struct {
	ClubID    string    `json:"clubId"`
	UserEmail string    `json:"userEmail"`
	PaymentID string    `json:"paymentId"`
	Status    string    `json:"status"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type RegistrationRecord struct {
	EventID      string    `json:"eventId"`
	UserEmail    string    `json:"userEmail"`
	PaymentID    string    `json:"paymentId"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"regAt"`
}

// StatusCompleted is the only status the base system writes; records are
// immutable after creation.
const StatusCompleted = "completed"

// ReconciliationResult reports the terminal state of a reconcile call.
type ReconciliationResult struct {
	Status    ResultStatus `json:"status"`
	Kind      Kind         `json:"kind,omitempty"`
	SubjectID string       `json:"subjectId,omitempty"`
	PaymentID string       `json:"paymentId,omitempty"`
	// Enrolled reports whether this call changed the member/attendee set;
	// informational only, replays legitimately report false.
	Enrolled        bool `json:"enrolled"`
	AlreadyEnrolled bool `json:"alreadyEnrolled"`
}

type ResultStatus string

const (
	// StatusRecorded: session verified paid, enrollment applied (or already
	// present) and ledger records exist.
	StatusRecorded ResultStatus = "recorded"
	// StatusNotPaid: gateway reports the session as not paid; nothing to do
	// yet, zero writes, safe to poll again.
	StatusNotPaid ResultStatus = "not_paid"
)
