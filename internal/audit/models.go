package audit

import "time"

type EventType string

const (
	EventSessionCreated  EventType = "payment.session_created"
	EventPaymentRecorded EventType = "payment.recorded"
	EventPaymentDuplicate EventType = "payment.duplicate"
	EventPaymentRejected EventType = "payment.rejected"
)

// Event is the append-only audit row for the payment flow. Best-effort by
// design: losing an audit event never fails a reconciliation.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId,omitempty"`
	PaymentID string    `json:"paymentId,omitempty"`
	SubjectID string    `json:"subjectId,omitempty"`
	UserEmail string    `json:"userEmail,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	At        time.Time `json:"at"`
}
