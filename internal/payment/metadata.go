package payment

import (
	"clubsphere/internal/payment/gateway"
	dErrors "clubsphere/pkg/domain-errors"
)

// Metadata keys attached to a checkout session at creation and echoed back
// verbatim on retrieval. The bag must carry full reconciliation context:
// nothing else ties the confirmation leg back to the checkout leg.
const (
	metaKind        = "kind"
	metaSubjectID   = "subjectId"
	metaSubjectName = "subjectName"
	metaClubID      = "clubId"
	metaClubName    = "clubName"
)

// SessionMetadata flattens the intent's identifying fields into the bag.
func (i PurchaseIntent) SessionMetadata() map[string]string {
	md := map[string]string{
		metaKind:        string(i.Kind),
		metaSubjectID:   i.SubjectID,
		metaSubjectName: i.SubjectName,
	}
	if i.Kind == KindEventRegistration {
		md[metaClubID] = i.ClubID
		md[metaClubName] = i.ClubName
	}
	return md
}

// Confirm derives gateway-trusted facts from a retrieved session. It is the
// only constructor of ConfirmedPayment; every field comes from the gateway
// response, never from client input.
func Confirm(sess *gateway.Session) (*ConfirmedPayment, error) {
	if sess.PaymentStatus != gateway.PaymentStatusPaid {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "session is not paid")
	}
	if sess.PaymentIntentID == "" {
		return nil, dErrors.New(dErrors.CodeGatewayError, "paid session carries no payment intent")
	}

	kind := Kind(sess.Metadata[metaKind])
	if !kind.Valid() {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "malformed session metadata: kind")
	}
	subjectID := sess.Metadata[metaSubjectID]
	if subjectID == "" {
		return nil, dErrors.New(dErrors.CodeInvalidRequest, "malformed session metadata: subjectId")
	}

	cp := &ConfirmedPayment{
		SessionID:   sess.ID,
		PaymentID:   sess.PaymentIntentID,
		AmountTotal: sess.AmountTotal,
		BuyerEmail:  sess.CustomerEmail,
		Kind:        kind,
		SubjectID:   subjectID,
		SubjectName: sess.Metadata[metaSubjectName],
	}
	if kind == KindEventRegistration {
		cp.ClubID = sess.Metadata[metaClubID]
		cp.ClubName = sess.Metadata[metaClubName]
	}
	return cp, nil
}
