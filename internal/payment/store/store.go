// Package store persists the payment ledger: three append-only collections
// keyed by a unique paymentId. Inserts are insert-if-absent; a duplicate key
// comes back as sentinel.ErrConflict, which the reconciler swallows as
// already-recorded. Concurrent writers racing on the same paymentId leave
// exactly one surviving record; the constraint decides, not the caller.
package store

import (
	"context"

	"clubsphere/internal/payment"
)

type LedgerStore interface {
	InsertPayment(ctx context.Context, rec *payment.PaymentRecord) error
	InsertMembership(ctx context.Context, rec *payment.MembershipRecord) error
	InsertRegistration(ctx context.Context, rec *payment.RegistrationRecord) error

	ListPayments(ctx context.Context) ([]payment.PaymentRecord, error)
}
