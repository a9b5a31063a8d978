// Package postgres persists audit events in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE payment_audit_events (
//	    id          UUID PRIMARY KEY,
//	    event_type  TEXT NOT NULL,
//	    session_id  TEXT NOT NULL DEFAULT '',
//	    payment_id  TEXT NOT NULL DEFAULT '',
//	    subject_id  TEXT NOT NULL DEFAULT '',
//	    user_email  TEXT NOT NULL DEFAULT '',
//	    amount      BIGINT NOT NULL DEFAULT 0,
//	    occurred_at TIMESTAMPTZ NOT NULL
//	);
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"clubsphere/internal/audit"
)

// Store is pure I/O; rows are append-only and never updated.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	query := `
		INSERT INTO payment_audit_events (id, event_type, session_id, payment_id, subject_id, user_email, amount, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.Type),
		event.SessionID,
		event.PaymentID,
		event.SubjectID,
		event.UserEmail,
		event.Amount,
		event.At,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]audit.Event, error) {
	query := `
		SELECT id, event_type, session_id, payment_id, subject_id, user_email, amount, occurred_at
		FROM payment_audit_events
		ORDER BY occurred_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var event audit.Event
		var eventType string
		if err := rows.Scan(&event.ID, &eventType, &event.SessionID, &event.PaymentID,
			&event.SubjectID, &event.UserEmail, &event.Amount, &event.At); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Type = audit.EventType(eventType)
		events = append(events, event)
	}
	return events, rows.Err()
}
