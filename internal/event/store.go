package event

import "context"

// Store mirrors the club store contract for the events collection.
// AddAttendee is the atomic conditional append; see club.Store.
type Store interface {
	List(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id string) (*Event, error)
	Insert(ctx context.Context, e *Event) (string, error)
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, id, email string) (added bool, err error)
}
