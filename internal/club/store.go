package club

import "context"

// Store is pure I/O over the clubs collection. Implementations must make
// AddMember a single atomic conditional update: filter on id AND email
// absent, append on match. Concurrent callers for the same (club, email)
// pair race safely; at most one observes added=true.
type Store interface {
	List(ctx context.Context) ([]Club, error)
	Get(ctx context.Context, id string) (*Club, error)
	Insert(ctx context.Context, c *Club) (string, error)
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, email string) (added bool, err error)
}
