package user

import "context"

// Store is pure I/O over the users collection. Email is the natural key;
// implementations enforce uniqueness on it.
type Store interface {
	// Upsert creates the user on first login and refreshes profile fields
	// afterwards. The stored role is never touched by an upsert.
	Upsert(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	SetRole(ctx context.Context, email, role string) error
}
