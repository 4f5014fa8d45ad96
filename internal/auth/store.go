package auth

import "context"

// UserStore persists user credentials.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (User, error)
}

// RevocationLedger is a denylist of refresh token identifiers (jti). A token
// on the ledger is treated as invalid even though its signature and expiry
// still check out. Entries are never expired by the service itself.
type RevocationLedger interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
