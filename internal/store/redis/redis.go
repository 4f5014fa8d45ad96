// Package redis implements the refresh-token revocation ledger on Redis,
// keyed by jti. Entries do not expire unless a TTL is configured.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"orgdesk.org/internal/auth"
)

const keyPrefix = "revoked:"

// Ledger is a redis-backed auth.RevocationLedger.
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

var _ auth.RevocationLedger = (*Ledger)(nil)

// Option configures the ledger.
type Option func(*Ledger)

// WithTTL bounds revocation entries to the given lifetime. Zero keeps entries
// forever, the historical behavior; setting it to the refresh token lifetime
// is enough, since an expired token fails validation before the ledger check.
func WithTTL(ttl time.Duration) Option {
	return func(l *Ledger) {
		if ttl > 0 {
			l.ttl = ttl
		}
	}
}

// New constructs a ledger over the given redis address.
func New(addr string, opts ...Option) *Ledger {
	l := &Ledger{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Close() error { return l.client.Close() }

// Ping reports connectivity for the readiness probe.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Revoke marks the jti as revoked. SET is naturally idempotent.
func (l *Ledger) Revoke(ctx context.Context, jti string) error {
	return l.client.Set(ctx, keyPrefix+jti, "revoked", l.ttl).Err()
}

// IsRevoked is a point lookup on the denylist.
func (l *Ledger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
