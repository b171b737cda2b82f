// Package refresh persists issued refresh tokens so they can be rotated,
// revoked and cleaned up.
//
// Tokens are stored under an opaque key (callers pass a digest, never the
// raw token). A row moves from active to revoked exactly once and never
// back. Consume checks validity and revokes in one atomic step, which makes
// every refresh token single use.
package refresh

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicate = errors.New("refresh token already exists")
	ErrNotFound  = errors.New("refresh token not found")
	ErrRevoked   = errors.New("refresh token has been revoked")
	ErrExpired   = errors.New("refresh token has expired")
)

type Record struct {
	Token     string
	OwnerID   string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// Active reports whether the record can still be exchanged at now.
func (r *Record) Active(now time.Time) bool {
	return !r.Revoked && now.Before(r.ExpiresAt)
}

type Store interface {
	// Insert stores a new active token. It never overwrites: an existing
	// token yields ErrDuplicate and an expiry not after now yields ErrExpired.
	Insert(ctx context.Context, token, ownerID string, expiresAt time.Time) error

	// FindActive returns the record when it exists, is not revoked and has
	// not expired. Otherwise it returns ErrNotFound.
	FindActive(ctx context.Context, token string) (*Record, error)

	// Consume atomically revokes an active token and returns it as it was
	// before the call. A revoked token yields ErrRevoked, an expired one
	// ErrExpired and a missing one ErrNotFound. A backend that evicts
	// expired rows, such as RedisStore after ExpiredRetention, answers
	// ErrNotFound once the row is gone.
	Consume(ctx context.Context, token string) (*Record, error)

	// Revoke marks the token revoked. Revoking twice is not an error.
	Revoke(ctx context.Context, token string) error

	// RevokeOwner revokes every active token of ownerID and returns how many
	// were revoked.
	RevokeOwner(ctx context.Context, ownerID string) (int64, error)

	// DeleteExpiredOrRevoked removes rows that can no longer be used.
	DeleteExpiredOrRevoked(ctx context.Context) (int64, error)
}

type options struct {
	now       func() time.Time
	keyPrefix string
}

type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithKeyPrefix namespaces the keys of a RedisStore.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		o.keyPrefix = prefix
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		now:       time.Now,
		keyPrefix: "refresh:",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
