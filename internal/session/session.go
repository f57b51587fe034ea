// Package session maps opaque session tokens to account identifiers.
// The raw token travels only in the client cookie; stores keep its
// SHA-256 hash. Two implementations exist: a Redis-backed store used
// when Redis is reachable (entries expire server-side via key TTL) and
// an in-process store used otherwise.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned when a token is unknown, expired or destroyed.
var ErrNoSession = errors.New("no active session")

// Store creates, resolves and destroys sessions.
type Store interface {
	// Create issues a new opaque token bound to the account id, valid
	// for ttl. The returned value is the raw token for the cookie.
	Create(ctx context.Context, accountID uint64, ttl time.Duration) (string, error)

	// Resolve returns the account id bound to the raw token, or
	// ErrNoSession.
	Resolve(ctx context.Context, token string) (uint64, error)

	// Destroy removes the session for the raw token. Destroying an
	// unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}
