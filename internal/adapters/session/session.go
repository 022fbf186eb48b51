// Package session keeps login sessions server-side. The cookie carries only
// an opaque token; the store maps it to the account email.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned for unknown or expired tokens.
var ErrNoSession = errors.New("no session")

// Store creates, resolves and deletes sessions. Every successful Lookup
// extends the session by the store's TTL.
type Store interface {
	Create(ctx context.Context, email string) (token string, err error)
	Lookup(ctx context.Context, token string) (email string, err error)
	Delete(ctx context.Context, token string) error
	// Active counts unexpired sessions.
	Active(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

type settings struct {
	ttl    time.Duration
	prefix string
	now    func() time.Time
}

func defaults() settings {
	return settings{ttl: 24 * time.Hour, prefix: "resumerank:", now: time.Now}
}

// Option configures a Store.
type Option func(*settings)

// WithTTL sets the idle lifetime of a session.
func WithTTL(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithKeyPrefix namespaces the Redis keys.
func WithKeyPrefix(p string) Option {
	return func(s *settings) {
		if p != "" {
			s.prefix = p
		}
	}
}

// WithClock sets the clock used for expiry bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
