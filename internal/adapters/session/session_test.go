package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/resumerank/internal/adapters/session"
	. "github.com/smartystreets/goconvey/convey"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

// contract exercises behaviour common to every Store. expire moves both the
// store clock and, for Redis, the server clock.
func contract(store session.Store, expire func(time.Duration)) {
	ctx := context.Background()

	Convey("A created session resolves to its email", func() {
		token, err := store.Create(ctx, "a@x.io")
		So(err, ShouldBeNil)
		So(token, ShouldNotBeEmpty)

		email, err := store.Lookup(ctx, token)
		So(err, ShouldBeNil)
		So(email, ShouldEqual, "a@x.io")

		n, err := store.Active(ctx)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 1)
	})

	Convey("Unknown tokens have no session", func() {
		_, err := store.Lookup(ctx, "nope")
		So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
		_, err = store.Lookup(ctx, "")
		So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
	})

	Convey("Deleted sessions are gone", func() {
		token, _ := store.Create(ctx, "a@x.io")
		So(store.Delete(ctx, token), ShouldBeNil)
		_, err := store.Lookup(ctx, token)
		So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
		So(store.Delete(ctx, token), ShouldBeNil)

		n, _ := store.Active(ctx)
		So(n, ShouldEqual, 0)
	})

	Convey("Lookups slide the expiry", func() {
		token, _ := store.Create(ctx, "a@x.io")
		expire(40 * time.Minute)
		_, err := store.Lookup(ctx, token)
		So(err, ShouldBeNil)
		expire(40 * time.Minute)
		_, err = store.Lookup(ctx, token)
		So(err, ShouldBeNil)

		Convey("and idle sessions expire", func() {
			expire(61 * time.Minute)
			_, err := store.Lookup(ctx, token)
			So(errors.Is(err, session.ErrNoSession), ShouldBeTrue)
			n, _ := store.Active(ctx)
			So(n, ShouldEqual, 0)
		})
	})

	Convey("Ping succeeds", func() {
		So(store.Ping(ctx), ShouldBeNil)
	})
}

func TestRedisStore(t *testing.T) {
	Convey("Given a Redis-backed store", t, func() {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := session.NewRedisWithClient(rdb, session.WithTTL(time.Hour), session.WithClock(c.now), session.WithKeyPrefix("test:"))
		Reset(func() { _ = store.Close() })

		contract(store, func(d time.Duration) {
			c.advance(d)
			mr.FastForward(d)
		})

		Convey("Keys carry the prefix and TTL", func() {
			token, _ := store.Create(context.Background(), "a@x.io")
			So(mr.Exists("test:session:"+token), ShouldBeTrue)
			So(mr.TTL("test:session:"+token), ShouldEqual, time.Hour)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := session.NewMemory(session.WithTTL(time.Hour), session.WithClock(c.now))

		contract(store, c.advance)
	})
}
