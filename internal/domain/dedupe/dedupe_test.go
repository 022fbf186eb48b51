package dedupe_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	dedupe "github.com/okian/resumerank/internal/domain/dedupe"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestFingerprint(t *testing.T) {
	convey.Convey("Given document contents", t, func() {
		convey.Convey("Then equal contents share a fingerprint", func() {
			a, err := dedupe.Fingerprint(strings.NewReader("Jane Doe, Go engineer"))
			convey.So(err, convey.ShouldBeNil)
			b, _ := dedupe.Fingerprint(strings.NewReader("Jane Doe, Go engineer"))
			convey.So(a, convey.ShouldEqual, b)
			convey.So(a, convey.ShouldHaveLength, 64)
		})

		convey.Convey("Then different contents differ", func() {
			a, _ := dedupe.Fingerprint(strings.NewReader("one"))
			b, _ := dedupe.Fingerprint(strings.NewReader("two"))
			convey.So(a, convey.ShouldNotEqual, b)
		})

		convey.Convey("Then read errors are returned", func() {
			_, err := dedupe.Fingerprint(failingReader{})
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))

		convey.Convey("When a fingerprint is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "a")
			second := d.SeenAndRecord(ctx, "a")

			convey.Convey("Then only the second is reported as seen", func() {
				convey.So(first, convey.ShouldBeFalse)
				convey.So(second, convey.ShouldBeTrue)
				convey.So(d.Size(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a fingerprint is unrecorded", func() {
			d.SeenAndRecord(ctx, "a")
			d.Unrecord(ctx, "a")
			d.Unrecord(ctx, "missing")

			convey.Convey("Then it can be recorded again", func() {
				convey.So(d.Size(), convey.ShouldEqual, 0)
				convey.So(d.SeenAndRecord(ctx, "a"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When many goroutines record the same fingerprint", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if !d.SeenAndRecord(ctx, "same") {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			convey.Convey("Then exactly one wins", func() {
				convey.So(fresh, convey.ShouldEqual, 1)
			})
		})
	})

	convey.Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))

		convey.Convey("When more fingerprints than the bound are recorded", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.SeenAndRecord(ctx, "c")

			convey.Convey("Then the oldest is evicted", func() {
				convey.So(d.Size(), convey.ShouldEqual, 2)
				convey.So(d.SeenAndRecord(ctx, "c"), convey.ShouldBeTrue)
				convey.So(d.SeenAndRecord(ctx, "a"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When an unrecorded fingerprint frees space", func() {
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Unrecord(ctx, "a")
			d.SeenAndRecord(ctx, "c")

			convey.Convey("Then nothing else is evicted", func() {
				convey.So(d.Size(), convey.ShouldEqual, 2)
				convey.So(d.SeenAndRecord(ctx, "b"), convey.ShouldBeTrue)
			})
		})
	})
}
