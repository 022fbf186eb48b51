package llm

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGeminiTimeout(t *testing.T) {
	ctx := context.Background()

	Convey("Given a Gemini generator", t, func() {
		Convey("It bounds calls by default", func() {
			g, err := NewGemini(ctx, "key")
			So(err, ShouldBeNil)
			So(g.timeout, ShouldEqual, 90*time.Second)
		})

		Convey("A zero timeout removes the bound", func() {
			g, err := NewGemini(ctx, "key", WithTimeout(0))
			So(err, ShouldBeNil)
			So(g.timeout, ShouldEqual, time.Duration(0))
		})

		Convey("A negative timeout keeps the default", func() {
			g, err := NewGemini(ctx, "key", WithTimeout(-time.Second))
			So(err, ShouldBeNil)
			So(g.timeout, ShouldEqual, 90*time.Second)
		})

		Convey("A positive timeout replaces the default", func() {
			g, err := NewGemini(ctx, "key", WithTimeout(5*time.Second))
			So(err, ShouldBeNil)
			So(g.timeout, ShouldEqual, 5*time.Second)
		})
	})
}
