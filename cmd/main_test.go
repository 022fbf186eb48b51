package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/adapters/session"
	"github.com/okian/resumerank/internal/config"
	"github.com/okian/resumerank/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// memoryConfig needs no external service.
func memoryConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.Addr = "127.0.0.1:0"
	cfg.Store = config.StoreMemory
	cfg.RedisAddr = ""
	cfg.UploadDir = t.TempDir()
	cfg.GeminiAPIKey = ""
	return cfg
}

func TestWiring(t *testing.T) {
	convey.Convey("Given a memory-only configuration", t, func() {
		ctx := context.Background()
		cfg := memoryConfig(t)

		convey.Convey("Then adapters fall back to their local variants", func() {
			_, isMemory := buildSessions(cfg).(*session.MemoryStore)
			convey.So(isMemory, convey.ShouldBeTrue)

			gen, err := buildGenerator(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(gen, convey.ShouldHaveSameTypeAs, llm.Disabled{})

			blobs, err := buildBlobs(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			convey.So(blobs.Backend(), convey.ShouldEqual, blob.BackendDisk)
		})

		convey.Convey("Then Redis is used when an address is configured", func() {
			mr := miniredis.RunT(t)
			cfg.RedisAddr = mr.Addr()

			store := buildSessions(cfg)
			defer store.Close()
			_, isRedis := store.(*session.RedisStore)
			convey.So(isRedis, convey.ShouldBeTrue)
			convey.So(store.Ping(ctx), convey.ShouldBeNil)
		})

		convey.Convey("Then the s3 backend needs a bucket", func() {
			cfg.CertificateBackend = config.BackendS3
			_, err := buildBlobs(ctx, cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("Then the assembled routes answer", func() {
			svc, err := buildService(ctx, cfg, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			srv := httptest.NewServer(buildMux(ctx, cfg, svc, logger.Get()))
			defer srv.Close()

			for path, want := range map[string]int{
				"/healthz":      http.StatusOK,
				"/metrics":      http.StatusOK,
				"/api-docs":     http.StatusOK,
				"/openapi.yaml": http.StatusOK,
				"/api/me":       http.StatusUnauthorized,
			} {
				resp, err := http.Get(srv.URL + path)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, want)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a memory-only configuration", t, func() {
		cfg := memoryConfig(t)

		convey.Convey("When the context is cancelled the server shuts down cleanly", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Get()) }()

			time.Sleep(50 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				convey.So(err, convey.ShouldBeNil)
			case <-time.After(5 * time.Second):
				t.Fatal("run did not return")
			}
		})

		convey.Convey("When the address is unusable run reports it", func() {
			cfg.Addr = "127.0.0.1:-1"
			err := run(context.Background(), cfg, logger.Get())
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the runtime metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop exits with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx, 5*time.Millisecond) }, convey.ShouldNotPanic)
		})
	})
}
