package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/http/api"
	"github.com/okian/resumerank/internal/adapters/http/swagger"
	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/adapters/session"
	app "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/internal/config"
	"github.com/okian/resumerank/pkg/logger"
)

// buildStore selects the record store.
func buildStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	if cfg.Store == config.StoreMemory {
		return repository.NewMemoryStore(), nil
	}
	return repository.NewMongoStore(ctx, cfg.MongoURI,
		repository.WithDatabase(cfg.MongoDatabase),
		repository.WithCollections(cfg.ResumesCollection, cfg.UsersCollection),
	)
}

// buildSessions uses Redis when an address is configured.
func buildSessions(cfg *config.Config) session.Store {
	if cfg.RedisAddr == "" {
		return session.NewMemory(session.WithTTL(cfg.SessionTTL))
	}
	return session.NewRedis(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, session.WithTTL(cfg.SessionTTL))
}

// buildGenerator returns Gemini when a key is configured; without one the
// model-backed operations take their fallback paths.
func buildGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return llm.Disabled{}, nil
	}
	return llm.NewGemini(ctx, cfg.GeminiAPIKey,
		llm.WithModel(cfg.GeminiModel),
		llm.WithTimeout(cfg.LLMTimeout),
		llm.WithRateLimit(cfg.LLMRatePerSec, cfg.LLMBurst),
	)
}

// buildBlobs selects where certificates are kept.
func buildBlobs(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	if cfg.CertificateBackend == config.BackendS3 {
		return blob.NewS3(ctx, blob.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Prefix:    cfg.S3Prefix,
		})
	}
	return blob.NewDisk(cfg.UploadDir), nil
}

// buildService wires the adapters selected by cfg into a Service.
func buildService(ctx context.Context, cfg *config.Config, l logger.Logger) (*app.Service, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("llm: %w", err)
	}
	blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("certificate storage: %w", err)
	}

	return app.New(
		app.WithLogger(l.Named("service")),
		app.WithStore(store),
		app.WithSessions(buildSessions(cfg)),
		app.WithLLM(llm.NewClient(gen, llm.WithLogger(l.Named("llm")))),
		app.WithBlobStore(blobs),
		app.WithRankWorkers(cfg.RankWorkers),
		app.WithMinTextLength(cfg.MinTextLength),
		app.WithBroadcastInterval(cfg.BroadcastInterval),
	), nil
}

// buildMux registers the docs and business routes.
func buildMux(ctx context.Context, cfg *config.Config, svc *app.Service, l logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithSessionCookie(cfg.SessionCookie),
		api.WithSessionTTL(cfg.SessionTTL),
		api.WithCookieSecure(cfg.CookieSecure),
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLogger(l.Named("api")),
	).Register(ctx, mux)
	return mux
}
