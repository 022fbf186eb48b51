// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/live"
	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/adapters/session"
	"github.com/okian/resumerank/pkg/logger"
)

// Service implements the resume, ranking and analytics use cases.
type Service struct {
	mu sync.Mutex

	// Core components
	store    repository.Store
	sessions session.Store
	llm      *llm.Client
	blobs    blob.Store
	registry *live.Registry

	// Configuration
	rankWorkers       int
	minTextLength     int
	broadcastInterval time.Duration
	now               func() time.Time

	// State
	started bool
	cancel  context.CancelFunc
	done    chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record and account store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithSessions sets the session store.
func WithSessions(st session.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.sessions = st
		}
	}
}

// WithLLM sets the language model client.
func WithLLM(c *llm.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.llm = c
		}
	}
}

// WithBlobStore sets where certificates are stored.
func WithBlobStore(b blob.Store) Option {
	return func(s *Service) {
		if b != nil {
			s.blobs = b
		}
	}
}

// WithLiveRegistry sets the registry of live-update connections.
func WithLiveRegistry(r *live.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithRankWorkers caps concurrent model calls within one ranking request.
func WithRankWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rankWorkers = n
		}
	}
}

// WithMinTextLength sets the minimum extracted text length of an upload.
func WithMinTextLength(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minTextLength = n
		}
	}
}

// WithBroadcastInterval sets the live-update period.
func WithBroadcastInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.broadcastInterval = d
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Missing components default to in-memory
// stores, a disabled model and disk certificate storage.
func New(opts ...Option) *Service {
	s := &Service{
		rankWorkers:       4,
		minTextLength:     100,
		broadcastInterval: 30 * time.Second,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.sessions == nil {
		s.sessions = session.NewMemory()
	}
	if s.llm == nil {
		s.llm = llm.NewClient(nil)
	}
	if s.blobs == nil {
		s.blobs = blob.NewDisk("uploads/certificates")
	}
	if s.registry == nil {
		s.registry = live.NewRegistry()
	}
	return s
}

// Registry returns the live-update connection registry.
func (s *Service) Registry() *live.Registry { return s.registry }

// Start launches the live-update broadcaster.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b := live.NewBroadcaster(s.registry, s.Snapshot,
		live.WithInterval(s.broadcastInterval),
		live.WithClock(s.now),
		live.WithLogger(s.logger.Named("live")),
	)
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		b.Run(runCtx)
	}()

	s.started = true
	s.logger.Info(ctx, "resume service started",
		logger.Int("rankWorkers", s.rankWorkers),
		logger.Duration("broadcastInterval", s.broadcastInterval),
		logger.Bool("llmConfigured", s.llm.Configured()),
		logger.String("certificateBackend", s.blobs.Backend()),
	)
	return nil
}

// Stop ends the broadcaster, closing live connections, and releases the
// stores.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		s.cancel()
		select {
		case <-s.done:
		case <-ctx.Done():
		}
		s.started = false
	}

	var firstErr error
	if err := s.sessions.Close(); err != nil {
		firstErr = err
	}
	if err := s.store.Close(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	s.logger.Info(ctx, "resume service stopped")
	return firstErr
}

// Health reports dependency status.
type Health struct {
	Database string `json:"database_status"`
	AI       string `json:"ai_service_status"`
	Sessions string `json:"session_store_status"`
	Live     int    `json:"live_connections"`
}

// Health pings the store and the session store.
func (s *Service) Health(ctx context.Context) Health {
	h := Health{Database: "healthy", AI: "operational", Sessions: "healthy", Live: s.registry.Len()}
	if err := s.store.Ping(ctx); err != nil {
		h.Database = "unavailable"
	}
	if err := s.sessions.Ping(ctx); err != nil {
		h.Sessions = "unavailable"
	}
	if !s.llm.Configured() {
		h.AI = "not_configured"
	}
	return h
}

// Healthy reports whether every required dependency is reachable.
func (h Health) Healthy() bool {
	return h.Database == "healthy" && h.Sessions == "healthy"
}
