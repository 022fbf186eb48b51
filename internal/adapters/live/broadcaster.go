package live

import (
	"context"
	"time"

	"github.com/okian/resumerank/pkg/logger"
	"github.com/okian/resumerank/pkg/metrics"
)

// MessageType tags every pushed payload.
const MessageType = "analytics_update"

// Snapshot is the live analytics summary.
type Snapshot struct {
	RecentUploads   int       `json:"recent_uploads"`
	TotalResumes    int       `json:"total_resumes"`
	ActiveUsers     int       `json:"active_users"`
	ProcessingQueue int       `json:"processing_queue"`
	LastUpdate      time.Time `json:"last_update"`
}

// Message is the envelope written to clients.
type Message struct {
	Type      string    `json:"type"`
	Data      Snapshot  `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// SnapshotFunc computes the current summary.
type SnapshotFunc func(ctx context.Context) (Snapshot, error)

// Broadcaster periodically writes one snapshot to every registered
// connection.
type Broadcaster struct {
	registry *Registry
	snapshot SnapshotFunc
	interval time.Duration
	now      func() time.Time
	logger   logger.Logger
}

// NewBroadcaster builds a broadcaster over registry.
func NewBroadcaster(registry *Registry, fn SnapshotFunc, opts ...Option) *Broadcaster {
	b := &Broadcaster{
		registry: registry,
		snapshot: fn,
		interval: 30 * time.Second,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Get().Named("live")
	}
	return b
}

// Run ticks until ctx is done, then closes every connection.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	defer b.registry.CloseAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if b.registry.Len() == 0 {
				continue
			}
			if _, _, err := b.Broadcast(ctx); err != nil {
				b.logger.Warn(ctx, "live snapshot failed", logger.Error(err))
			}
		}
	}
}

// Broadcast sends one snapshot now. Connections that fail the write are
// removed and closed.
func (b *Broadcaster) Broadcast(ctx context.Context) (delivered, dropped int, err error) {
	snap, err := b.snapshot(ctx)
	if err != nil {
		return 0, 0, err
	}
	msg := Message{Type: MessageType, Data: snap, Timestamp: b.now().UTC()}

	for _, c := range b.registry.Snapshot() {
		if werr := c.WriteJSON(msg); werr != nil {
			dropped++
			if b.registry.Remove(c) {
				_ = c.Close()
			}
			b.logger.Debug(ctx, "dropping live connection", logger.Error(werr))
			continue
		}
		delivered++
	}
	metrics.RecordLiveBroadcast(delivered, dropped)
	return delivered, dropped, nil
}
