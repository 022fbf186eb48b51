// Package dedupe tracks content fingerprints so the same document is
// submitted at most once.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sync"
)

// Deduper records fingerprints that have already been submitted.
type Deduper interface {
	// SeenAndRecord reports whether fp was already recorded and records it
	// when it was not. The check and the record are atomic.
	SeenAndRecord(ctx context.Context, fp string) bool

	// Unrecord forgets fp so a later submission of the same content is
	// attempted again. Used when a submission failed.
	Unrecord(ctx context.Context, fp string)

	Size() int
}

// Fingerprint returns the hex SHA-256 of everything read from r.
func Fingerprint(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// inMemoryDeduper keeps fingerprints in a map. In bounded mode the oldest
// fingerprint is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, bounded mode only
	maxSize int      // <= 0 is unbounded
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, fp string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[fp]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, fp)
	}
	d.seen[fp] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, fp string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[fp]; !ok {
		return
	}
	delete(d.seen, fp)
	for i, v := range d.order {
		if v == fp {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order = d.order[1:]
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
