package dedupe

const defaultMaxSize = 50000

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of fingerprints kept. Values <= 0 keep
// every fingerprint.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
