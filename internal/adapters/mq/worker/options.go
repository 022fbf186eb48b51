package worker

import (
	"github.com/okian/resumerank/pkg/logger"
)

type settings struct {
	name   string
	logger logger.Logger
}

// Option configures a Pool.
type Option func(*settings)

// WithName sets the pool name used for worker names and logging.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
