package api

import (
	"time"

	"github.com/okian/resumerank/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithSessionCookie sets the session cookie name.
func WithSessionCookie(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookie.name = name
		}
	}
}

// WithSessionTTL sets the session cookie lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.cookie.ttl = ttl
		}
	}
}

// WithCookieSecure sets the Secure attribute on the session cookie.
func WithCookieSecure(secure bool) Option {
	return func(s *Server) {
		s.cookie.secure = secure
	}
}

// WithMaxUploadBytes caps multipart request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}
