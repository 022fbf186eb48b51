package repository

import "time"

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the clock used for generated IDs.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// MongoOption configures a MongoStore.
type MongoOption func(*mongoSettings)

type mongoSettings struct {
	database          string
	resumesCollection string
	usersCollection   string
	timeout           time.Duration
}

// WithDatabase sets the database name.
func WithDatabase(name string) MongoOption {
	return func(s *mongoSettings) {
		if name != "" {
			s.database = name
		}
	}
}

// WithCollections sets the resume and user collection names.
func WithCollections(resumes, users string) MongoOption {
	return func(s *mongoSettings) {
		if resumes != "" {
			s.resumesCollection = resumes
		}
		if users != "" {
			s.usersCollection = users
		}
	}
}

// WithConnectTimeout bounds the initial connection and ping.
func WithConnectTimeout(d time.Duration) MongoOption {
	return func(s *mongoSettings) {
		if d > 0 {
			s.timeout = d
		}
	}
}
