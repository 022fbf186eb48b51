// Package repository persists resume records and user accounts.
//
// Two implementations share the Store contract: MongoStore for deployments
// and MemoryStore for tests and local runs. Record IDs are 24-character hex
// object IDs in both.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/resumerank/internal/domain/analytics"
	"github.com/okian/resumerank/internal/domain/model"
)

// Query selects records. It is the analytics filter; every zero field
// matches everything.
type Query = analytics.Filter

// ScoredResume is a record with its suitability score as computed by the
// store.
type ScoredResume struct {
	model.Resume    `bson:",inline"`
	CalculatedScore int `bson:"calculated_score" json:"calculated_score"`
}

// Store provides read/write access to records and accounts.
type Store interface {
	// InsertResume stores r and returns its new ID.
	InsertResume(ctx context.Context, r model.Resume) (string, error)
	// FindResume returns owner's record with id. It fails with ErrInvalidID
	// for malformed IDs and ErrNotFound otherwise.
	FindResume(ctx context.Context, id, owner string) (model.Resume, error)
	// FindResumes returns the matching records, newest first.
	FindResumes(ctx context.Context, q Query) ([]model.Resume, error)
	// ScoredResumes returns up to limit matching records ordered by score,
	// highest first, and the total number of matches.
	ScoredResumes(ctx context.Context, q Query, limit int) ([]ScoredResume, int, error)
	// CountResumes counts the matching records.
	CountResumes(ctx context.Context, q Query) (int, error)
	// DistinctUploaders counts owners with an upload at or after since.
	DistinctUploaders(ctx context.Context, since time.Time) (int, error)
	// AttachCertificate sets the certificate of the first project titled
	// title in owner's newest record that has one, and returns that record's
	// ID. It fails with ErrProjectNotFound or ErrNotModified.
	AttachCertificate(ctx context.Context, owner, title string, cert model.Certificate) (string, error)

	// CreateUser fails with ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, u model.User) error
	// FindUser fails with ErrNotFound for unknown emails.
	FindUser(ctx context.Context, email string) (model.User, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ValidID reports whether id has the record ID format.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
