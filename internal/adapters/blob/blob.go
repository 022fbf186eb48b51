// Package blob stores uploaded certificate files on local disk or in an
// S3-compatible bucket.
package blob

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Backend names.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

var (
	// ErrInvalidName is returned for empty names or names containing a path.
	ErrInvalidName = errors.New("blob: invalid object name")
	// ErrForeignPath is returned when Remove gets a path this store did not produce.
	ErrForeignPath = errors.New("blob: path not owned by store")
)

// Store persists opaque files and returns the path recorded on the resume.
type Store interface {
	Save(ctx context.Context, name, contentType string, data []byte) (path string, err error)
	Remove(ctx context.Context, path string) error
	Backend() string
}

// Name returns a fresh collision-free object name that keeps the extension
// of the uploaded filename.
func Name(original string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return id + strings.ToLower(filepath.Ext(original))
}
