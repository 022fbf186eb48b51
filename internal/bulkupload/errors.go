package bulkupload

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials is returned when no email or password was given.
	ErrNoCredentials = errors.New("email and password are required")
	// ErrNoFiles is returned when the directory holds no supported resume.
	ErrNoFiles = errors.New("no .pdf, .docx or .txt files found")
	// ErrQueueFull is returned when a file could not be queued.
	ErrQueueFull = errors.New("upload queue rejected file")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Op     string
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
}
