package service

import "errors"

// Sentinel errors returned by Service. The HTTP layer maps each one to a
// status and message.
var (
	ErrUnauthenticated     = errors.New("not authenticated")
	ErrMissingCredentials  = errors.New("email and password are required")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailTaken          = errors.New("email already registered")
	ErrPasswordTooLong     = errors.New("password longer than 72 bytes")
	ErrTextTooShort        = errors.New("extracted text too short")
	ErrParseFailed         = errors.New("resume could not be structured")
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrInvalidLimit        = errors.New("limit out of range")
	ErrNoResumes           = errors.New("no resumes for user")
	ErrInvalidResumeID     = errors.New("invalid resume id")
	ErrResumeNotFound      = errors.New("resume not found")
	ErrNoCertificate       = errors.New("no certificate file")
	ErrCertificateType     = errors.New("certificate type not allowed")
	ErrProjectTitle        = errors.New("project title is required")
	ErrProjectNotFound     = errors.New("project not found")
	ErrCertificateNotSaved = errors.New("certificate not linked")
	ErrCertificateStorage  = errors.New("certificate storage failed")
)

// StoreError wraps a persistence failure.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "database error: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Err: err}
}
