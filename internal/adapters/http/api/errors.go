package api

import (
	"errors"
	"net/http"

	"github.com/okian/resumerank/internal/adapters/extract"
	service "github.com/okian/resumerank/internal/app"
)

// Sentinel kinds for request errors raised by the handler layer itself.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrTooLarge        = errors.New("request body too large")
	ErrInvalidDate     = errors.New("invalid date")
	ErrParamOutOfRange = errors.New("parameter out of range")
)

// paramError reports a query or form parameter that failed validation.
type paramError struct {
	detail string
}

func (e *paramError) Error() string { return e.detail }
func (e *paramError) Unwrap() error { return ErrParamOutOfRange }

// statusFor maps an error to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	var pe *paramError
	var se *service.StoreError
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &pe):
		return http.StatusUnprocessableEntity, pe.detail
	case errors.Is(err, ErrInvalidBody):
		return http.StatusUnprocessableEntity, "Invalid request body"
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "Uploaded file is too large"
	case errors.Is(err, ErrInvalidDate):
		return http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD"

	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "User not logged in"
	case errors.Is(err, service.ErrMissingCredentials):
		return http.StatusBadRequest, "Email and password are required."
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials."
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, "Email already registered."
	case errors.Is(err, service.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes."

	case errors.Is(err, extract.ErrInvalidFilename):
		return http.StatusBadRequest, "Invalid filename. Please upload a valid PDF, DOCX, or TXT file."
	case errors.Is(err, extract.ErrUnsupportedType):
		return http.StatusBadRequest, "Unsupported file type. Please upload PDF, DOCX, or TXT files only."
	case errors.Is(err, extract.ErrUnreadable):
		return http.StatusBadRequest, "Error processing file: " + err.Error()
	case errors.Is(err, service.ErrTextTooShort):
		return http.StatusBadRequest, "Resume appears empty or unreadable. Please upload a valid resume with sufficient content."
	case errors.Is(err, service.ErrParseFailed):
		return http.StatusInternalServerError, "Failed to parse resume. Please ensure the file is a valid resume."

	case errors.Is(err, service.ErrEmptyJobDescription):
		return http.StatusBadRequest, "Job description cannot be empty"
	case errors.Is(err, service.ErrInvalidLimit):
		return http.StatusBadRequest, "Limit must be between 1 and 100"
	case errors.Is(err, service.ErrNoResumes):
		return http.StatusNotFound, "No resumes found for this user"
	case errors.Is(err, service.ErrInvalidResumeID):
		return http.StatusBadRequest, "Invalid resume ID format"
	case errors.Is(err, service.ErrResumeNotFound):
		return http.StatusNotFound, "Resume not found or access denied"

	case errors.Is(err, service.ErrNoCertificate):
		return http.StatusBadRequest, "No certificate file uploaded"
	case errors.Is(err, service.ErrCertificateType):
		return http.StatusBadRequest, "Only PDF, PNG, or JPG files are allowed for certificates"
	case errors.Is(err, service.ErrProjectTitle):
		return http.StatusBadRequest, "Project title is required"
	case errors.Is(err, service.ErrProjectNotFound):
		return http.StatusNotFound, "Project not found in your resumes."
	case errors.Is(err, service.ErrCertificateNotSaved):
		return http.StatusBadRequest, "Certificate upload failed. Please try again."
	case errors.Is(err, service.ErrCertificateStorage):
		return http.StatusInternalServerError, "Failed to store certificate file"

	case errors.As(err, &se):
		return http.StatusInternalServerError, "Database error: " + se.Err.Error()
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}
