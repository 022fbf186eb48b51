package extract

import "errors"

var (
	// ErrInvalidFilename is returned when neither the content type nor a usable file name identifies the document.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrUnsupportedType is returned for documents that are not PDF, DOCX or plain text.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUnreadable wraps parser failures.
	ErrUnreadable = errors.New("unreadable document")
)
