// Package extract turns uploaded resume files into plain text and the
// LinkedIn/GitHub profile links found in them.
package extract

import (
	"mime"
	"path/filepath"
	"strings"
)

// FileType is a supported resume format.
type FileType string

const (
	PDF  FileType = "pdf"
	DOCX FileType = "docx"
	TXT  FileType = "txt"
)

// placeholderName is what some clients send when the real name is lost.
const placeholderName = "file"

var docxContentTypes = map[string]struct{}{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/msword": {},
}

// DetectType classifies a document by its declared content type and falls
// back to the file extension.
func DetectType(contentType, filename string) (FileType, error) {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case mediaType == "application/pdf":
			return PDF, nil
		case strings.HasPrefix(mediaType, "text/"):
			return TXT, nil
		}
		if _, ok := docxContentTypes[mediaType]; ok {
			return DOCX, nil
		}
	}

	name := strings.ToLower(strings.TrimSpace(filename))
	if name == "" || name == placeholderName {
		return "", ErrInvalidFilename
	}
	switch filepath.Ext(name) {
	case ".pdf":
		return PDF, nil
	case ".docx", ".doc":
		return DOCX, nil
	case ".txt":
		return TXT, nil
	}
	return "", ErrUnsupportedType
}
