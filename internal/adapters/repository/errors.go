package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid resume id")
	ErrProjectNotFound = errors.New("project not found")
	ErrNotModified     = errors.New("record not modified")
	ErrDuplicateEmail  = errors.New("email already registered")
)
