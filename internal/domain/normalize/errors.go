package normalize

import "errors"

var (
	ErrNotObject = errors.New("payload is not a JSON object")
	ErrNotList   = errors.New("value is not a list")
)
