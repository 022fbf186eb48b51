package llm

import "errors"

// Sentinel errors. Callers decide per operation whether to substitute a
// default or fail the request.
var (
	ErrNotConfigured = errors.New("language model not configured")
	ErrUpstream      = errors.New("language model call failed")
	ErrTimeout       = errors.New("language model call timed out")
	ErrEmptyResponse = errors.New("language model returned no text")
	ErrMalformed     = errors.New("language model output is not a JSON object")
	ErrNoResume      = errors.New("language model could not structure the resume")
	ErrNoQuestions   = errors.New("language model returned no usable questions")
)
