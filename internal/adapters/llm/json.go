package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences removes a surrounding markdown code fence, with or without a
// json language tag.
func StripFences(s string) string {
	clean := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(clean, "```json"):
		clean = strings.TrimPrefix(clean, "```json")
	case strings.HasPrefix(clean, "```"):
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	return strings.TrimSpace(clean)
}

// ParseObject strips fences and decodes a JSON object.
func ParseObject(s string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(StripFences(s)), &v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrMalformed, v)
	}
	return obj, nil
}
