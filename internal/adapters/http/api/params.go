package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/resumerank/internal/domain/analytics"
	"github.com/okian/resumerank/internal/domain/scoring"
)

const dateLayout = "2006-01-02"

// intParam reads key from q, falling back to def, and checks [min, max].
// max <= 0 leaves the upper end open.
func intParam(q url.Values, key string, def, minVal, maxVal int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{detail: fmt.Sprintf("%s must be an integer", key)}
	}
	if n < minVal || (maxVal > 0 && n > maxVal) {
		if maxVal > 0 {
			return 0, &paramError{detail: fmt.Sprintf("%s must be between %d and %d", key, minVal, maxVal)}
		}
		return 0, &paramError{detail: fmt.Sprintf("%s must be at least %d", key, minVal)}
	}
	return n, nil
}

// listParam collects the repeated values of key, dropping blanks.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// firstSet returns the first of keys present in q.
func firstSet(q url.Values, keys ...string) string {
	for _, k := range keys {
		if q.Has(k) {
			return k
		}
	}
	return keys[0]
}

// filterParams builds the common analytics filter.
func filterParams(q url.Values) (analytics.Filter, error) {
	f := analytics.Filter{
		Skills:    listParam(q, "skills_filter"),
		Locations: listParam(q, "locations_filter"),
		Degrees:   listParam(q, "education_filter"),
	}
	for _, raw := range listParam(q, "experience_levels") {
		l, ok := scoring.ParseLevel(raw)
		if !ok {
			return analytics.Filter{}, &paramError{detail: "experience_levels must be entry, mid or senior"}
		}
		f.Levels = append(f.Levels, l)
	}

	minKey := firstSet(q, "score_min", "score_range_min")
	maxKey := firstSet(q, "score_max", "score_range_max")
	lo, err := intParam(q, minKey, 0, 0, scoring.MaxScore)
	if err != nil {
		return analytics.Filter{}, err
	}
	hi, err := intParam(q, maxKey, scoring.MaxScore, 0, scoring.MaxScore)
	if err != nil {
		return analytics.Filter{}, err
	}
	if lo > hi {
		return analytics.Filter{}, &paramError{detail: "score minimum must not exceed score maximum"}
	}
	if lo > 0 || hi < scoring.MaxScore {
		f.Score = &analytics.ScoreRange{Min: lo, Max: hi}
	}
	return f, nil
}

// dateRange parses date_from and date_to. date_to names a whole day, so
// the returned upper bound is the following midnight.
func dateRange(q url.Values) (from, to time.Time, err error) {
	if raw := strings.TrimSpace(q.Get("date_from")); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_from: %w", ErrInvalidDate, err)
		}
	}
	if raw := strings.TrimSpace(q.Get("date_to")); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date_to: %w", ErrInvalidDate, err)
		}
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}
