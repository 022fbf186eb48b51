// Package analytics aggregates resume records into the reports behind the
// dashboard: daily uploads, skill frequencies and trends, score histograms
// and filter vocabularies. Every function is pure; callers pass the clock.
package analytics

import (
	"strings"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/scoring"
)

// ScoreRange bounds the suitability score, both ends inclusive.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Filter narrows a set of records. Zero-valued fields do not filter; the
// others are AND-combined, and the values inside one list field are OR-ed.
type Filter struct {
	Owner string
	// From is inclusive, To is exclusive.
	From time.Time
	To   time.Time
	// Skills match case-insensitively and exactly.
	Skills []string
	// Locations and Degrees match case-insensitive substrings.
	Locations []string
	Degrees   []string
	Levels    []scoring.Level
	Score     *ScoreRange
}

// Matches reports whether r passes every set criterion.
func (f Filter) Matches(r model.Resume) bool {
	if f.Owner != "" && r.UploadedBy != f.Owner {
		return false
	}
	if !f.From.IsZero() && r.UploadedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !r.UploadedAt.Before(f.To) {
		return false
	}
	if len(f.Skills) > 0 && !anyEqualFold(r.ProfessionalSummary.Skills, f.Skills) {
		return false
	}
	if len(f.Locations) > 0 && !anyContainsFold([]string{r.PersonalInformation.Location}, f.Locations) {
		return false
	}
	if len(f.Degrees) > 0 {
		degrees := make([]string, len(r.Education))
		for i, e := range r.Education {
			degrees[i] = e.Degree
		}
		if !anyContainsFold(degrees, f.Degrees) {
			return false
		}
	}
	if len(f.Levels) > 0 && !scoring.InLevels(r.ExperienceCount(), f.Levels) {
		return false
	}
	if f.Score != nil {
		s := scoring.ForResume(r)
		if s < f.Score.Min || s > f.Score.Max {
			return false
		}
	}
	return true
}

// Apply returns the records matching f, preserving order.
func Apply(rs []model.Resume, f Filter) []model.Resume {
	out := make([]model.Resume, 0, len(rs))
	for _, r := range rs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func anyEqualFold(values, wanted []string) bool {
	for _, v := range values {
		for _, w := range wanted {
			if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}

func anyContainsFold(values, wanted []string) bool {
	for _, v := range values {
		lv := strings.ToLower(v)
		for _, w := range wanted {
			lw := strings.ToLower(strings.TrimSpace(w))
			if lw != "" && strings.Contains(lv, lw) {
				return true
			}
		}
	}
	return false
}
