package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/scoring"
)

const (
	maxSkillOptions   = 50
	maxCompanyOptions = 30
)

// LabeledValue is a selectable filter choice.
type LabeledValue struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DateRange spans the upload times of a record set. Both ends are nil for
// an empty set.
type DateRange struct {
	Min *time.Time `json:"min_date"`
	Max *time.Time `json:"max_date"`
}

// Options is the vocabulary offered by the advanced filter form.
type Options struct {
	Skills           []string       `json:"skills"`
	Locations        []string       `json:"locations"`
	EducationDegrees []string       `json:"education_degrees"`
	Companies        []string       `json:"companies"`
	DateRange        DateRange      `json:"date_range"`
	ExperienceLevels []LabeledValue `json:"experience_levels"`
	ScoreRanges      []LabeledValue `json:"score_ranges"`
}

var levelLabels = map[scoring.Level]string{
	scoring.Entry:  "Entry Level (0-2 years)",
	scoring.Mid:    "Mid Level (3-5 years)",
	scoring.Senior: "Senior Level (6+ years)",
}

var scoreRanges = []LabeledValue{
	{Label: "Excellent (80-100)", Value: "80-100"},
	{Label: "Good (60-79)", Value: "60-79"},
	{Label: "Average (40-59)", Value: "40-59"},
	{Label: "Below Average (0-39)", Value: "0-39"},
}

// FilterOptions collects the distinct, sorted values present in rs.
func FilterOptions(rs []model.Resume) Options {
	skills := set{}
	locations := set{}
	degrees := set{}
	companies := set{}
	var dr DateRange
	for _, r := range rs {
		for _, s := range r.ProfessionalSummary.Skills {
			skills.add(s)
		}
		locations.add(r.PersonalInformation.Location)
		for _, e := range r.Education {
			degrees.add(e.Degree)
		}
		for _, e := range r.Experience {
			companies.add(e.Company)
		}
		if r.UploadedAt.IsZero() {
			continue
		}
		t := r.UploadedAt
		if dr.Min == nil || t.Before(*dr.Min) {
			dr.Min = &t
		}
		if dr.Max == nil || t.After(*dr.Max) {
			dr.Max = &t
		}
	}

	levels := make([]LabeledValue, 0, len(levelLabels))
	for _, l := range scoring.Levels() {
		levels = append(levels, LabeledValue{Label: levelLabels[l], Value: string(l)})
	}
	ranges := make([]LabeledValue, len(scoreRanges))
	copy(ranges, scoreRanges)

	return Options{
		Skills:           skills.sorted(maxSkillOptions),
		Locations:        locations.sorted(0),
		EducationDegrees: degrees.sorted(0),
		Companies:        companies.sorted(maxCompanyOptions),
		DateRange:        dr,
		ExperienceLevels: levels,
		ScoreRanges:      ranges,
	}
}

type set map[string]struct{}

func (s set) add(v string) {
	if v = strings.TrimSpace(v); v != "" {
		s[v] = struct{}{}
	}
}

// sorted returns the members in order, truncated to limit when limit > 0.
func (s set) sorted(limit int) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
