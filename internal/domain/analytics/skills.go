package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
)

// TrendWindow is the length of each of the two periods a skill trend compares.
const TrendWindow = 30 * 24 * time.Hour

// Category groups skills by keyword. A skill belongs to a category when its
// case-folded name contains one of the keywords.
type Category struct {
	Name     string
	Keywords []string
}

var categories = []Category{
	{Name: "programming", Keywords: []string{"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust"}},
	{Name: "web", Keywords: []string{"html", "css", "react", "angular", "vue", "nodejs", "express", "django", "flask"}},
	{Name: "database", Keywords: []string{"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite"}},
	{Name: "cloud", Keywords: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform"}},
	{Name: "ml_ai", Keywords: []string{"machine learning", "deep learning", "tensorflow", "pytorch", "scikit-learn", "nlp"}},
	{Name: "mobile", Keywords: []string{"android", "ios", "react native", "flutter", "xamarin"}},
	{Name: "tools", Keywords: []string{"git", "jenkins", "jira", "confluence", "slack", "figma"}},
}

// CategoryNames lists the known categories in display order.
func CategoryNames() []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = c.Name
	}
	return out
}

// LookupCategory finds a category by name.
func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Contains reports whether a case-folded skill belongs to c.
func (c Category) Contains(skill string) bool {
	for _, k := range c.Keywords {
		if strings.Contains(skill, k) {
			return true
		}
	}
	return false
}

// SkillStat is one row of the skill frequency report.
type SkillStat struct {
	Skill      string   `json:"skill"`
	Count      int      `json:"count"`
	Candidates []string `json:"candidates"`
	// Trend is the percentage change between the last TrendWindow and the one
	// before it.
	Trend float64 `json:"trend"`
}

// SkillQuery parameterizes TopSkills.
type SkillQuery struct {
	TopN         int
	MinFrequency int
	// Category restricts the report; unknown names do not filter.
	Category string
	Now      time.Time
}

// TopSkills counts case-folded skills across rs, one count per record, and
// returns the TopN most frequent ones with their trend. The second result is
// the number of distinct skills that passed the frequency and category
// filters before the TopN cut.
func TopSkills(rs []model.Resume, q SkillQuery) ([]SkillStat, int) {
	type acc struct {
		count, current, previous int
		candidates               map[string]struct{}
	}
	currentFrom := q.Now.Add(-TrendWindow)
	previousFrom := q.Now.Add(-2 * TrendWindow)

	skills := map[string]*acc{}
	for _, r := range rs {
		seen := map[string]struct{}{}
		for _, raw := range r.ProfessionalSummary.Skills {
			skill := strings.ToLower(strings.TrimSpace(raw))
			if skill == "" {
				continue
			}
			if _, dup := seen[skill]; dup {
				continue
			}
			seen[skill] = struct{}{}

			a, ok := skills[skill]
			if !ok {
				a = &acc{candidates: map[string]struct{}{}}
				skills[skill] = a
			}
			a.count++
			a.candidates[r.CandidateName()] = struct{}{}
			switch {
			case !r.UploadedAt.Before(currentFrom):
				a.current++
			case !r.UploadedAt.Before(previousFrom):
				a.previous++
			}
		}
	}

	category, filterCategory := LookupCategory(q.Category)
	minFreq := max(q.MinFrequency, 1)

	out := make([]SkillStat, 0, len(skills))
	for skill, a := range skills {
		if a.count < minFreq {
			continue
		}
		if filterCategory && !category.Contains(skill) {
			continue
		}
		names := make([]string, 0, len(a.candidates))
		for n := range a.candidates {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, SkillStat{
			Skill:      skill,
			Count:      a.count,
			Candidates: names,
			Trend:      Trend(a.current, a.previous),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})

	unique := len(out)
	if q.TopN > 0 && len(out) > q.TopN {
		out = out[:q.TopN]
	}
	return out, unique
}

// Trend is (current-previous)/previous*100 rounded to one decimal, 100 when
// only the current period has occurrences, and 0 when neither has.
func Trend(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round(float64(current-previous)/float64(previous)*100, 1)
}
