// Package scoring computes the heuristic suitability score of a resume and the
// fixed lookups derived from it: histogram buckets, quality bands and
// experience levels.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/resumerank/internal/domain/model"
)

// Formula weights. The store's inline score aggregation uses the same values.
const (
	MaxScore         = 100
	SkillWeight      = 2
	ExperienceWeight = 10
	EducationWeight  = 5
	BucketWidth      = 20
)

// Suitability returns min(100, skills*2 + experience*10 + education*5).
// Negative counts are treated as zero.
func Suitability(skills, experience, education int) int {
	score := SkillWeight*max(skills, 0) + ExperienceWeight*max(experience, 0) + EducationWeight*max(education, 0)
	return min(score, MaxScore)
}

// ForResume scores a record from its list lengths.
func ForResume(r model.Resume) int {
	return Suitability(r.SkillCount(), r.ExperienceCount(), r.EducationCount())
}

// Bucket maps a score to the lower edge of its 20-point histogram bin. The top
// bin is closed, so 100 falls into 80.
func Bucket(score int) int {
	switch {
	case score <= 0:
		return 0
	case score >= MaxScore:
		return MaxScore - BucketWidth
	}
	return score / BucketWidth * BucketWidth
}

// Buckets lists every bin's lower edge in ascending order.
func Buckets() []int {
	out := make([]int, 0, MaxScore/BucketWidth)
	for b := 0; b < MaxScore; b += BucketWidth {
		out = append(out, b)
	}
	return out
}

// BucketLabel renders a bin as "0-19" ... "80-100".
func BucketLabel(bucket int) string {
	upper := bucket + BucketWidth - 1
	if bucket+BucketWidth >= MaxScore {
		upper = MaxScore
	}
	return fmt.Sprintf("%d-%d", bucket, upper)
}

// Band is a coarse quality label for a score.
type Band string

const (
	Excellent    Band = "excellent"
	Good         Band = "good"
	Average      Band = "average"
	BelowAverage Band = "below_average"
)

// BandOf returns excellent (>=80), good (60-79), average (40-59) or
// below_average (<40).
func BandOf(score int) Band {
	switch {
	case score >= 80:
		return Excellent
	case score >= 60:
		return Good
	case score >= 40:
		return Average
	}
	return BelowAverage
}

// Level is an experience-level bucket.
type Level string

const (
	Entry  Level = "entry"
	Mid    Level = "mid"
	Senior Level = "senior"
)

// levelCounts is the fixed lookup of experience-entry counts per level.
// Counts above 10 belong to no level.
var levelCounts = map[Level][]int{
	Entry:  {0, 1, 2},
	Mid:    {3, 4, 5},
	Senior: {6, 7, 8, 9, 10},
}

// Levels lists the levels in ascending order.
func Levels() []Level { return []Level{Entry, Mid, Senior} }

// ParseLevel accepts a level name case-insensitively.
func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	_, ok := levelCounts[l]
	return l, ok
}

// Counts returns the experience-entry counts that make up a level.
func (l Level) Counts() []int {
	counts := levelCounts[l]
	out := make([]int, len(counts))
	copy(out, counts)
	return out
}

// LevelOf returns the level for an experience-entry count. The second result
// is false for counts outside every level.
func LevelOf(experienceCount int) (Level, bool) {
	for _, l := range Levels() {
		for _, c := range levelCounts[l] {
			if c == experienceCount {
				return l, true
			}
		}
	}
	return "", false
}

// InLevels reports whether an experience-entry count belongs to any of levels.
func InLevels(experienceCount int, levels []Level) bool {
	got, ok := LevelOf(experienceCount)
	if !ok {
		return false
	}
	for _, l := range levels {
		if l == got {
			return true
		}
	}
	return false
}

// ClampPercent bounds a model-provided score to [0,100]. NaN becomes 0.
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(MaxScore, v))
}
