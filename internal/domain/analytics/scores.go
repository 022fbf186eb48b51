package analytics

import (
	"time"

	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/scoring"
)

// ScoreBin is one histogram bucket of suitability scores.
type ScoreBin struct {
	Range string `json:"score_range"`
	Count int    `json:"count"`
}

// Breakdown counts records per score band.
type Breakdown struct {
	Excellent    int `json:"excellent"`
	Good         int `json:"good"`
	Average      int `json:"average"`
	BelowAverage int `json:"below_average"`
}

// ScoreSummary is the ranking-performance report minus the daily trend.
type ScoreSummary struct {
	Distribution   []ScoreBin `json:"score_distribution"`
	HighPerformers int        `json:"high_performers"`
	AverageScore   float64    `json:"average_score"`
	TotalRanked    int        `json:"total_ranked"`
	Breakdown      Breakdown  `json:"score_breakdown"`
}

// Scores builds the suitability histogram over rs. Every bin is present,
// including empty ones.
func Scores(rs []model.Resume) ScoreSummary {
	buckets := scoring.Buckets()
	counts := make(map[int]int, len(buckets))
	var sum ScoreSummary
	total := 0
	for _, r := range rs {
		s := scoring.ForResume(r)
		total += s
		counts[scoring.Bucket(s)]++
		switch scoring.BandOf(s) {
		case scoring.Excellent:
			sum.Breakdown.Excellent++
			sum.HighPerformers++
		case scoring.Good:
			sum.Breakdown.Good++
		case scoring.Average:
			sum.Breakdown.Average++
		default:
			sum.Breakdown.BelowAverage++
		}
	}

	sum.Distribution = make([]ScoreBin, len(buckets))
	for i, b := range buckets {
		sum.Distribution[i] = ScoreBin{Range: scoring.BucketLabel(b), Count: counts[b]}
	}
	sum.TotalRanked = len(rs)
	if len(rs) > 0 {
		sum.AverageScore = round(float64(total)/float64(len(rs)), 1)
	}
	return sum
}

// DayScore is the mean suitability of one day's uploads.
type DayScore struct {
	Date         string  `json:"date"`
	AverageScore float64 `json:"average_score"`
	ResumeCount  int     `json:"resume_count"`
}

// ScoreTrend returns one entry per UTC day for the last days days, today
// included, oldest first.
func ScoreTrend(rs []model.Resume, now time.Time, days int) []DayScore {
	today := now.UTC().Truncate(24 * time.Hour)
	out := make([]DayScore, days)
	index := make(map[string]int, days)
	for i := range out {
		d := today.AddDate(0, 0, i-days+1)
		out[i].Date = Day(d)
		index[out[i].Date] = i
	}

	totals := make([]int, days)
	for _, r := range rs {
		i, ok := index[Day(r.UploadedAt)]
		if !ok {
			continue
		}
		totals[i] += scoring.ForResume(r)
		out[i].ResumeCount++
	}
	for i := range out {
		if out[i].ResumeCount > 0 {
			out[i].AverageScore = round(float64(totals[i])/float64(out[i].ResumeCount), 1)
		}
	}
	return out
}
