package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
)

const dayLayout = "2006-01-02"

// DailyUpload summarizes one UTC calendar day of uploads.
type DailyUpload struct {
	Date          string   `json:"date"`
	Count         int      `json:"count"`
	AvgSkills     float64  `json:"avg_skills"`
	AvgExperience float64  `json:"avg_experience"`
	Candidates    []string `json:"candidates"`
}

// DailyUploads groups records by UTC upload day, oldest day first.
func DailyUploads(rs []model.Resume) []DailyUpload {
	type acc struct {
		count, skills, experience int
		candidates                []string
	}
	days := map[string]*acc{}
	for _, r := range rs {
		key := Day(r.UploadedAt)
		a, ok := days[key]
		if !ok {
			a = &acc{}
			days[key] = a
		}
		a.count++
		a.skills += r.SkillCount()
		a.experience += r.ExperienceCount()
		a.candidates = append(a.candidates, r.CandidateName())
	}

	out := make([]DailyUpload, 0, len(days))
	for key, a := range days {
		out = append(out, DailyUpload{
			Date:          key,
			Count:         a.count,
			AvgSkills:     round(float64(a.skills)/float64(a.count), 2),
			AvgExperience: round(float64(a.experience)/float64(a.count), 2),
			Candidates:    a.candidates,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Averages returns the mean skill and experience-entry counts over every
// record in rs, not the mean of the daily means, rounded to 2 decimals.
func Averages(rs []model.Resume) (skills, experience float64) {
	if len(rs) == 0 {
		return 0, 0
	}
	var s, e int
	for _, r := range rs {
		s += r.SkillCount()
		e += r.ExperienceCount()
	}
	n := float64(len(rs))
	return round(float64(s)/n, 2), round(float64(e)/n, 2)
}

// CountSince counts records uploaded at or after t.
func CountSince(rs []model.Resume, t time.Time) int {
	n := 0
	for _, r := range rs {
		if !r.UploadedAt.Before(t) {
			n++
		}
	}
	return n
}

// Day renders t as its UTC calendar date.
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
