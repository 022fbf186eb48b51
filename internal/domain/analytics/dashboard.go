package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
)

// StatusCompleted is the processing status of every stored record; uploads
// are processed synchronously.
const StatusCompleted = "completed"

// RecentUpload is one row of the live activity feed.
type RecentUpload struct {
	ID               string    `json:"resume_id,omitempty"`
	CandidateName    string    `json:"candidate_name"`
	UploadedAt       time.Time `json:"uploaded_at"`
	TimeAgo          string    `json:"time_ago"`
	FileType         string    `json:"file_type"`
	SkillsCount      int       `json:"skills_count"`
	ProcessingStatus string    `json:"processing_status"`
}

// RecentUploads returns up to n records uploaded within the 24 hours before
// now, newest first.
func RecentUploads(rs []model.Resume, now time.Time, n int) []RecentUpload {
	since := now.Add(-24 * time.Hour)
	recent := make([]model.Resume, 0, len(rs))
	for _, r := range rs {
		if !r.UploadedAt.Before(since) {
			recent = append(recent, r)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].UploadedAt.After(recent[j].UploadedAt) })
	if n >= 0 && len(recent) > n {
		recent = recent[:n]
	}

	out := make([]RecentUpload, len(recent))
	for i, r := range recent {
		out[i] = RecentUpload{
			ID:               r.ID,
			CandidateName:    r.CandidateName(),
			UploadedAt:       r.UploadedAt,
			TimeAgo:          TimeAgo(now.Sub(r.UploadedAt)),
			FileType:         r.FileType,
			SkillsCount:      r.SkillCount(),
			ProcessingStatus: StatusCompleted,
		}
	}
	return out
}

// TimeAgo renders d as "<h>h <m>m ago". Negative durations render as zero.
func TimeAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm ago", h, m)
}

// HourlyCount is the number of uploads in one clock hour.
type HourlyCount struct {
	Hour    string `json:"hour"`
	Uploads int    `json:"uploads"`
}

// HourlyActivity buckets the last 24 hours of uploads by UTC clock hour. The
// current hour is last.
func HourlyActivity(rs []model.Resume, now time.Time) []HourlyCount {
	current := now.UTC().Truncate(time.Hour)
	start := current.Add(-23 * time.Hour)
	out := make([]HourlyCount, 24)
	for i := range out {
		out[i].Hour = start.Add(time.Duration(i) * time.Hour).Format("2006-01-02 15:00")
	}
	for _, r := range rs {
		t := r.UploadedAt.UTC()
		if t.Before(start) || !t.Before(current.Add(time.Hour)) {
			continue
		}
		out[int(t.Sub(start)/time.Hour)].Uploads++
	}
	return out
}

// DistinctUploaders counts owners with an upload at or after since.
func DistinctUploaders(rs []model.Resume, since time.Time) int {
	seen := map[string]struct{}{}
	for _, r := range rs {
		if r.UploadedBy != "" && !r.UploadedAt.Before(since) {
			seen[r.UploadedBy] = struct{}{}
		}
	}
	return len(seen)
}
