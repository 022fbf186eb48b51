package service

import (
	"context"
	"time"

	"github.com/okian/resumerank/internal/adapters/live"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/domain/analytics"
	"github.com/okian/resumerank/internal/domain/scoring"
	"github.com/okian/resumerank/pkg/logger"
)

const (
	recentUploadsShown = 10
	scoreTrendDays     = 7
)

// AppliedFilters echoes the filters a report was computed with.
type AppliedFilters struct {
	Skills           []string    `json:"skills"`
	Locations        []string    `json:"locations"`
	Education        []string    `json:"education"`
	ExperienceLevels []string    `json:"experience_levels"`
	ScoreRange       [2]int      `json:"score_range"`
	DateRange        []time.Time `json:"date_range,omitempty"`
}

func describe(f analytics.Filter) AppliedFilters {
	out := AppliedFilters{
		Skills:           nonNil(f.Skills),
		Locations:        nonNil(f.Locations),
		Education:        nonNil(f.Degrees),
		ExperienceLevels: make([]string, len(f.Levels)),
		ScoreRange:       [2]int{0, scoring.MaxScore},
	}
	for i, l := range f.Levels {
		out.ExperienceLevels[i] = string(l)
	}
	if f.Score != nil {
		out.ScoreRange = [2]int{f.Score.Min, f.Score.Max}
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		out.DateRange = []time.Time{f.From, f.To}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RecruitmentMetrics summarizes upload activity.
type RecruitmentMetrics struct {
	TotalResumes               int                     `json:"total_resumes"`
	FilteredResumes            int                     `json:"filtered_resumes"`
	ResumesThisPeriod          int                     `json:"resumes_this_period"`
	DailyUploads               []analytics.DailyUpload `json:"daily_uploads"`
	AverageSkillsPerResume     float64                 `json:"average_skills_per_resume"`
	AverageExperiencePerResume float64                 `json:"average_experience_per_resume"`
	FiltersApplied             AppliedFilters          `json:"filters_applied"`
}

// RecruitmentMetrics reports owner's uploads of the last daysBack days that
// pass f.
func (s *Service) RecruitmentMetrics(ctx context.Context, owner string, daysBack int, f analytics.Filter) (RecruitmentMetrics, error) {
	now := s.now().UTC()
	f.Owner = owner
	f.From = now.AddDate(0, 0, -daysBack)
	f.To = time.Time{}

	total, err := s.store.CountResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return RecruitmentMetrics{}, storeErr(err)
	}
	rs, err := s.store.FindResumes(ctx, f)
	if err != nil {
		return RecruitmentMetrics{}, storeErr(err)
	}

	skills, exp := analytics.Averages(rs)
	applied := describe(f)
	applied.DateRange = []time.Time{f.From, now}
	return RecruitmentMetrics{
		TotalResumes:               total,
		FilteredResumes:            len(rs),
		ResumesThisPeriod:          len(rs),
		DailyUploads:               analytics.DailyUploads(rs),
		AverageSkillsPerResume:     skills,
		AverageExperiencePerResume: exp,
		FiltersApplied:             applied,
	}, nil
}

// SkillsAnalysis is the skill frequency report.
type SkillsAnalysis struct {
	TopSkills           []analytics.SkillStat `json:"top_skills"`
	TotalUniqueSkills   int                   `json:"total_unique_skills"`
	CategoryFilter      string                `json:"category_filter"`
	AvailableCategories []string              `json:"available_categories"`
}

// SkillsAnalysis reports owner's most frequent skills.
func (s *Service) SkillsAnalysis(ctx context.Context, owner string, q analytics.SkillQuery) (SkillsAnalysis, error) {
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return SkillsAnalysis{}, storeErr(err)
	}
	q.Now = s.now().UTC()
	top, unique := analytics.TopSkills(rs, q)
	return SkillsAnalysis{
		TopSkills:           top,
		TotalUniqueSkills:   unique,
		CategoryFilter:      q.Category,
		AvailableCategories: analytics.CategoryNames(),
	}, nil
}

// RankingPerformance is the suitability score report.
type RankingPerformance struct {
	analytics.ScoreSummary
	PerformanceTrends []analytics.DayScore `json:"performance_trends"`
}

// RankingPerformance reports the score distribution of owner's records
// uploaded in [from, to). Zero bounds are open.
func (s *Service) RankingPerformance(ctx context.Context, owner string, from, to time.Time) (RankingPerformance, error) {
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner, From: from, To: to})
	if err != nil {
		return RankingPerformance{}, storeErr(err)
	}
	return RankingPerformance{
		ScoreSummary:      analytics.Scores(rs),
		PerformanceTrends: analytics.ScoreTrend(rs, s.now(), scoreTrendDays),
	}, nil
}

// ActivitySummary counts recent activity.
type ActivitySummary struct {
	UploadsLast24h  int `json:"uploads_last_24h"`
	TotalResumes    int `json:"total_resumes"`
	ActiveSessions  int `json:"active_sessions"`
	ProcessingQueue int `json:"processing_queue"`
}

// Dashboard is the real-time dashboard payload.
type Dashboard struct {
	Timestamp       time.Time                `json:"timestamp"`
	RefreshInterval int                      `json:"refresh_interval"`
	ActivitySummary ActivitySummary          `json:"activity_summary"`
	SystemHealth    Health                   `json:"system_health"`
	RecentUploads   []analytics.RecentUpload `json:"recent_uploads"`
	HourlyActivity  []analytics.HourlyCount  `json:"hourly_activity"`
}

// RealTimeDashboard reports owner's last 24 hours together with service
// health.
func (s *Service) RealTimeDashboard(ctx context.Context, owner string, refreshInterval int) (Dashboard, error) {
	now := s.now().UTC()
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return Dashboard{}, storeErr(err)
	}
	active, err := s.sessions.Active(ctx)
	if err != nil {
		s.logger.Warn(ctx, "counting sessions failed", logger.Error(err))
	}
	return Dashboard{
		Timestamp:       now,
		RefreshInterval: refreshInterval,
		ActivitySummary: ActivitySummary{
			UploadsLast24h: analytics.CountSince(rs, now.Add(-24*time.Hour)),
			TotalResumes:   len(rs),
			ActiveSessions: active,
		},
		SystemHealth:   s.Health(ctx),
		RecentUploads:  analytics.RecentUploads(rs, now, recentUploadsShown),
		HourlyActivity: analytics.HourlyActivity(rs, now),
	}, nil
}

// AdvancedFilters returns the filter vocabulary of owner's records.
func (s *Service) AdvancedFilters(ctx context.Context, owner string) (analytics.Options, error) {
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return analytics.Options{}, storeErr(err)
	}
	return analytics.FilterOptions(rs), nil
}

// FilteredResumes is a score-ordered search result.
type FilteredResumes struct {
	Resumes        []repository.ScoredResume `json:"filtered_resumes"`
	TotalMatches   int                       `json:"total_matches"`
	AppliedFilters AppliedFilters            `json:"applied_filters"`
}

// FilteredResumes returns up to limit of owner's records passing f, highest
// suitability first.
func (s *Service) FilteredResumes(ctx context.Context, owner string, f analytics.Filter, limit int) (FilteredResumes, error) {
	f.Owner = owner
	rs, total, err := s.store.ScoredResumes(ctx, f, limit)
	if err != nil {
		return FilteredResumes{}, storeErr(err)
	}
	if rs == nil {
		rs = []repository.ScoredResume{}
	}
	return FilteredResumes{Resumes: rs, TotalMatches: total, AppliedFilters: describe(f)}, nil
}

// Snapshot is the service-wide live summary pushed to websocket clients.
func (s *Service) Snapshot(ctx context.Context) (live.Snapshot, error) {
	now := s.now().UTC()
	since := now.Add(-24 * time.Hour)

	recent, err := s.store.CountResumes(ctx, repository.Query{From: since})
	if err != nil {
		return live.Snapshot{}, storeErr(err)
	}
	total, err := s.store.CountResumes(ctx, repository.Query{})
	if err != nil {
		return live.Snapshot{}, storeErr(err)
	}
	users, err := s.store.DistinctUploaders(ctx, since)
	if err != nil {
		return live.Snapshot{}, storeErr(err)
	}
	return live.Snapshot{
		RecentUploads: recent,
		TotalResumes:  total,
		ActiveUsers:   users,
		LastUpdate:    now,
	}, nil
}
