package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/internal/domain/analytics"
)

// AnalyticsDependencies defines the caller-scoped reports.
type AnalyticsDependencies interface {
	RecruitmentMetrics(ctx context.Context, owner string, daysBack int, f analytics.Filter) (service.RecruitmentMetrics, error)
	SkillsAnalysis(ctx context.Context, owner string, q analytics.SkillQuery) (service.SkillsAnalysis, error)
	RankingPerformance(ctx context.Context, owner string, from, to time.Time) (service.RankingPerformance, error)
	RealTimeDashboard(ctx context.Context, owner string, refreshInterval int) (service.Dashboard, error)
	AdvancedFilters(ctx context.Context, owner string) (analytics.Options, error)
	FilteredResumes(ctx context.Context, owner string, f analytics.Filter, limit int) (service.FilteredResumes, error)
}

// AnalyticsHandler handles GET /api/analytics/* requests.
type AnalyticsHandler struct {
	deps AnalyticsDependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandleRecruitmentMetrics handles GET /api/analytics/recruitment-metrics.
func (h *AnalyticsHandler) HandleRecruitmentMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	days, err := intParam(q, "days_back", 30, 1, 365)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := filterParams(q)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.RecruitmentMetrics(r.Context(), userFrom(r.Context()), days, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSkillsAnalysis handles GET /api/analytics/skills-analysis.
func (h *AnalyticsHandler) HandleSkillsAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	topN, err := intParam(q, "top_n", 20, 5, 100)
	if err != nil {
		writeError(w, err)
		return
	}
	minFreq, err := intParam(q, "min_frequency", 1, 1, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.SkillsAnalysis(r.Context(), userFrom(r.Context()), analytics.SkillQuery{
		TopN:         topN,
		MinFrequency: minFreq,
		Category:     strings.TrimSpace(q.Get("category_filter")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRankingPerformance handles GET /api/analytics/ranking-performance.
func (h *AnalyticsHandler) HandleRankingPerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	from, to, err := dateRange(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.RankingPerformance(r.Context(), userFrom(r.Context()), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleRealTimeDashboard handles GET /api/analytics/real-time-dashboard.
func (h *AnalyticsHandler) HandleRealTimeDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	refresh, err := intParam(r.URL.Query(), "refresh_interval", 30, 10, 300)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.RealTimeDashboard(r.Context(), userFrom(r.Context()), refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleAdvancedFilters handles GET /api/analytics/advanced-filters.
func (h *AnalyticsHandler) HandleAdvancedFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	res, err := h.deps.AdvancedFilters(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleFilteredResumes handles GET /api/analytics/filtered-resumes.
func (h *AnalyticsHandler) HandleFilteredResumes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	limit, err := intParam(q, "limit", 50, 1, 200)
	if err != nil {
		writeError(w, err)
		return
	}
	f, err := filterParams(q)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.FilteredResumes(r.Context(), userFrom(r.Context()), f, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
