// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/resumerank/internal/adapters/live"
	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/pkg/logger"
)

// Dependencies required by HTTP handlers. *service.Service satisfies it;
// the per-handler interfaces keep each handler's surface narrow.
type Dependencies interface {
	AuthDependencies
	ResumeDependencies
	AnalyticsDependencies
	HealthDependencies
	Registry() *live.Registry
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the business API.
type Server struct {
	deps   Dependencies
	cookie cookieConfig

	maxUploadBytes int64
	logger         logger.Logger

	healthHandler    *HealthHandler
	authHandler      *AuthHandler
	resumeHandler    *ResumeHandler
	analyticsHandler *AnalyticsHandler
	liveHandler      *LiveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps: deps,
		cookie: cookieConfig{
			name: "session",
			ttl:  24 * time.Hour,
		},
		maxUploadBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler(deps)
	s.authHandler = NewAuthHandler(deps, s.cookie)
	s.resumeHandler = NewResumeHandler(deps, s.maxUploadBytes, s.logger)
	s.analyticsHandler = NewAnalyticsHandler(deps)
	s.liveHandler = NewLiveHandler(deps.Registry(), s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	auth := func(next http.HandlerFunc) http.HandlerFunc {
		return RequireSession(s.deps, s.cookie.name, next)
	}
	route := func(path, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(path, RequestID(MetricsMiddleware(h, endpoint)))
	}

	route("/healthz", "healthz", s.healthHandler.HandleHealth)
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())

	route("/api/register", "register", s.authHandler.HandleRegister)
	route("/api/login", "login", s.authHandler.HandleLogin)
	route("/api/logout", "logout", s.authHandler.HandleLogout)
	route("/api/me", "me", s.authHandler.HandleMe)

	route("/api/parse-resume/", "parse_resume", auth(s.resumeHandler.HandleParseResume))
	route("/api/my-resumes/", "my_resumes", auth(s.resumeHandler.HandleMyResumes))
	route("/api/rank-resumes/", "rank_resumes", auth(s.resumeHandler.HandleRankResumes))
	route("/api/generate-questions/", "generate_questions", auth(s.resumeHandler.HandleGenerateQuestions))
	route("/api/project/upload-certificate", "upload_certificate", auth(s.resumeHandler.HandleUploadCertificate))

	route("/api/analytics/recruitment-metrics", "recruitment_metrics", auth(s.analyticsHandler.HandleRecruitmentMetrics))
	route("/api/analytics/skills-analysis", "skills_analysis", auth(s.analyticsHandler.HandleSkillsAnalysis))
	route("/api/analytics/ranking-performance", "ranking_performance", auth(s.analyticsHandler.HandleRankingPerformance))
	route("/api/analytics/real-time-dashboard", "real_time_dashboard", auth(s.analyticsHandler.HandleRealTimeDashboard))
	route("/api/analytics/advanced-filters", "advanced_filters", auth(s.analyticsHandler.HandleAdvancedFilters))
	route("/api/analytics/filtered-resumes", "filtered_resumes", auth(s.analyticsHandler.HandleFilteredResumes))

	// The metrics wrapper would hide http.Hijacker from the upgrader.
	mux.HandleFunc("/api/ws/analytics", RequestID(auth(s.liveHandler.HandleAnalyticsSocket)))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps err to its status and message.
func writeError(w http.ResponseWriter, err error) {
	status, detail := statusFor(err)
	writeDetail(w, status, detail)
}
