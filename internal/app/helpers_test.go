package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/adapters/session"
	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const resumeText = `Asha Rao
Backend engineer with six years building Go services, SQL data pipelines and
search infrastructure. Profile: linkedin.com/in/asha
Experience: Acme Corp, Engineer, 2019-2024.`

const extraction = `{
  "personal_information": {"full_name": "Asha Rao", "email": "asha@example.com", "phone": "+91 98765-43210", "linkedin": "", "date_of_birth": "1995-08-15"},
  "professional_summary": {"summary": "Backend engineer", "skills": ["Go", "SQL", "Redis"]},
  "education": [{"degree": "B.E."}],
  "experience": [{"company": "Acme", "role": "Engineer"}],
  "projects": [{"project_title": "Indexer"}, {"project_title": "Crawler"}]
}`

// fakeModel answers by operation, told apart by sampling temperature.
type fakeModel struct {
	mu        sync.Mutex
	extract   string
	rank      func(prompt string) (string, error)
	questions string
	err       error
	calls     int
}

func (f *fakeModel) Generate(_ context.Context, prompt string, temperature float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	switch {
	case temperature < 0.05:
		return f.extract, nil
	case temperature < 0.2:
		if f.rank == nil {
			return `{"overall_score": 50, "criteria_scores": {}, "analysis": "ok"}`, nil
		}
		return f.rank(prompt)
	}
	return f.questions, nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc      *service.Service
	store    *repository.MemoryStore
	model    *fakeModel
	clock    *clock
	blobDir  string
	sessions *session.MemoryStore
}

func newFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()
	c := &clock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	f := &fixture{
		store:   repository.NewMemoryStore(repository.WithClock(c.now)),
		model:   &fakeModel{extract: extraction, questions: `{"questions": ["Q1", "Q2"]}`},
		clock:   c,
		blobDir: t.TempDir(),
	}
	f.sessions = session.NewMemory(session.WithClock(c.now))
	base := []service.Option{
		service.WithStore(f.store),
		service.WithSessions(f.sessions),
		service.WithLLM(llm.NewClient(f.model)),
		service.WithBlobStore(blob.NewDisk(f.blobDir)),
		service.WithClock(c.now),
		service.WithRankWorkers(2),
	}
	f.svc = service.New(append(base, opts...)...)
	return f
}

func (f *fixture) upload(owner string) string {
	r, err := f.svc.Upload(context.Background(), owner, service.File{
		Name:        "asha.txt",
		ContentType: "text/plain",
		Data:        []byte(resumeText),
	})
	if err != nil {
		panic(err)
	}
	return r.ID
}

func contains(haystack, needle string) bool { return strings.Contains(haystack, needle) }
