package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/resumerank/internal/domain/analytics"
	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/scoring"
)

// MemoryStore keeps records and accounts in process memory. Records are
// kept in insertion order.
type MemoryStore struct {
	mu      sync.RWMutex
	resumes []model.Resume
	byID    map[string]int
	users   map[string]model.User
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		byID:  make(map[string]int),
		users: make(map[string]model.User),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) InsertResume(ctx context.Context, r model.Resume) (id string, err error) {
	defer observe("insert_resume", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = primitive.NewObjectIDFromTimestamp(s.now()).Hex()
	s.byID[r.ID] = len(s.resumes)
	s.resumes = append(s.resumes, clone(r))
	return r.ID, nil
}

func (s *MemoryStore) FindResume(ctx context.Context, id, owner string) (r model.Resume, err error) {
	defer observe("find_resume", time.Now(), &err)

	if !ValidID(id) {
		return model.Resume{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[strings.ToLower(id)]
	if !ok || s.resumes[i].UploadedBy != owner {
		return model.Resume{}, ErrNotFound
	}
	return clone(s.resumes[i]), nil
}

func (s *MemoryStore) FindResumes(ctx context.Context, q Query) (out []model.Resume, err error) {
	_, done := traced(ctx, "memory", "find_resumes")
	defer done(&err)
	return s.newestFirst(q), nil
}

func (s *MemoryStore) ScoredResumes(ctx context.Context, q Query, limit int) (out []ScoredResume, total int, err error) {
	_, done := traced(ctx, "memory", "scored_resumes")
	defer done(&err)

	matches := s.newestFirst(q)
	out = make([]ScoredResume, len(matches))
	for i, r := range matches {
		out[i] = ScoredResume{Resume: r, CalculatedScore: scoring.ForResume(r)}
	}
	// Stable on newest-first keeps ties in the same order as the aggregation.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CalculatedScore > out[j].CalculatedScore })
	total = len(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *MemoryStore) CountResumes(ctx context.Context, q Query) (n int, err error) {
	_, done := traced(ctx, "memory", "count_resumes")
	defer done(&err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.resumes {
		if q.Matches(r) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) DistinctUploaders(ctx context.Context, since time.Time) (n int, err error) {
	_, done := traced(ctx, "memory", "distinct_uploaders")
	defer done(&err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return analytics.DistinctUploaders(s.resumes, since), nil
}

func (s *MemoryStore) AttachCertificate(ctx context.Context, owner, title string, cert model.Certificate) (id string, err error) {
	defer observe("attach_certificate", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	target := -1
	for i, r := range s.resumes {
		if r.UploadedBy != owner || !r.HasProject(title) {
			continue
		}
		if target < 0 || !r.UploadedAt.Before(s.resumes[target].UploadedAt) {
			target = i
		}
	}
	if target < 0 {
		return "", ErrProjectNotFound
	}

	r := &s.resumes[target]
	for i := range r.Projects {
		if r.Projects[i].ProjectTitle != title {
			continue
		}
		if r.Projects[i].Certificate == cert {
			return "", ErrNotModified
		}
		r.Projects[i].Certificate = cert
		break
	}
	return r.ID, nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, u model.User) (err error) {
	defer observe("create_user", time.Now(), &err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.users[u.Email]; taken {
		return ErrDuplicateEmail
	}
	s.users[u.Email] = u
	return nil
}

func (s *MemoryStore) FindUser(ctx context.Context, email string) (u model.User, err error) {
	defer observe("find_user", time.Now(), &err)

	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[email]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) newestFirst(q Query) []model.Resume {
	s.mu.RLock()
	out := make([]model.Resume, 0, len(s.resumes))
	for _, r := range s.resumes {
		if q.Matches(r) {
			out = append(out, clone(r))
		}
	}
	s.mu.RUnlock()

	// Later inserts win ties, as with object ID order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out
}

// clone copies the project list so callers cannot mutate stored
// certificates.
func clone(r model.Resume) model.Resume {
	projects := make([]model.Project, len(r.Projects))
	copy(projects, r.Projects)
	r.Projects = projects
	return r
}
