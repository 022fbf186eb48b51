package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/extract"
	"github.com/okian/resumerank/internal/adapters/mq/worker"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/internal/domain/normalize"
	"github.com/okian/resumerank/pkg/logger"
	"github.com/okian/resumerank/pkg/metrics"
)

// MaxRankLimit bounds the number of rankings one request may return.
const MaxRankLimit = 100

// File is an uploaded file held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Upload extracts, structures, normalizes and stores one resume for owner.
// The returned record carries its new ID.
func (s *Service) Upload(ctx context.Context, owner string, f File) (model.Resume, error) {
	ft, err := extract.DetectType(f.ContentType, f.Name)
	if err != nil {
		metrics.RecordParseFailure("detect")
		return model.Resume{}, err
	}
	doc, err := extract.Extract(ft, f.Data)
	if err != nil {
		metrics.RecordParseFailure("extract")
		return model.Resume{}, err
	}
	if utf8.RuneCountInString(doc.Text) < s.minTextLength {
		metrics.RecordParseFailure("too_short")
		return model.Resume{}, ErrTextTooShort
	}

	draft, err := s.llm.ExtractResume(ctx, doc.Text)
	if err != nil {
		metrics.RecordParseFailure("llm")
		return model.Resume{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	r := normalize.Record(draft, doc.Links)
	r.OriginalText = doc.Text
	r.UploadedBy = owner
	r.UploadedAt = s.now().UTC()
	r.FileName = f.Name
	r.FileType = string(ft)

	id, err := s.store.InsertResume(ctx, r)
	if err != nil {
		return model.Resume{}, storeErr(err)
	}
	r.ID = id

	metrics.RecordResumeUploaded(string(ft), len(doc.Text))
	s.logger.Info(ctx, "resume stored",
		logger.String("id", id),
		logger.String("owner", owner),
		logger.String("fileType", string(ft)),
		logger.Int("skills", r.SkillCount()),
	)
	return r, nil
}

// MyResumes returns owner's records, newest first.
func (s *Service) MyResumes(ctx context.Context, owner string) ([]model.Resume, error) {
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return nil, storeErr(err)
	}
	return rs, nil
}

// Ranking is the outcome of one ranking request.
type Ranking struct {
	Message            string                  `json:"message"`
	JobDescription     string                  `json:"job_description"`
	Rankings           []model.RankedCandidate `json:"rankings"`
	TotalResumes       int                     `json:"total_resumes"`
	SuccessfulRankings int                     `json:"successful_rankings"`
}

type rankOutcome struct {
	candidate model.RankedCandidate
	ok        bool
}

// Rank scores every stored resume of owner against jobDescription and
// returns the limit best, highest first. A resume whose model call fails is
// kept with the default zero ranking.
func (s *Service) Rank(ctx context.Context, owner, jobDescription string, limit int) (Ranking, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return Ranking{}, ErrEmptyJobDescription
	}
	if limit < 1 || limit > MaxRankLimit {
		return Ranking{}, ErrInvalidLimit
	}
	rs, err := s.store.FindResumes(ctx, repository.Query{Owner: owner})
	if err != nil {
		return Ranking{}, storeErr(err)
	}
	if len(rs) == 0 {
		return Ranking{}, ErrNoResumes
	}

	// Oldest first so equal scores keep upload order.
	pending := make([]model.Resume, 0, len(rs))
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i].OriginalText != "" {
			pending = append(pending, rs[i])
		}
	}

	outcomes, err := worker.Map(ctx, s.rankWorkers, pending, func(ctx context.Context, r model.Resume) (rankOutcome, error) {
		res, err := s.llm.RankResume(ctx, r.OriginalText, jobDescription)
		if err != nil {
			s.logger.Warn(ctx, "ranking failed, using default", logger.String("id", r.ID), logger.Error(err))
			return rankOutcome{candidate: model.NewRankedCandidate(r, model.DefaultRanking())}, nil
		}
		return rankOutcome{candidate: model.NewRankedCandidate(r, res), ok: true}, nil
	})
	if err != nil {
		return Ranking{}, err
	}

	rankings := make([]model.RankedCandidate, len(outcomes))
	successful := 0
	for i, o := range outcomes {
		rankings[i] = o.candidate
		if o.ok {
			successful++
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool { return rankings[i].OverallScore > rankings[j].OverallScore })
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}

	metrics.RecordRanking(successful, len(outcomes)-successful)
	return Ranking{
		Message:            fmt.Sprintf("Successfully ranked %d out of %d resumes", successful, len(rs)),
		JobDescription:     jobDescription,
		Rankings:           rankings,
		TotalResumes:       len(rs),
		SuccessfulRankings: successful,
	}, nil
}

// Questions is a set of screening questions for one candidate.
type Questions struct {
	Message        string   `json:"message"`
	CandidateName  string   `json:"candidate_name"`
	ResumeID       string   `json:"resume_id"`
	Questions      []string `json:"questions"`
	TotalQuestions int      `json:"total_questions"`
	JobDescription string   `json:"job_description"`
}

// defaultQuestionsCandidate names a candidate without a name in questions.
const defaultQuestionsCandidate = "Candidate"

// Questions generates screening questions for owner's resume id. When the
// model cannot produce any, the canned list is returned.
func (s *Service) Questions(ctx context.Context, owner, id, jobDescription string) (Questions, error) {
	if !repository.ValidID(id) {
		return Questions{}, ErrInvalidResumeID
	}
	if strings.TrimSpace(jobDescription) == "" {
		return Questions{}, ErrEmptyJobDescription
	}
	r, err := s.store.FindResume(ctx, id, owner)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return Questions{}, ErrResumeNotFound
	case err != nil:
		return Questions{}, storeErr(err)
	}

	qs, err := s.llm.ScreeningQuestions(ctx, r, jobDescription)
	if err != nil {
		s.logger.Warn(ctx, "question generation failed, using defaults", logger.String("id", id), logger.Error(err))
		metrics.RecordQuestionsFallback()
		qs = model.DefaultScreeningQuestions()
	}

	name := r.PersonalInformation.FullName
	if name == "" {
		name = defaultQuestionsCandidate
	}
	return Questions{
		Message:        "Screening questions generated successfully",
		CandidateName:  name,
		ResumeID:       id,
		Questions:      qs,
		TotalQuestions: len(qs),
		JobDescription: jobDescription,
	}, nil
}

// CertificateUpload describes a stored and linked certificate.
type CertificateUpload struct {
	Message             string `json:"message"`
	ProjectTitle        string `json:"project_title"`
	CertificateFilename string `json:"certificate_filename"`
	FilePath            string `json:"file_path"`
}

var certificateTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/jpg":       {},
}

var certificateExts = map[string]struct{}{
	".pdf":  {},
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// certificateAllowed checks the content type, or the extension when no
// content type was sent.
func certificateAllowed(f File) bool {
	if strings.TrimSpace(f.ContentType) != "" {
		mediaType, _, err := mime.ParseMediaType(f.ContentType)
		if err != nil {
			return false
		}
		_, ok := certificateTypes[mediaType]
		return ok
	}
	_, ok := certificateExts[strings.ToLower(filepath.Ext(f.Name))]
	return ok
}

// Certificate stores f and links it to the project titled title in owner's
// newest record that has one. The stored file is removed when linking
// fails.
func (s *Service) Certificate(ctx context.Context, owner, title string, f File) (CertificateUpload, error) {
	if f.Name == "" && len(f.Data) == 0 {
		return CertificateUpload{}, ErrNoCertificate
	}
	if !certificateAllowed(f) {
		return CertificateUpload{}, ErrCertificateType
	}
	if strings.TrimSpace(title) == "" {
		return CertificateUpload{}, ErrProjectTitle
	}

	path, err := s.blobs.Save(ctx, blob.Name(f.Name), f.ContentType, f.Data)
	if err != nil {
		return CertificateUpload{}, fmt.Errorf("%w: %w", ErrCertificateStorage, err)
	}

	cert := model.Certificate{
		FileName:   f.Name,
		FilePath:   path,
		UploadedAt: s.now().UTC().Format(time.RFC3339),
	}
	if _, err := s.store.AttachCertificate(ctx, owner, title, cert); err != nil {
		if rmErr := s.blobs.Remove(ctx, path); rmErr != nil {
			s.logger.Warn(ctx, "orphaned certificate", logger.String("path", path), logger.Error(rmErr))
		}
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return CertificateUpload{}, ErrProjectNotFound
		case errors.Is(err, repository.ErrNotModified):
			return CertificateUpload{}, ErrCertificateNotSaved
		}
		return CertificateUpload{}, storeErr(err)
	}

	metrics.RecordCertificateUploaded(s.blobs.Backend())
	return CertificateUpload{
		Message:             "Certificate uploaded successfully.",
		ProjectTitle:        title,
		CertificateFilename: f.Name,
		FilePath:            path,
	}, nil
}
