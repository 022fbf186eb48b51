package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/internal/domain/model"
	"github.com/okian/resumerank/pkg/logger"
)

const defaultRankLimit = 10

// ResumeDependencies defines the resume use cases.
type ResumeDependencies interface {
	Upload(ctx context.Context, owner string, f service.File) (model.Resume, error)
	MyResumes(ctx context.Context, owner string) ([]model.Resume, error)
	Rank(ctx context.Context, owner, jobDescription string, limit int) (service.Ranking, error)
	Questions(ctx context.Context, owner, id, jobDescription string) (service.Questions, error)
	Certificate(ctx context.Context, owner, title string, f service.File) (service.CertificateUpload, error)
}

// ResumeHandler handles upload, listing, ranking, screening and
// certificate requests.
type ResumeHandler struct {
	deps     ResumeDependencies
	maxBytes int64
	logger   logger.Logger
}

// NewResumeHandler creates a new resume handler.
func NewResumeHandler(deps ResumeDependencies, maxBytes int64, l logger.Logger) *ResumeHandler {
	return &ResumeHandler{deps: deps, maxBytes: maxBytes, logger: l}
}

type uploadResponse struct {
	Message    string       `json:"message"`
	InsertedID string       `json:"inserted_id"`
	Data       model.Resume `json:"data"`
}

type myResumesResponse struct {
	Message    string         `json:"message"`
	Resumes    []model.Resume `json:"resumes"`
	TotalCount int            `json:"total_count"`
}

// HandleParseResume handles POST /api/parse-resume/ requests.
func (h *ResumeHandler) HandleParseResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}
	f, ok, err := formFile(r, "file")
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeDetail(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	rec, err := h.deps.Upload(r.Context(), userFrom(r.Context()), f)
	if err != nil {
		h.logFailure(r.Context(), "resume upload failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{
		Message:    "Resume parsed successfully.",
		InsertedID: rec.ID,
		Data:       rec,
	})
}

// HandleMyResumes handles GET /api/my-resumes/ requests.
func (h *ResumeHandler) HandleMyResumes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rs, err := h.deps.MyResumes(r.Context(), userFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if rs == nil {
		rs = []model.Resume{}
	}
	writeJSON(w, http.StatusOK, myResumesResponse{
		Message:    fmt.Sprintf("Found %d resumes", len(rs)),
		Resumes:    rs,
		TotalCount: len(rs),
	})
}

// HandleRankResumes handles POST /api/rank-resumes/ requests.
func (h *ResumeHandler) HandleRankResumes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}
	limit := defaultRankLimit
	if raw := strings.TrimSpace(r.FormValue("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, &paramError{detail: "limit must be an integer"})
			return
		}
		limit = n
	}
	res, err := h.deps.Rank(r.Context(), userFrom(r.Context()), r.FormValue("job_description"), limit)
	if err != nil {
		h.logFailure(r.Context(), "ranking failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGenerateQuestions handles POST /api/generate-questions/ requests.
func (h *ResumeHandler) HandleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.deps.Questions(r.Context(), userFrom(r.Context()),
		strings.TrimSpace(r.FormValue("resume_id")), r.FormValue("job_description"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleUploadCertificate handles POST /api/project/upload-certificate
// requests.
func (h *ResumeHandler) HandleUploadCertificate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.parseForm(w, r); err != nil {
		writeError(w, err)
		return
	}
	f, _, err := formFile(r, "certificate_file")
	if err != nil {
		writeError(w, err)
		return
	}
	title := r.FormValue("project_title")
	res, err := h.deps.Certificate(r.Context(), userFrom(r.Context()), title, f)
	if errors.Is(err, service.ErrProjectNotFound) {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Project '%s' not found in your resumes.", title))
		return
	}
	if err != nil {
		h.logFailure(r.Context(), "certificate upload failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// parseForm reads a multipart or urlencoded body bounded by maxBytes.
func (h *ResumeHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	err := r.ParseMultipartForm(h.maxBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &tooLarge):
		return ErrTooLarge
	default:
		return fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
}

// formFile reads the named multipart file into memory. ok is false when
// the field is absent.
func formFile(r *http.Request, field string) (service.File, bool, error) {
	file, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return service.File{}, false, nil
	}
	if err != nil {
		return service.File{}, false, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return service.File{}, false, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return service.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, true, nil
}

// logFailure logs server-side failures; client errors stay quiet.
func (h *ResumeHandler) logFailure(ctx context.Context, msg string, err error) {
	if status, _ := statusFor(err); status >= statusInternalError {
		h.logger.Error(ctx, msg, logger.String("user", userFrom(ctx)), logger.Error(err))
	}
}
