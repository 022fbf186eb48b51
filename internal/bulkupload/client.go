package bulkupload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
)

// Client talks to the resumerank API. It keeps the session cookie in a jar,
// so Login must succeed before any upload.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// Health checks GET /healthz.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/healthz", http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, "health", nil)
}

// Register creates the account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.postJSON(ctx, "/api/register", "register", email, password)
}

// Login opens a session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.postJSON(ctx, "/api/login", "login", email, password)
}

// Upload sends one resume file and returns the stored id.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/parse-resume/", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out struct {
		InsertedID string `json:"inserted_id"`
	}
	if err := c.do(req, "upload "+filepath.Base(path), &out); err != nil {
		return "", err
	}
	return out.InsertedID, nil
}

// Rank ranks the account's resumes against job.
func (c *Client) Rank(ctx context.Context, job string, limit int) ([]model.RankedCandidate, error) {
	form := url.Values{}
	form.Set("job_description", job)
	form.Set("limit", strconv.Itoa(limit))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/rank-resumes/",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		Rankings []model.RankedCandidate `json:"rankings"`
	}
	if err := c.do(req, "rank", &out); err != nil {
		return nil, err
	}
	return out.Rankings, nil
}

func (c *Client) postJSON(ctx context.Context, path, op, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, nil)
}

// do sends req and decodes a 2xx body into out when out is non-nil.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var e struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &e)
		return &StatusError{Op: op, Status: resp.StatusCode, Detail: e.Detail}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}
