package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/resumerank/internal/adapters/blob"
	"github.com/okian/resumerank/internal/adapters/http/api"
	"github.com/okian/resumerank/internal/adapters/llm"
	"github.com/okian/resumerank/internal/adapters/repository"
	"github.com/okian/resumerank/internal/adapters/session"
	service "github.com/okian/resumerank/internal/app"
	"github.com/okian/resumerank/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const resumeText = `Asha Rao
Backend engineer with six years building Go services, SQL data pipelines and
search infrastructure. Profile: linkedin.com/in/asha
Experience: Acme Corp, Engineer, 2019-2024.`

const extraction = `{
  "personal_information": {"full_name": "Asha Rao", "email": "asha@example.com"},
  "professional_summary": {"summary": "Backend engineer", "skills": ["Go", "SQL", "Redis"]},
  "education": [{"degree": "B.E."}],
  "experience": [{"company": "Acme", "role": "Engineer"}],
  "projects": [{"project_title": "Indexer"}]
}`

// fakeModel answers by operation, told apart by sampling temperature.
type fakeModel struct{}

func (fakeModel) Generate(_ context.Context, _ string, temperature float32) (string, error) {
	switch {
	case temperature < 0.05:
		return extraction, nil
	case temperature < 0.2:
		return `{"overall_score": 72, "criteria_scores": {"skills_match": 80}, "analysis": "solid"}`, nil
	}
	return `{"questions": ["Why Go?", "Describe the indexer."]}`, nil
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, base string) *client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{t: t, base: base, http: &http.Client{Jar: jar}}
}

type reply struct {
	status int
	body   map[string]any
	raw    string
}

func (c *client) do(req *http.Request) reply {
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	out := reply{status: resp.StatusCode, raw: string(raw)}
	_ = json.Unmarshal(raw, &out.body)
	return out
}

func (c *client) get(path string) reply {
	req, _ := http.NewRequest(http.MethodGet, c.base+path, nil)
	return c.do(req)
}

func (c *client) postJSON(path string, v any) reply {
	b, _ := json.Marshal(v)
	req, _ := http.NewRequest(http.MethodPost, c.base+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) postForm(path string, form url.Values) reply {
	req, _ := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

type upload struct {
	field, name, contentType string
	data                     []byte
}

func (c *client) postMultipart(path string, fields map[string]string, files ...upload) reply {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := mw.CreatePart(h)
		if err != nil {
			c.t.Fatal(err)
		}
		_, _ = part.Write(f.data)
	}
	_ = mw.Close()
	req, _ := http.NewRequest(http.MethodPost, c.base+path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) login(email string) {
	if r := c.postJSON("/api/register", map[string]string{"email": email, "password": "pw"}); r.status != http.StatusOK {
		c.t.Fatalf("register: %d %s", r.status, r.raw)
	}
	if r := c.postJSON("/api/login", map[string]string{"email": email, "password": "pw"}); r.status != http.StatusOK {
		c.t.Fatalf("login: %d %s", r.status, r.raw)
	}
}

func (c *client) uploadResume() string {
	r := c.postMultipart("/api/parse-resume/", nil, upload{field: "file", name: "asha.txt", data: []byte(resumeText)})
	if r.status != http.StatusOK {
		c.t.Fatalf("upload: %d %s", r.status, r.raw)
	}
	return r.body["inserted_id"].(string)
}

func newTestServer(t *testing.T) (*httptest.Server, *service.Service, http.Handler) {
	svc := service.New(
		service.WithStore(repository.NewMemoryStore()),
		service.WithSessions(session.NewMemory()),
		service.WithLLM(llm.NewClient(fakeModel{})),
		service.WithBlobStore(blob.NewDisk(t.TempDir())),
	)
	mux := http.NewServeMux()
	api.NewServer(svc, api.WithMaxUploadBytes(1<<20)).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc, mux
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestServiceEndpoints(t *testing.T) {
	Convey("Given a running API", t, func() {
		srv, _, _ := newTestServer(t)
		c := newClient(t, srv.URL)

		Convey("healthz reports the backing services", func() {
			r := c.get("/healthz")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["status"], ShouldEqual, "ok")
			So(r.body["database_status"], ShouldEqual, "healthy")
			So(r.body["ai_service_status"], ShouldEqual, "operational")
		})

		Convey("metrics are exposed in the Prometheus format", func() {
			c.get("/healthz")
			r := c.get("/metrics")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.raw, ShouldContainSubstring, "healthz")
		})

		Convey("responses carry a request id", func() {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
			req.Header.Set("X-Request-ID", "req-42")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			resp.Body.Close()
			So(resp.Header.Get("X-Request-ID"), ShouldEqual, "req-42")
		})

		Convey("a wrong method is not found", func() {
			So(c.get("/api/register").status, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAuth(t *testing.T) {
	Convey("Given a running API", t, func() {
		srv, _, _ := newTestServer(t)
		c := newClient(t, srv.URL)

		Convey("protected routes need a session", func() {
			r := c.get("/api/my-resumes/")
			So(r.status, ShouldEqual, http.StatusUnauthorized)
			So(r.body["detail"], ShouldEqual, "User not logged in")

			r = c.get("/api/me")
			So(r.status, ShouldEqual, http.StatusUnauthorized)
			So(r.body["detail"], ShouldEqual, "Not logged in")
		})

		Convey("register rejects duplicates and blanks", func() {
			r := c.postJSON("/api/register", map[string]string{"email": "a@x.io", "password": "pw"})
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["message"], ShouldEqual, "User registered successfully.")

			r = c.postJSON("/api/register", map[string]string{"email": "a@x.io", "password": "pw"})
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldEqual, "Email already registered.")

			r = c.postJSON("/api/register", map[string]string{"email": " ", "password": ""})
			So(r.status, ShouldEqual, http.StatusBadRequest)

			r = c.postJSON("/api/register", map[string]string{"email": "b@x.io", "password": strings.Repeat("p", 73)})
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldEqual, "Password must be at most 72 bytes.")

			req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/register", strings.NewReader("{"))
			So(c.do(req).status, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("login sets the cookie and logout clears it", func() {
			c.postJSON("/api/register", map[string]string{"email": "a@x.io", "password": "pw"})

			r := c.postJSON("/api/login", map[string]string{"email": "a@x.io", "password": "nope"})
			So(r.status, ShouldEqual, http.StatusUnauthorized)
			So(r.body["detail"], ShouldEqual, "Invalid credentials.")

			r = c.postJSON("/api/login", map[string]string{"email": "a@x.io", "password": "pw"})
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["message"], ShouldEqual, "Login successful")

			r = c.get("/api/me")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["email"], ShouldEqual, "a@x.io")

			r = c.postJSON("/api/logout", nil)
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["message"], ShouldEqual, "Logged out successfully")
			So(c.get("/api/me").status, ShouldEqual, http.StatusUnauthorized)
		})
	})
}

func TestResumes(t *testing.T) {
	Convey("Given a logged in user", t, func() {
		srv, _, mux := newTestServer(t)
		c := newClient(t, srv.URL)
		c.login("hr@x.io")

		Convey("uploads are validated", func() {
			r := c.postMultipart("/api/parse-resume/", map[string]string{"note": "x"})
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldEqual, "No file uploaded")

			r = c.postMultipart("/api/parse-resume/", nil, upload{field: "file", name: "cv.exe", contentType: "application/octet-stream", data: []byte("MZ")})
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldStartWith, "Unsupported file type")

			r = c.postMultipart("/api/parse-resume/", nil, upload{field: "file", name: "cv.txt", data: []byte("too short")})
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldStartWith, "Resume appears empty or unreadable")

			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			part, _ := mw.CreateFormFile("file", "big.txt")
			_, _ = part.Write(bytes.Repeat([]byte("a"), 2<<20))
			_ = mw.Close()
			req := httptest.NewRequest(http.MethodPost, "/api/parse-resume/", &buf)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			u, _ := url.Parse(srv.URL)
			for _, ck := range c.http.Jar.Cookies(u) {
				req.AddCookie(ck)
			}
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})

		Convey("ranking without resumes is not found", func() {
			r := c.postForm("/api/rank-resumes/", url.Values{"job_description": {"Go engineer"}})
			So(r.status, ShouldEqual, http.StatusNotFound)
			So(r.body["detail"], ShouldEqual, "No resumes found for this user")
		})

		Convey("after an upload", func() {
			id := c.uploadResume()
			So(id, ShouldNotBeEmpty)

			Convey("the record is listed", func() {
				r := c.get("/api/my-resumes/")
				So(r.status, ShouldEqual, http.StatusOK)
				So(r.body["total_count"], ShouldEqual, 1)
				So(r.body["message"], ShouldEqual, "Found 1 resumes")
			})

			Convey("ranking validates its form", func() {
				r := c.postForm("/api/rank-resumes/", url.Values{"job_description": {"  "}})
				So(r.status, ShouldEqual, http.StatusBadRequest)
				So(r.body["detail"], ShouldEqual, "Job description cannot be empty")

				r = c.postForm("/api/rank-resumes/", url.Values{"job_description": {"Go"}, "limit": {"0"}})
				So(r.status, ShouldEqual, http.StatusBadRequest)
				So(r.body["detail"], ShouldEqual, "Limit must be between 1 and 100")

				r = c.postForm("/api/rank-resumes/", url.Values{"job_description": {"Go"}, "limit": {"ten"}})
				So(r.status, ShouldEqual, http.StatusUnprocessableEntity)
			})

			Convey("ranking scores the record", func() {
				r := c.postMultipart("/api/rank-resumes/", map[string]string{"job_description": "Go engineer", "limit": "5"})
				So(r.status, ShouldEqual, http.StatusOK)
				So(r.body["message"], ShouldEqual, "Successfully ranked 1 out of 1 resumes")
				rankings := r.body["rankings"].([]any)
				So(rankings, ShouldHaveLength, 1)
				So(rankings[0].(map[string]any)["overall_score"], ShouldEqual, 72)
			})

			Convey("questions are generated for the caller's record", func() {
				r := c.postForm("/api/generate-questions/", url.Values{"resume_id": {"xyz"}, "job_description": {"Go"}})
				So(r.status, ShouldEqual, http.StatusBadRequest)
				So(r.body["detail"], ShouldEqual, "Invalid resume ID format")

				r = c.postForm("/api/generate-questions/", url.Values{"resume_id": {id}, "job_description": {"Go"}})
				So(r.status, ShouldEqual, http.StatusOK)
				So(r.body["candidate_name"], ShouldEqual, "Asha Rao")
				So(r.body["total_questions"], ShouldEqual, 2)

				other := newClient(t, srv.URL)
				other.login("other@x.io")
				r = other.postForm("/api/generate-questions/", url.Values{"resume_id": {id}, "job_description": {"Go"}})
				So(r.status, ShouldEqual, http.StatusNotFound)
				So(r.body["detail"], ShouldEqual, "Resume not found or access denied")
			})

			Convey("certificates are linked to projects", func() {
				pdf := upload{field: "certificate_file", name: "cert.pdf", contentType: "application/pdf", data: []byte("%PDF-1.4")}

				r := c.postMultipart("/api/project/upload-certificate", map[string]string{"project_title": "Indexer"},
					upload{field: "certificate_file", name: "cert.gif", contentType: "image/gif", data: []byte("GIF")})
				So(r.status, ShouldEqual, http.StatusBadRequest)
				So(r.body["detail"], ShouldEqual, "Only PDF, PNG, or JPG files are allowed for certificates")

				r = c.postMultipart("/api/project/upload-certificate", map[string]string{"project_title": "Indexer"})
				So(r.status, ShouldEqual, http.StatusBadRequest)
				So(r.body["detail"], ShouldEqual, "No certificate file uploaded")

				r = c.postMultipart("/api/project/upload-certificate", map[string]string{"project_title": "Nope"}, pdf)
				So(r.status, ShouldEqual, http.StatusNotFound)
				So(r.body["detail"], ShouldEqual, "Project 'Nope' not found in your resumes.")

				r = c.postMultipart("/api/project/upload-certificate", map[string]string{"project_title": "Indexer"}, pdf)
				So(r.status, ShouldEqual, http.StatusOK)
				So(r.body["message"], ShouldEqual, "Certificate uploaded successfully.")
				So(r.body["certificate_filename"], ShouldEqual, "cert.pdf")
				So(r.body["file_path"], ShouldEndWith, ".pdf")
			})
		})
	})
}

func TestAnalytics(t *testing.T) {
	Convey("Given a user with one resume", t, func() {
		srv, _, _ := newTestServer(t)
		c := newClient(t, srv.URL)
		c.login("hr@x.io")
		c.uploadResume()

		Convey("query parameters are range checked", func() {
			So(c.get("/api/analytics/recruitment-metrics?days_back=0").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/skills-analysis?top_n=3").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/skills-analysis?min_frequency=0").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/real-time-dashboard?refresh_interval=5").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/filtered-resumes?limit=500").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/filtered-resumes?score_min=90&score_max=10").status, ShouldEqual, http.StatusUnprocessableEntity)
			So(c.get("/api/analytics/filtered-resumes?experience_levels=guru").status, ShouldEqual, http.StatusUnprocessableEntity)

			r := c.get("/api/analytics/ranking-performance?date_from=10-01-2025")
			So(r.status, ShouldEqual, http.StatusBadRequest)
			So(r.body["detail"], ShouldEqual, "Invalid date format. Use YYYY-MM-DD")
		})

		Convey("recruitment metrics count the upload", func() {
			r := c.get("/api/analytics/recruitment-metrics?days_back=7&skills_filter=go")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["total_resumes"], ShouldEqual, 1)
			So(r.body["filtered_resumes"], ShouldEqual, 1)

			r = c.get("/api/analytics/recruitment-metrics?skills_filter=cobol")
			So(r.body["filtered_resumes"], ShouldEqual, 0)
		})

		Convey("skills analysis lists the skills", func() {
			r := c.get("/api/analytics/skills-analysis?top_n=5")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["total_unique_skills"], ShouldEqual, 3)
			So(r.body["available_categories"], ShouldNotBeEmpty)
		})

		Convey("ranking performance reports the distribution", func() {
			r := c.get("/api/analytics/ranking-performance")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["total_ranked"], ShouldEqual, 1)
			So(r.body["performance_trends"], ShouldHaveLength, 7)
		})

		Convey("the dashboard summarizes the last day", func() {
			r := c.get("/api/analytics/real-time-dashboard?refresh_interval=60")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["refresh_interval"], ShouldEqual, 60)
			summary := r.body["activity_summary"].(map[string]any)
			So(summary["uploads_last_24h"], ShouldEqual, 1)
			So(summary["active_sessions"], ShouldEqual, 1)
			So(r.body["hourly_activity"], ShouldHaveLength, 24)
		})

		Convey("advanced filters list the vocabulary", func() {
			r := c.get("/api/analytics/advanced-filters")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["skills"], ShouldResemble, []any{"Go", "Redis", "SQL"})
		})

		Convey("filtered resumes carry their score", func() {
			r := c.get("/api/analytics/filtered-resumes?experience_levels=entry&score_range_min=0&score_range_max=100")
			So(r.status, ShouldEqual, http.StatusOK)
			So(r.body["total_matches"], ShouldEqual, 1)
			first := r.body["filtered_resumes"].([]any)[0].(map[string]any)
			So(first["calculated_score"], ShouldBeGreaterThan, 0)

			r = c.get("/api/analytics/filtered-resumes?locations_filter=pune")
			So(r.body["total_matches"], ShouldEqual, 0)
			So(r.body["filtered_resumes"], ShouldBeEmpty)
		})
	})
}

func TestAnalyticsSocket(t *testing.T) {
	Convey("Given a running API", t, func() {
		srv, svc, _ := newTestServer(t)
		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/analytics"

		Convey("the socket needs a session", func() {
			_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			So(err, ShouldNotBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("a logged in client joins the registry", func() {
			c := newClient(t, srv.URL)
			c.login("hr@x.io")
			u, _ := url.Parse(srv.URL)
			header := http.Header{}
			for _, ck := range c.http.Jar.Cookies(u) {
				header.Add("Cookie", ck.String())
			}

			conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
			So(err, ShouldBeNil)
			defer conn.Close()

			So(waitFor(func() bool { return svc.Registry().Len() == 1 }), ShouldBeTrue)
		})
	})
}
