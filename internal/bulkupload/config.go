// Package bulkupload pushes a directory of resumes through a running
// resumerank server and optionally ranks them against a job description.
package bulkupload

import (
	"runtime"
	"time"

	"github.com/okian/resumerank/internal/domain/model"
)

// Defaults used by the command line.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultLimit   = 10
	DefaultTimeout = 2 * time.Minute
)

// DefaultWorkers is one uploader per CPU.
var DefaultWorkers = runtime.NumCPU()

// Config holds configuration for one bulk upload run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Email    string        // Account the resumes are uploaded to
	Password string        // Account password
	Register bool          // Register the account before logging in
	Dir      string        // Directory walked for resumes
	Workers  int           // Concurrent uploads
	Job      string        // Job description to rank against; empty skips ranking
	Limit    int           // Number of ranked candidates to request
	Timeout  time.Duration // Per-request timeout
}

// Stats summarises a run.
type Stats struct {
	Found     int
	Uploaded  int
	Failed    int
	Skipped   int // duplicates of an already uploaded file
	Rankings  []model.RankedCandidate
	StartTime time.Time
	Duration  time.Duration
}
