package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/resumerank/internal/bulkupload"
	"github.com/okian/resumerank/pkg/logger"
)

const defaultRunTimeout = 30 * time.Minute

func main() {
	var (
		baseURL  = flag.String("url", bulkupload.DefaultBaseURL, "Base URL of the service")
		email    = flag.String("email", os.Getenv("RESUMERANK_EMAIL"), "Account email")
		password = flag.String("password", os.Getenv("RESUMERANK_PASSWORD"), "Account password")
		register = flag.Bool("register", false, "Register the account before logging in")
		dir      = flag.String("dir", ".", "Directory searched for .pdf, .docx and .txt resumes")
		workers  = flag.Int("workers", bulkupload.DefaultWorkers, "Number of concurrent uploads")
		job      = flag.String("job", "", "Job description to rank the uploaded resumes against")
		limit    = flag.Int("limit", bulkupload.DefaultLimit, "Number of ranked candidates to show")
		timeout  = flag.Duration("timeout", bulkupload.DefaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat("console")); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	stats, err := bulkupload.Run(ctx, &bulkupload.Config{
		BaseURL:  *baseURL,
		Email:    *email,
		Password: *password,
		Register: *register,
		Dir:      *dir,
		Workers:  *workers,
		Job:      *job,
		Limit:    *limit,
		Timeout:  *timeout,
	})
	if err != nil {
		logger.Get().Error(ctx, "bulk upload failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	if stats.Failed > 0 {
		_ = logger.Sync()
		os.Exit(2)
	}
}
