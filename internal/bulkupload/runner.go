package bulkupload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/okian/resumerank/internal/adapters/mq/queue"
	"github.com/okian/resumerank/internal/adapters/mq/worker"
	"github.com/okian/resumerank/internal/domain/dedupe"
	"github.com/okian/resumerank/pkg/logger"
)

const percentageMultiplier = 100

var resumeExtensions = map[string]bool{".pdf": true, ".docx": true, ".txt": true}

// Run logs in, uploads every resume under cfg.Dir and ranks them when a job
// description is set.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Email == "" || cfg.Password == "" {
		return nil, ErrNoCredentials
	}
	log := logger.Get().Named("bulk-upload")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting bulk upload",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("dir", cfg.Dir),
		logger.Int("workers", cfg.Workers),
		logger.Bool("rank", cfg.Job != ""))

	files, err := FindResumes(cfg.Dir)
	if err != nil {
		return nil, err
	}
	stats.Found = len(files)

	client, err := NewClient(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	if err := authenticate(ctx, client, cfg, log); err != nil {
		return nil, err
	}

	if err := uploadAll(ctx, client, cfg.Workers, files, stats, log); err != nil {
		return stats, err
	}

	if cfg.Job != "" && stats.Uploaded > 0 {
		limit := cfg.Limit
		if limit < 1 {
			limit = DefaultLimit
		}
		rankings, err := client.Rank(ctx, cfg.Job, limit)
		if err != nil {
			return stats, fmt.Errorf("ranking failed: %w", err)
		}
		stats.Rankings = rankings
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// FindResumes walks dir and returns every supported file in lexical order.
func FindResumes(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if resumeExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoFiles)
	}
	sort.Strings(files)
	return files, nil
}

func authenticate(ctx context.Context, client *Client, cfg *Config, log logger.Logger) error {
	if cfg.Register {
		err := client.Register(ctx, cfg.Email, cfg.Password)
		var se *StatusError
		switch {
		case err == nil:
			log.Info(ctx, "account registered", logger.String("email", cfg.Email))
		case errors.As(err, &se) && se.Status == http.StatusBadRequest:
			log.Warn(ctx, "registration skipped", logger.String("detail", se.Detail))
		default:
			return fmt.Errorf("register: %w", err)
		}
	}
	if err := client.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// uploadAll queues every file and drains the queue with a worker pool.
// Files whose content was already uploaded in this run are skipped.
func uploadAll(ctx context.Context, client *Client, workers int, files []string, stats *Stats, log logger.Logger) error {
	q := queue.NewInMemoryQueue[string](queue.WithName("bulk_upload"), queue.WithCapacity(len(files)))
	for _, f := range files {
		if !q.Enqueue(ctx, f) {
			return fmt.Errorf("%s: %w", f, ErrQueueFull)
		}
	}
	_ = q.Close()

	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	var skipped atomic.Int64
	pool := worker.NewPool[string](workers, q, func(ctx context.Context, path string) error {
		fp, err := fingerprint(path)
		if err != nil {
			return err
		}
		if seen.SeenAndRecord(ctx, fp) {
			skipped.Add(1)
			log.Info(ctx, "duplicate skipped", logger.String("file", path))
			return nil
		}
		id, err := client.Upload(ctx, path)
		if err != nil {
			seen.Unrecord(ctx, fp)
			return err
		}
		log.Debug(ctx, "uploaded", logger.String("file", path), logger.String("id", id))
		return nil
	}, worker.WithName("uploader"), worker.WithLogger(log))
	pool.Start(ctx)
	pool.Wait()

	processed, failed := pool.Stats()
	stats.Skipped = int(skipped.Load())
	stats.Uploaded = int(processed) - stats.Skipped
	stats.Failed = int(failed)
	return ctx.Err()
}

func fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return dedupe.Fingerprint(f)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate float64
	if stats.Found > 0 {
		successRate = float64(stats.Uploaded) / float64(stats.Found) * percentageMultiplier
	}
	log.Info(ctx, "final statistics",
		logger.Int("found", stats.Found),
		logger.Int("uploaded", stats.Uploaded),
		logger.Int("failed", stats.Failed),
		logger.Int("skipped", stats.Skipped),
		logger.Float64("successRate", successRate),
		logger.String("duration", stats.Duration.String()))

	for i, c := range stats.Rankings {
		log.Info(ctx, "ranked candidate",
			logger.Int("rank", i+1),
			logger.String("name", c.CandidateName),
			logger.Float64("score", c.OverallScore),
			logger.String("resumeID", c.ResumeID))
	}
}
