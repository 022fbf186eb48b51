// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns the defaults; Load(ctx) layers a YAML file and env on top.
// - Validation errors wrap ErrInvalidConfig, loader errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Certificate storage backends.
const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is console or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	Store             string `koanf:"store"`
	MongoURI          string `koanf:"mongo_uri"`
	MongoDatabase     string `koanf:"mongo_database"`
	ResumesCollection string `koanf:"resumes_collection"`
	UsersCollection   string `koanf:"users_collection"`

	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	SessionCookie string        `koanf:"session_cookie"`
	CookieSecure  bool          `koanf:"cookie_secure"`

	GeminiAPIKey string        `koanf:"gemini_api_key"`
	GeminiModel  string        `koanf:"gemini_model"`
	LLMTimeout   time.Duration `koanf:"llm_timeout"`
	// LLMRatePerSec and LLMBurst bound outgoing model calls.
	LLMRatePerSec float64 `koanf:"llm_rate_per_sec"`
	LLMBurst      int     `koanf:"llm_burst"`

	// RankWorkers caps concurrent model calls within one ranking request.
	RankWorkers int `koanf:"rank_workers"`

	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
	MinTextLength  int   `koanf:"min_text_length"`

	CertificateBackend string `koanf:"certificate_backend"`
	UploadDir          string `koanf:"upload_dir"`
	S3Bucket           string `koanf:"s3_bucket"`
	S3Region           string `koanf:"s3_region"`
	S3Endpoint         string `koanf:"s3_endpoint"`
	S3AccessKey        string `koanf:"s3_access_key"`
	S3SecretKey        string `koanf:"s3_secret_key"`
	S3Prefix           string `koanf:"s3_prefix"`

	BroadcastInterval time.Duration `koanf:"broadcast_interval"`
	MetricsInterval   time.Duration `koanf:"metrics_interval"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "console",
		Addr:               ":8000",
		Store:              StoreMongo,
		MongoURI:           "mongodb://localhost:27017/",
		MongoDatabase:      "resume_parser",
		ResumesCollection:  "resumes",
		UsersCollection:    "users",
		RedisAddr:          "localhost:6379",
		SessionTTL:         24 * time.Hour,
		SessionCookie:      "session",
		GeminiModel:        "gemini-2.0-flash-lite",
		LLMTimeout:         90 * time.Second,
		LLMRatePerSec:      2,
		LLMBurst:           4,
		RankWorkers:        4,
		MaxUploadBytes:     10 << 20,
		MinTextLength:      100,
		CertificateBackend: BackendDisk,
		UploadDir:          "uploads/certificates",
		S3Region:           "us-east-1",
		S3Prefix:           "certificates",
		BroadcastInterval:  30 * time.Second,
		MetricsInterval:    10 * time.Second,
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Store != StoreMongo && c.Store != StoreMemory:
		return fmt.Errorf("%w: store must be %q or %q, got %q", ErrInvalidConfig, StoreMongo, StoreMemory, c.Store)
	case c.Store == StoreMongo && c.MongoURI == "":
		return fmt.Errorf("%w: mongo_uri must not be empty", ErrInvalidConfig)
	case c.CertificateBackend != BackendDisk && c.CertificateBackend != BackendS3:
		return fmt.Errorf("%w: certificate_backend must be %q or %q, got %q", ErrInvalidConfig, BackendDisk, BackendS3, c.CertificateBackend)
	case c.CertificateBackend == BackendS3 && c.S3Bucket == "":
		return fmt.Errorf("%w: s3_bucket is required for the s3 backend", ErrInvalidConfig)
	case c.CertificateBackend == BackendDisk && c.UploadDir == "":
		return fmt.Errorf("%w: upload_dir must not be empty", ErrInvalidConfig)
	case c.RankWorkers < 1:
		return fmt.Errorf("%w: rank_workers must be at least 1", ErrInvalidConfig)
	case c.LLMTimeout < 0:
		return fmt.Errorf("%w: llm_timeout must not be negative", ErrInvalidConfig)
	case c.MinTextLength < 0:
		return fmt.Errorf("%w: min_text_length must not be negative", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.BroadcastInterval <= 0:
		return fmt.Errorf("%w: broadcast_interval must be positive", ErrInvalidConfig)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	case c.LLMRatePerSec < 0 || c.LLMBurst < 0:
		return fmt.Errorf("%w: llm rate limits must not be negative", ErrInvalidConfig)
	case c.LogFormat != "console" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be console or json", ErrInvalidConfig)
	}
	return nil
}
