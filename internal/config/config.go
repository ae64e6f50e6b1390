// Package config loads service configuration from the environment, with an
// optional .env file applied first.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dgallion1/lexchunk/internal/chunker"
)

// Store backends.
const (
	StoreSQLite    = "sqlite"
	StorePathstore = "pathstore"
	StoreMemory    = "memory"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8090"`

	// Auth
	APIKey string `envconfig:"LEXCHUNK_API_KEY"`

	// Logging
	LogLevel  string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Worker pool
	WorkerCount  int `envconfig:"WORKER_COUNT" default:"4"`
	MaxQueueSize int `envconfig:"MAX_QUEUE_SIZE" default:"100"`

	// Upload limits
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`

	// Job state
	JobTTL time.Duration `envconfig:"JOB_TTL" default:"1h"`

	// Chunk storage
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`
	DBURL        string `envconfig:"DB_URL" default:"sqlite:///lexchunk.db"`

	// Pathstore connection, used when StoreBackend is pathstore.
	PathstoreURL    string `envconfig:"PATHSTORE_URL" default:"http://localhost:8080"`
	PathstoreAPIKey string `envconfig:"PATHSTORE_API_KEY"`

	// PDF
	PDFFallbackPdftotext bool `envconfig:"PDF_FALLBACK_PDFTOTEXT" default:"true"`

	// Chunking
	MinChunkSize       int `envconfig:"MIN_CHUNK_SIZE" default:"500"`
	MaxChunkSize       int `envconfig:"MAX_CHUNK_SIZE" default:"8000"`
	RuleSplitThreshold int `envconfig:"RULE_SPLIT_THRESHOLD" default:"5000"`
	FallbackChunkSize  int `envconfig:"FALLBACK_CHUNK_SIZE" default:"1000"`
	NoiseFloor         int `envconfig:"NOISE_FLOOR" default:"100"`
}

// Load reads the .env file at envPath, if it exists, then the process
// environment. Variables already set in the environment win over .env.
func Load(envPath string) (Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// Thresholds returns the chunking sizes.
func (c Config) Thresholds() chunker.Thresholds {
	return chunker.Thresholds{
		MinChunkSize:       c.MinChunkSize,
		MaxChunkSize:       c.MaxChunkSize,
		RuleSplitThreshold: c.RuleSplitThreshold,
		FallbackChunkSize:  c.FallbackChunkSize,
		NoiseFloor:         c.NoiseFloor,
	}
}

// Validate returns the first configuration problem found.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("LEXCHUNK_API_KEY is required")
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if c.MaxQueueSize <= 0 {
		return fmt.Errorf("MAX_QUEUE_SIZE must be positive, got %d", c.MaxQueueSize)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.JobTTL <= 0 {
		return fmt.Errorf("JOB_TTL must be positive, got %s", c.JobTTL)
	}
	switch c.StoreBackend {
	case StoreSQLite:
		if c.DBURL == "" {
			return errors.New("DB_URL is required for the sqlite store")
		}
	case StorePathstore:
		if c.PathstoreAPIKey == "" {
			return errors.New("PATHSTORE_API_KEY is required for the pathstore store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q, %q or %q, got %q",
			StoreSQLite, StorePathstore, StoreMemory, c.StoreBackend)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Thresholds().Validate(); err != nil {
		return fmt.Errorf("chunk thresholds: %w", err)
	}
	return nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
// LOG_FORMAT "text" selects the text handler; anything else is JSON.
func (c Config) NewLogger() *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
