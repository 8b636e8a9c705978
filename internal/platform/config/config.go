package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	ArtifactsDir    string
	LogLevel        slog.Level
	ShutdownTimeout time.Duration
	Inference       InferenceConfig
	Redis           RedisConfig
}

// InferenceConfig tunes the prediction pipeline.
type InferenceConfig struct {
	// BatchWorkers bounds how many records of one batch are scored at once.
	// 1 keeps batches strictly sequential.
	BatchWorkers int
	// MaxBatchSize rejects larger batches as invalid input.
	MaxBatchSize int
	// NormalizeBatchCategories applies the single-record category
	// normalization to batch records too. When false, batch records must
	// carry canonical category strings.
	NormalizeBatchCategories bool
	// CacheTTL is how long cached probabilities live in Redis.
	CacheTTL time.Duration
}

// RedisConfig configures the optional prediction cache. An empty URL
// disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Malformed values fall back to defaults; Validate reports impossible ones.
func FromEnv() Server {
	return Server{
		Addr:            getEnv("DONORCHECK_ADDR", ":8000"),
		ArtifactsDir:    getEnv("ARTIFACTS_DIR", "./artifacts"),
		LogLevel:        parseLevel(os.Getenv("LOG_LEVEL")),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		Inference: InferenceConfig{
			BatchWorkers:             getInt("BATCH_WORKERS", 1),
			MaxBatchSize:             getInt("MAX_BATCH_SIZE", 1000),
			NormalizeBatchCategories: getBool("BATCH_NORMALIZE_CATEGORIES", true),
			CacheTTL:                 getDuration("PREDICTION_CACHE_TTL", 10*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 200*time.Millisecond),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 200*time.Millisecond),
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (s Server) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("config: listen address is required")
	}
	if s.ArtifactsDir == "" {
		return fmt.Errorf("config: artifacts directory is required")
	}
	if s.Inference.BatchWorkers < 1 {
		return fmt.Errorf("config: BATCH_WORKERS must be at least 1, got %d", s.Inference.BatchWorkers)
	}
	if s.Inference.MaxBatchSize < 1 {
		return fmt.Errorf("config: MAX_BATCH_SIZE must be at least 1, got %d", s.Inference.MaxBatchSize)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
