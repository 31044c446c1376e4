// Package config loads process configuration from the environment, the way
// main.go in the teacher backend does with godotenv plus plain os.Getenv.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-tunable knob the sync engine needs.
type Config struct {
	FetchBaseURL    string
	FetchTimeout    time.Duration
	MongoURL        string
	RunLedgerDSN    string
	RedisURL        string
	RedisHost       string
	RedisPort       string
	RedisPassword   string
	CacheTTL        time.Duration
	TaskCount       int
	SplitCount      int
	Concurrency     int
	CronSchedule    string
	LogLevel        string
	HTTPAddr        string
	AllowedOrigins  string
}

// Load reads .env if present (missing is not an error, matching
// godotenv.Load()'s behavior in main.go) and fills in defaults for anything
// unset.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		FetchBaseURL:   getenv("HIQ_FETCH_BASE_URL", "https://push2his.eastmoney.com"),
		FetchTimeout:   getenvDuration("HIQ_FETCH_TIMEOUT_SECONDS", 15*time.Second),
		MongoURL:       getenv("HIQ_MONGO_URL", "mongodb://localhost:27017"),
		RunLedgerDSN:   getenv("HIQ_RUNLEDGER_DSN", ""),
		RedisURL:       getenv("REDIS_URL", ""),
		RedisHost:      getenv("REDIS_HOST", "localhost"),
		RedisPort:      getenv("REDIS_PORT", "6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		CacheTTL:       getenvDuration("HIQ_CACHE_TTL_SECONDS", 6*time.Hour),
		TaskCount:      getenvInt("HIQ_TASK_COUNT", 4),
		SplitCount:     getenvInt("HIQ_SPLIT_COUNT", 8),
		Concurrency:    getenvInt("HIQ_CONCURRENCY", 8),
		CronSchedule:   getenv("HIQ_CRON_SCHEDULE", "0 30 15 * * 1-5"),
		LogLevel:       getenv("HIQ_LOG_LEVEL", "info"),
		HTTPAddr:       getenv("HIQ_HTTP_ADDR", ":8080"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "*"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
