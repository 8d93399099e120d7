package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data sources for reference data.
const (
	DataSourceMemory   = "memory"
	DataSourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port       string
	Env        string
	DataSource string
	SentryDSN  string

	Dataset   DatasetConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	LLM       LLMConfig
	AWS       AWSConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// DatasetConfig controls where the in-memory reference data comes from.
// An empty Path means the dataset is generated from Seed.
type DatasetConfig struct {
	Path       string
	Seed       int64
	ReloadCron string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the result cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// LLMConfig configures the OpenAI-compatible provider used for analysis.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// AWSConfig contains credentials for loading datasets from S3.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// AuthConfig enables the dashboard login when Username and PasswordHash are set.
type AuthConfig struct {
	JWTSecret    string
	Username     string
	PasswordHash string
	TokenTTL     time.Duration
}

// Enabled reports whether dashboard authentication is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" && a.Username != "" && a.PasswordHash != ""
}

// RateLimitConfig bounds requests per client IP on the AI routes.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.DataSource = strings.ToLower(getEnv("DATA_SOURCE", DataSourceMemory))
	cfg.SentryDSN = getEnv("SENTRY_DSN", "")

	// Dataset
	cfg.Dataset = DatasetConfig{
		Path:       getEnv("DATASET_PATH", ""),
		Seed:       int64(getEnvInt("DATASET_SEED", 42)),
		ReloadCron: getEnv("DATASET_RELOAD_CRON", ""),
	}

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.LLM = LLMConfig{
		APIKey:      getEnv("LLM_API_KEY", ""),
		BaseURL:     getEnv("LLM_BASE_URL", ""),
		Model:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		Temperature: float32(getEnvFloat("LLM_TEMPERATURE", 0.2)),
	}

	cfg.AWS = AWSConfig{
		Region:          getEnv("AWS_REGION", "ap-southeast-3"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	cfg.Auth = AuthConfig{
		JWTSecret:    getEnv("JWT_SECRET", ""),
		Username:     getEnv("DASHBOARD_USERNAME", ""),
		PasswordHash: getEnv("DASHBOARD_PASSWORD_HASH", ""),
	}

	cfg.RateLimit = RateLimitConfig{
		PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		Burst:     getEnvInt("RATE_LIMIT_BURST", 10),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	// Durations
	var err error
	if cfg.Redis.TTL, err = parseDurationEnv("CACHE_TTL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.LLM.Timeout, err = parseDurationEnv("LLM_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid LLM_TIMEOUT: %w", err)
	}
	if cfg.Auth.TokenTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	switch cfg.DataSource {
	case DataSourceMemory:
	case DataSourcePostgres:
		if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
			return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
		}
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q: expected memory or postgres", cfg.DataSource)
	}

	if (cfg.Auth.Username != "" || cfg.Auth.PasswordHash != "") && cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set when dashboard login is configured")
	}

	if cfg.LLM.Timeout <= 0 {
		return nil, errors.New("LLM_TIMEOUT must be positive")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return nil, errors.New("JWT_TTL must be positive")
	}

	if cfg.RateLimit.PerMinute <= 0 || cfg.RateLimit.Burst <= 0 {
		return nil, errors.New("RATE_LIMIT_PER_MINUTE and RATE_LIMIT_BURST must be positive")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
