package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	API        APIConfig
	Cache      CacheConfig
	Session    SessionConfig
	Database   DatabaseConfig
	Encryption EncryptionConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CacheConfig struct {
	StaleTime          time.Duration
	RevalidateInterval time.Duration
	RevalidateWorkers  int
	RevalidateQueue    int
}

type SessionConfig struct {
	Store   string // "file" or "postgres"
	File    string
	Profile string
	MaxAge  time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type EncryptionConfig struct {
	Key string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level  string
	Format string
}

// DefaultSessionMaxAge mirrors the 14-day lifetime of the auth cookie.
const DefaultSessionMaxAge = 14 * 24 * time.Hour

func Load() (*Config, error) {
	apiTimeout, err := time.ParseDuration(getEnv("COFRE_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid COFRE_API_TIMEOUT: %w", err)
	}

	staleTime, err := time.ParseDuration(getEnv("CACHE_STALE_TIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_STALE_TIME: %w", err)
	}
	revalidateInterval, err := time.ParseDuration(getEnv("CACHE_REVALIDATE_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_REVALIDATE_INTERVAL: %w", err)
	}
	revalidateWorkers, err := strconv.Atoi(getEnv("CACHE_REVALIDATE_WORKERS", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_REVALIDATE_WORKERS: %w", err)
	}
	revalidateQueue, err := strconv.Atoi(getEnv("CACHE_REVALIDATE_QUEUE", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_REVALIDATE_QUEUE: %w", err)
	}

	sessionMaxAge, err := time.ParseDuration(getEnv("SESSION_MAX_AGE", DefaultSessionMaxAge.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_MAX_AGE: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("COFRE_API_BASE_URL", ""), "/"),
			Timeout: apiTimeout,
		},
		Cache: CacheConfig{
			StaleTime:          staleTime,
			RevalidateInterval: revalidateInterval,
			RevalidateWorkers:  revalidateWorkers,
			RevalidateQueue:    revalidateQueue,
		},
		Session: SessionConfig{
			Store:   strings.ToLower(getEnv("SESSION_STORE", "file")),
			File:    getEnv("SESSION_FILE", defaultSessionFile()),
			Profile: getEnv("SESSION_PROFILE", "default"),
			MaxAge:  sessionMaxAge,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "cofre"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "cofre"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "cofre"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
	}

	// Validate required fields
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("COFRE_API_BASE_URL is required")
	}
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	switch cfg.Session.Store {
	case "file":
		if cfg.Session.File == "" {
			return nil, fmt.Errorf("SESSION_FILE is required when SESSION_STORE=file")
		}
	case "postgres":
	default:
		return nil, fmt.Errorf("invalid SESSION_STORE %q (expected file or postgres)", cfg.Session.Store)
	}

	if cfg.Session.MaxAge <= 0 {
		return nil, fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if cfg.Cache.RevalidateWorkers < 1 {
		return nil, fmt.Errorf("CACHE_REVALIDATE_WORKERS must be at least 1")
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".cofre", "session")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
