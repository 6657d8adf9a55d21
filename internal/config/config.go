package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort             string
	LogLevel             string
	JWTSecret            string
	RequestTimeout       time.Duration
	RedisURL             string
	ApplyRateLimitPerMin int
	AuditBuffer          int
	GoogleServiceAccount string
	GoogleSheetsID       string
	AuditXLSXPath        string
	Storage              Storage
}

// Storage selects and configures the persistence backend. MongoURI wins over
// PostgresDSN; with neither set the in-memory store is used.
type Storage struct {
	MongoURI       string
	MongoDatabase  string
	PostgresDSN    string
	DBDriver       string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxIdle  time.Duration
	DBConnMaxLife  time.Duration
	ConnectTimeout time.Duration
}

const (
	BackendDocument   = "mongodb"
	BackendRelational = "postgres"
	BackendMemory     = "memory"
)

func (s Storage) Backend() string {
	switch {
	case s.MongoURI != "":
		return BackendDocument
	case s.PostgresDSN != "":
		return BackendRelational
	default:
		return BackendMemory
	}
}

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		RequestTimeout:       getDuration("REQUEST_TIMEOUT", 10*time.Second),
		RedisURL:             getEnv("REDIS_URL", ""),
		ApplyRateLimitPerMin: getInt("APPLY_RATE_LIMIT_PER_MIN", 3),
		AuditBuffer:          getInt("AUDIT_BUFFER", 256),
		GoogleServiceAccount: getEnv("GOOGLE_SERVICE_ACCOUNT_KEY", ""),
		GoogleSheetsID:       getEnv("GOOGLE_SHEETS_ID", ""),
		AuditXLSXPath:        getEnv("AUDIT_XLSX_PATH", ""),
		Storage: Storage{
			MongoURI:       getEnv("MONGODB_URI", ""),
			MongoDatabase:  getEnv("MONGODB_DATABASE", "placement"),
			PostgresDSN:    getEnv("DATABASE_URL", ""),
			DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "pgx")),
			DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 25),
			DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),
			DBConnMaxIdle:  getDuration("DB_CONN_MAX_IDLE", 5*time.Minute),
			DBConnMaxLife:  getDuration("DB_CONN_MAX_LIFE", 30*time.Minute),
			ConnectTimeout: getDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},
	}
	if cfg.Storage.DBDriver == "pq" || cfg.Storage.DBDriver == "postgresql" {
		cfg.Storage.DBDriver = "postgres"
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Storage.DBDriver != "pgx" && cfg.Storage.DBDriver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", cfg.Storage.DBDriver)
	}
	if cfg.ApplyRateLimitPerMin < 0 {
		return nil, fmt.Errorf("APPLY_RATE_LIMIT_PER_MIN must not be negative")
	}
	if cfg.GoogleSheetsID != "" && cfg.GoogleServiceAccount == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_KEY is required when GOOGLE_SHEETS_ID is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			return parsed
		}
	}
	return fallback
}
