package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration. Driver is "sqlite" or "postgres"; DSN is the
	// sqlite file path or the postgres connection string.
	DBDriver string
	DBDSN    string

	// Redis configuration (analysis drafts). Empty host disables drafts.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Remote meal-analysis endpoint
	AnalysisURL string
	AnalysisKey string

	// S3 meal photo storage. Empty bucket disables photo uploads.
	S3Bucket string

	// JWT configuration
	JWTSecret string
}

// LoadConfig builds a Config from environment variables with development
// defaults, then validates it.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerHost:    getenv("SERVER_HOST", "0.0.0.0"),
		ServerPort:    getenv("SERVER_PORT", "8080"),
		DBDriver:      getenv("DB_DRIVER", "sqlite"),
		DBDSN:         getenv("DB_DSN", "snapcal.db"),
		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getenv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AnalysisURL:   getenv("ANALYSIS_API_URL", "https://api.snapcal.app/v1/analyze"),
		AnalysisKey:   os.Getenv("ANALYSIS_API_KEY"),
		S3Bucket:      os.Getenv("S3_BUCKET_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// RedisAddr returns the host:port redis address, empty when redis is not
// configured.
func (c *Config) RedisAddr() string {
	if c.RedisHost == "" {
		return ""
	}
	return c.RedisHost + ":" + c.RedisPort
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
