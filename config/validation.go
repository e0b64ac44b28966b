package config

import (
	"errors"
	"fmt"
)

// ValidateConfig checks that the configuration can actually run the server.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if cfg.AnalysisURL == "" {
		return errors.New("ANALYSIS_API_URL is required")
	}

	// Tokens signed with a guessable secret are worthless in production.
	if cfg.JWTSecret == "" {
		if IsProduction() {
			return errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return nil
}
