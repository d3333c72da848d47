package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedDrivers = map[string]bool{
	"postgres": true,
	"sqlite":   true,
}

var supportedLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if !supportedDrivers[cfg.DBDriver] {
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}
	if cfg.DBDriver == "sqlite" && cfg.DBPath == "" {
		add("DB_PATH", "is required for the sqlite driver")
	}
	if !supportedLogFormats[cfg.LogFormat] {
		add("LOG_FORMAT", fmt.Sprintf("unsupported format %q", cfg.LogFormat))
	}
	if cfg.TokenTTL <= 0 {
		add("TOKEN_TTL", "must be positive")
	}
	if cfg.S3Bucket != "" && cfg.AWSRegion == "" {
		add("AWS_REGION", "is required when S3_BUCKET_NAME is set")
	}

	// Sensitive values must come from env vars or Docker secrets in production
	if cfg.Environment == Production || cfg.Environment == CI {
		if cfg.JWTSecret == "" || cfg.JWTSecret == DefaultJWTSecret {
			add("JWT_SECRET", "must be set to a non-default value")
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "is required")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
