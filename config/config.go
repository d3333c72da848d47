package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production
const DefaultJWTSecret = "foodgram-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Auth configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Recipe write limits per user, enforced when Redis is reachable
	RecipeCreateLimit int
	RecipeUpdateLimit int
	RateLimitWindow   time.Duration

	// Media storage
	MediaRoot string
	MediaURL  string
	S3Bucket  string
	AWSRegion string

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal in containers
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	env := GetEnvironment()
	cfg := &Config{
		Environment: env,

		ServerPort:  lookup("SERVER_PORT", "8080"),
		ServerHost:  lookup("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: lookupList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		DBDriver:   lookup("DB_DRIVER", "postgres"),
		DBHost:     lookup("DB_HOST", "localhost"),
		DBPort:     lookup("DB_PORT", "5432"),
		DBUser:     lookup("DB_USER", "postgres"),
		DBPassword: lookup("DB_PASSWORD", "postgres"),
		DBName:     lookup("DB_NAME", "foodgram"),
		DBSSLMode:  lookup("DB_SSL_MODE", "disable"),
		DBPath:     lookup("DB_PATH", "foodgram.db"),

		RedisHost:     lookup("REDIS_HOST", ""),
		RedisPort:     lookup("REDIS_PORT", "6379"),
		RedisPassword: lookup("REDIS_PASSWORD", ""),
		RedisDB:       lookupInt("REDIS_DB", 0),
		RedisURL:      lookup("REDIS_URL", ""),

		JWTSecret: lookup("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:  lookupDuration("TOKEN_TTL", 24*time.Hour),

		RecipeCreateLimit: lookupInt("RECIPE_CREATE_LIMIT", 20),
		RecipeUpdateLimit: lookupInt("RECIPE_UPDATE_LIMIT", 30),
		RateLimitWindow:   lookupDuration("RATE_LIMIT_WINDOW", time.Hour),

		MediaRoot: lookup("MEDIA_ROOT", "media"),
		MediaURL:  lookup("MEDIA_URL", "/media/"),
		S3Bucket:  lookup("S3_BUCKET_NAME", ""),
		AWSRegion: lookup("AWS_REGION", ""),

		LogLevel:  lookup("LOG_LEVEL", "info"),
		LogFormat: lookup("LOG_FORMAT", defaultLogFormat(env)),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN builds the lib/pq style connection string
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address of the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func defaultLogFormat(env Environment) string {
	if env == Development {
		return "console"
	}
	return "json"
}
