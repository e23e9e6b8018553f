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

// Store drivers understood by STORE_DRIVER.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// ErrMissingSecret is returned when JWT_SECRET is not set.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Config holds the application configuration.
type Config struct {
	ServerPort int
	AppEnv     string
	LogLevel   string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	StoreDriver   string
	DatabasePath  string // SQLite file, also holds the audit events
	MongoURI      string
	MongoDatabase string

	CORSAllowedOrigins []string

	EventRetention time.Duration
	EventPruneCron string
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	ttlSeconds, err := strconv.Atoi(getEnv("JWT_TTL_SECONDS", "3600"))
	if err != nil || ttlSeconds <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL_SECONDS %q", getEnv("JWT_TTL_SECONDS", ""))
	}

	cost, err := strconv.Atoi(getEnv("BCRYPT_COST", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	retention, err := time.ParseDuration(getEnv("EVENT_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_RETENTION: %w", err)
	}

	cfg := &Config{
		ServerPort:         port,
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           time.Duration(ttlSeconds) * time.Second,
		BcryptCost:         cost,
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		DatabasePath:       getEnv("DATABASE_PATH", "./devconnector.db"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "devconnector"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		EventRetention:     retention,
		EventPruneCron:     getEnv("EVENT_PRUNE_CRON", "@hourly"),
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	if cfg.StoreDriver != StoreSQLite && cfg.StoreDriver != StoreMongo {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
