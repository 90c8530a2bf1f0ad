// Package config collects all environment-driven settings into one typed
// struct so services receive configuration explicitly instead of reading
// os.Getenv at point of use.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the driftnote backend
type Config struct {
	Environment string
	Port        string

	DatabaseURL string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	JWTSecret string

	LogLevel string
	LogFile  string

	// Featured-feed tuning
	RankingTTL     time.Duration // max age of a cached ranking snapshot
	RankingDepth   int           // fixed depth fetched from the ranking source
	MaxPageLimit   int           // hard cap on per-request limit params
	FeaturedWindow time.Duration // recency window for the featured-notes query
}

// Load reads configuration from the environment, applying defaults.
// Call godotenv.Load before this if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		Port:        getEnvOrDefault("PORT", "8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("LOG_FILE", "driftnote.log"),

		RankingTTL:     getDurationOrDefault("RANKING_CACHE_TTL", 30*time.Minute),
		RankingDepth:   getIntOrDefault("RANKING_DEPTH", 100),
		MaxPageLimit:   getIntOrDefault("MAX_PAGE_LIMIT", 100),
		FeaturedWindow: getDurationOrDefault("FEATURED_WINDOW", 72*time.Hour),
	}

	if cfg.RankingDepth <= 0 {
		return nil, fmt.Errorf("RANKING_DEPTH must be positive, got %d", cfg.RankingDepth)
	}
	if cfg.MaxPageLimit <= 0 {
		return nil, fmt.Errorf("MAX_PAGE_LIMIT must be positive, got %d", cfg.MaxPageLimit)
	}

	return cfg, nil
}

// RedisAddr returns the host:port address for the Redis client
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
