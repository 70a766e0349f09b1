package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel string

	// Redis (optional; without it chat updates stay in-process)
	RedisURL string

	// Chat
	ReplyDelay    time.Duration
	ChatRateLimit int

	// Sessions
	SessionIdleTTL time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Env:            getEnvOrDefault("ENV", "development"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		RedisURL:       getEnvOrDefault("REDIS_URL", ""),
		ReplyDelay:     getEnvAsDurationOrDefault("REPLY_DELAY", time.Second),
		ChatRateLimit:  getEnvAsIntOrDefault("CHAT_RATE_LIMIT", 30),
		SessionIdleTTL: getEnvAsDurationOrDefault("SESSION_IDLE_TTL", 30*time.Minute),
		FrontendURL:    getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvAsDurationOrDefault parses Go durations ("1s", "250ms"). Zero and
// negative values fall back to the default.
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
