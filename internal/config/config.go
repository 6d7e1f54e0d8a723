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
	Port      string
	LogLevel  string
	LogFormat string
	API       APIConfig
	RateLimit int
	// Origins lists host patterns allowed to open the change feed from
	// another origin. Empty means same-origin only.
	Origins []string
}

// APIConfig points at the remote foods resource.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Load reads FOODMENU_* variables, loading a .env file first when present.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("FOODMENU_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("FOODMENU_API_TIMEOUT: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("FOODMENU_RATE_LIMIT", "60"))
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("FOODMENU_RATE_LIMIT must be a positive integer")
	}

	return &Config{
		Port:      getEnv("FOODMENU_PORT", "8080"),
		LogLevel:  getEnv("FOODMENU_LOG_LEVEL", "info"),
		LogFormat: getEnv("FOODMENU_LOG_FORMAT", "text"),
		API: APIConfig{
			BaseURL: getEnv("FOODMENU_API_URL", "http://localhost:3333"),
			Timeout: timeout,
		},
		RateLimit: rateLimit,
		Origins:   splitList(os.Getenv("FOODMENU_ALLOWED_ORIGINS")),
	}, nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
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
