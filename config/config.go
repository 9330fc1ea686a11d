/*
Package config loads server configuration from the environment.

A .env file is honored when present; real environment variables win.
Flags in cmd/server override everything here.
*/
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBPath        string
	LogFormat     string // "text" or "json"
	SessionTTL    time.Duration
	CORSOrigins  []string
	SeedDemoData bool
}

// Load reads the environment, falling back to development defaults.
func Load() *Config {
	// Missing .env is fine; containers set real env vars.
	_ = godotenv.Load()

	ttlHours := 24
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlHours = n
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	return &Config{
		Port:         getenv("PORT", "8080"),
		DBPath:       getenv("DB_PATH", "./data/tracker.db"),
		LogFormat:    getenv("LOG_FORMAT", "text"),
		SessionTTL:   time.Duration(ttlHours) * time.Hour,
		CORSOrigins:  origins,
		SeedDemoData: os.Getenv("SEED_DEMO_DATA") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
