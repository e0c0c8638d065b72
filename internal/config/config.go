package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string // sqlite3|sqlite|postgres
	DBDSN    string

	CORSOrigins []string

	SessionTTL time.Duration
	OpenTDBURL string

	// LogBodyBytes caps how much of an error response body is logged.
	LogBodyBytes int
	LogRequests  bool
}

func FromEnv() Config {
	return Config{
		HTTPAddr:     envOr("HTTP_ADDR", envOr("ADDR", ":8080")),
		DBDriver:     envOr("DB_DRIVER", "sqlite3"),
		DBDSN:        envOr("DB_DSN", ""),
		CORSOrigins:  csvOr("CORS_ORIGINS", "http://localhost:3000"),
		SessionTTL:   envDuration("SESSION_TTL", 30*time.Minute),
		OpenTDBURL:   envOr("OPENTDB_URL", "https://opentdb.com/api.php"),
		LogBodyBytes: envInt("LOG_BODY_BYTES", 512),
		LogRequests:  envBool("LOG_REQUESTS", true),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envInt(k string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v < 0 {
		return def
	}
	return v
}

func envDuration(k string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(k)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
