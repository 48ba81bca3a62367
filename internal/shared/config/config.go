package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds settings for both the dashboard client and the dev server.
type Config struct {
	// Client settings.
	APIBaseURL  string
	HTTPTimeout time.Duration
	SessionFile string

	// Dev server settings.
	Port            string
	CORSAllowOrigin []string
	LocalStoreDir   string
	DatabaseURL     string
	JWTSecret       string
	AnalysisDelay   time.Duration
	Env             string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:3001"), "/"),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		SessionFile:     getEnv("SESSION_FILE", defaultSessionFile()),
		Port:            getEnv("PORT", "3001"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AnalysisDelay:   getEnvDuration("ANALYSIS_DELAY", 3*time.Second),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
	}
}

// defaultSessionFile places the persisted session under the user config dir,
// falling back to the working directory when it cannot be resolved.
func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".resume-insights-session.json"
	}
	return filepath.Join(dir, "resume-insights", "session.json")
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
