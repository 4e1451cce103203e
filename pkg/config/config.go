package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// ExtractorURL points at a remote extraction service. Empty means the
	// desk extracts in-process through the same code as POST /extract-resume-text.
	ExtractorURL   string
	ExtractTimeout time.Duration
	MaxUploadBytes int64

	ManualSaveDelay time.Duration
	SessionTTL      time.Duration
	SessionQuota    int

	RedisURL    string
	DatabaseURL string

	JWTSecret string
	JWTIssuer string

	LogJSON  bool
	LogDebug bool
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		ExtractorURL:    os.Getenv("EXTRACTOR_URL"),
		ExtractTimeout:  time.Duration(getEnvInt("EXTRACT_TIMEOUT_SECONDS", 0)) * time.Second,
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 15<<20)),
		ManualSaveDelay: time.Duration(getEnvInt("MANUAL_SAVE_DELAY_MS", 500)) * time.Millisecond,
		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
		SessionQuota:    getEnvInt("SESSION_QUOTA_BYTES", 5<<20),
		RedisURL:        os.Getenv("REDIS_URL"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:       getEnv("JWT_ISSUER", "careerdesk"),
		LogJSON:         getEnvBool("LOG_JSON", false),
		LogDebug:        getEnvBool("LOG_DEBUG", false),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
