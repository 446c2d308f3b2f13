package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	GeminiAPIKey  string
	GeminiBaseURL string
	// GeminiModels is the ordered primary model cascade, best quality first.
	GeminiModels []string

	FallbackBaseURL string

	ProviderTimeout   time.Duration
	RetryInterval     time.Duration
	AttemptsPerSecond float64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	CORSAllowedOrigins []string

	// GenerateRatePerMinute caps batch submissions per client IP.
	GenerateRatePerMinute int
}

// defaultGeminiModels orders the primary cascade best quality first.
var defaultGeminiModels = []string{
	"gemini-2.5-flash-image",
	"gemini-2.0-flash-preview-image-generation",
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. No variable is mandatory: without a Gemini key the
// service runs against the synthetic development provider.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		Port:                  getEnv("PORT", "8080"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModels:          getEnvList("GEMINI_MODELS", defaultGeminiModels),
		FallbackBaseURL:       getEnv("FALLBACK_BASE_URL", "https://image.pollinations.ai"),
		ProviderTimeout:       time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)),
		RetryInterval:         time.Second * time.Duration(getEnvInt("RETRY_INTERVAL_SECONDS", 2)),
		AttemptsPerSecond:     getEnvFloat("PROVIDER_ATTEMPTS_PER_SECOND", 1),
		HTTPReadTimeout:       time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout:      time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:       time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		CORSAllowedOrigins:    getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		GenerateRatePerMinute: getEnvInt("GENERATE_RATE_PER_MINUTE", 6),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
