package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds application configuration
type Config struct {
	// Server
	Port                string
	LogLevel            string
	CORSAllowedOrigins  []string
	MaxRequestBodyBytes int64
	ShutdownTimeout     time.Duration

	// Gemini API
	GeminiAPIKey      string
	GeminiAPIEndpoint string // if set, overrides default Gemini API base URL
	GeminiModel       string
	GeminiModelTTS    string

	// Story client
	RelayURL     string
	RelayTimeout time.Duration // 0 keeps the HTTP client default (no timeout)
	NarrationDir string

	// Narration readiness polling
	VoicePollInterval    time.Duration
	VoicePollMaxAttempts int
	NarrateRetryDelay    time.Duration
	NarrateMaxAttempts   int
	SpeakDelay           time.Duration
	RetryMaxInterval     time.Duration
}

// Load loads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env file could not be loaded")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxRequestBodyBytes: getEnvInt64("MAX_REQUEST_BODY_BYTES", 100*1024), // 100KB
		ShutdownTimeout:     getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiAPIEndpoint: getEnv("GEMINI_API_ENDPOINT", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiModelTTS:    getEnv("GEMINI_MODEL_TTS", "gemini-2.5-flash-preview-tts"),

		RelayURL:     getEnv("STORY_RELAY_URL", "http://localhost:8080"),
		RelayTimeout: getEnvDuration("RELAY_TIMEOUT", 0),
		NarrationDir: getEnv("NARRATION_DIR", "narrations"),

		VoicePollInterval:    getEnvDuration("VOICE_POLL_INTERVAL", 500*time.Millisecond),
		VoicePollMaxAttempts: clampMin(getEnvInt("VOICE_POLL_MAX_ATTEMPTS", 20), 1),
		NarrateRetryDelay:    getEnvDuration("NARRATE_RETRY_DELAY", 500*time.Millisecond),
		NarrateMaxAttempts:   clampMin(getEnvInt("NARRATE_MAX_ATTEMPTS", 10), 1),
		SpeakDelay:           getEnvDuration("SPEAK_DELAY", 200*time.Millisecond),
		RetryMaxInterval:     getEnvDuration("RETRY_MAX_INTERVAL", 5*time.Second),
	}
}

// HTTPAddr is the listen address derived from Port.
func (c *Config) HTTPAddr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// clampMin returns v if v >= min, otherwise min.
func clampMin(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
