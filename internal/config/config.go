package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the API service
type Config struct {
	// Server
	Port        string
	Environment string

	// Local backend (Ollama)
	OllamaBaseURL string
	OllamaModel   string
	OllamaTimeout time.Duration

	// Cloud backend (Google AI Studio)
	GoogleAIAPIKey         string
	GoogleAIModel          string
	GoogleAIFallbackModels []string
	GoogleAITimeout        time.Duration

	// HTTP
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8000"),
		Environment:   getEnv("GO_ENV", "development"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.1:latest"),
		OllamaTimeout: getEnvSeconds("OLLAMA_TIMEOUT_SECONDS", 120),

		GoogleAIAPIKey:         os.Getenv("GOOGLE_AI_API_KEY"),
		GoogleAIModel:          getEnv("GOOGLE_AI_MODEL", "gemini-pro"),
		GoogleAIFallbackModels: getEnvList("GOOGLE_AI_FALLBACK_MODELS", []string{"gemini-2.5-flash", "gemini-2.0-flash"}),
		GoogleAITimeout:        getEnvSeconds("GOOGLE_AI_TIMEOUT_SECONDS", 120),

		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:3001",
		}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvSeconds reads an integer number of seconds. Unparseable or
// non-positive values fall back to the default.
func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultSeconds) * time.Second
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return time.Duration(defaultSeconds) * time.Second
	}
	return time.Duration(n) * time.Second
}

// getEnvList reads a comma-separated list, trimming whitespace and dropping
// empty entries.
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
