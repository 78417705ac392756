package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "GO_ENV",
		"OLLAMA_BASE_URL", "OLLAMA_MODEL", "OLLAMA_TIMEOUT_SECONDS",
		"GOOGLE_AI_API_KEY", "GOOGLE_AI_MODEL", "GOOGLE_AI_FALLBACK_MODELS", "GOOGLE_AI_TIMEOUT_SECONDS",
		"CORS_ALLOW_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.OllamaBaseURL != "http://localhost:11434" {
		t.Errorf("OllamaBaseURL = %q", cfg.OllamaBaseURL)
	}
	if cfg.OllamaModel != "llama3.1:latest" {
		t.Errorf("OllamaModel = %q", cfg.OllamaModel)
	}
	if cfg.OllamaTimeout != 120*time.Second {
		t.Errorf("OllamaTimeout = %v", cfg.OllamaTimeout)
	}
	if cfg.GoogleAIAPIKey != "" {
		t.Errorf("GoogleAIAPIKey = %q, want empty", cfg.GoogleAIAPIKey)
	}
	if cfg.GoogleAIModel != "gemini-pro" {
		t.Errorf("GoogleAIModel = %q", cfg.GoogleAIModel)
	}
	if len(cfg.GoogleAIFallbackModels) != 2 || cfg.GoogleAIFallbackModels[0] != "gemini-2.5-flash" {
		t.Errorf("GoogleAIFallbackModels = %v", cfg.GoogleAIFallbackModels)
	}
	if len(cfg.CORSAllowOrigins) != 4 {
		t.Errorf("CORSAllowOrigins = %v", cfg.CORSAllowOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "30")
	t.Setenv("GOOGLE_AI_API_KEY", "test-key")
	t.Setenv("GOOGLE_AI_FALLBACK_MODELS", " gemini-1.5-pro , ,gemini-1.5-flash ")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.OllamaTimeout != 30*time.Second {
		t.Errorf("OllamaTimeout = %v", cfg.OllamaTimeout)
	}
	if cfg.GoogleAIAPIKey != "test-key" {
		t.Errorf("GoogleAIAPIKey = %q", cfg.GoogleAIAPIKey)
	}
	want := []string{"gemini-1.5-pro", "gemini-1.5-flash"}
	if len(cfg.GoogleAIFallbackModels) != len(want) {
		t.Fatalf("GoogleAIFallbackModels = %v, want %v", cfg.GoogleAIFallbackModels, want)
	}
	for i := range want {
		if cfg.GoogleAIFallbackModels[i] != want[i] {
			t.Errorf("fallback[%d] = %q, want %q", i, cfg.GoogleAIFallbackModels[i], want[i])
		}
	}
	if len(cfg.CORSAllowOrigins) != 1 || cfg.CORSAllowOrigins[0] != "https://app.example.com" {
		t.Errorf("CORSAllowOrigins = %v", cfg.CORSAllowOrigins)
	}
}

func TestTimeoutFallsBackOnGarbage(t *testing.T) {
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "soon")
	t.Setenv("GOOGLE_AI_TIMEOUT_SECONDS", "-5")

	cfg := Load()

	if cfg.OllamaTimeout != 120*time.Second {
		t.Errorf("OllamaTimeout = %v, want default on unparseable value", cfg.OllamaTimeout)
	}
	if cfg.GoogleAITimeout != 120*time.Second {
		t.Errorf("GoogleAITimeout = %v, want default on non-positive value", cfg.GoogleAITimeout)
	}
}
