package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"go.uber.org/zap"
)

type systemFixture struct {
	router       *gin.Engine
	ollamaStatus *llm.Status
	googleStatus *llm.Status
	ollama       *llm.Ollama
}

func newSystemFixture(t *testing.T, ollamaURL string) *systemFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ollama := llm.NewOllama(llm.OllamaConfig{BaseURL: ollamaURL, DefaultModel: "llama3.1:latest"})
	google, err := llm.NewGoogleAI(context.Background(), llm.GoogleAIConfig{DefaultModel: "gemini-pro"})
	if err != nil {
		t.Fatalf("building google client: %v", err)
	}

	f := &systemFixture{
		ollamaStatus: &llm.Status{},
		googleStatus: &llm.Status{},
		ollama:       ollama,
	}
	f.googleStatus.MarkUnavailable(google.ConfigErr())

	h := NewSystemHandler(ollama, google, f.ollamaStatus, f.googleStatus, zap.NewNop())
	router := gin.New()
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/info", h.Info)
	router.POST("/reconnect", h.Reconnect)
	f.router = router
	return f
}

func (f *systemFixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parsing %s response: %v", path, err)
	}
	return w, body
}

func jsonString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("expected JSON string, got %s", raw)
	}
	return s
}

func TestHealthAlways200(t *testing.T) {
	f := newSystemFixture(t, "http://localhost:1")
	f.ollamaStatus.MarkUnavailable("connection refused")

	w, body := f.get(t, "/health")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, health must answer 200 even when degraded", w.Code)
	}
	if got := jsonString(t, body["status"]); got != "degraded" {
		t.Errorf("status field = %q", got)
	}
	if string(body["ollama_available"]) != "false" {
		t.Errorf("ollama_available = %s", body["ollama_available"])
	}
}

func TestHealthHealthyWithOneBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	f := newSystemFixture(t, srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	f.ollamaStatus.Update(ctx, f.ollama)

	_, body := f.get(t, "/health")

	if got := jsonString(t, body["status"]); got != "healthy" {
		t.Errorf("status = %q, one live backend is enough", got)
	}
}

func TestRootBanner(t *testing.T) {
	f := newSystemFixture(t, "http://localhost:11434")
	f.ollamaStatus.MarkUnavailable("connection refused")

	w, body := f.get(t, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := jsonString(t, body["service"]); got != "llama" {
		t.Errorf("service = %q", got)
	}
	if got := jsonString(t, body["version"]); got != "2.0.0" {
		t.Errorf("version = %q", got)
	}
	if got := jsonString(t, body["ollama_url"]); got != "http://localhost:11434" {
		t.Errorf("ollama_url = %q", got)
	}
	if got := jsonString(t, body["default_model"]); got != "llama3.1:latest" {
		t.Errorf("default_model = %q", got)
	}
	if got := jsonString(t, body["ollama_error"]); got != "connection refused" {
		t.Errorf("ollama_error = %q", got)
	}
	if string(body["google_ai_available"]) != "false" {
		t.Errorf("google_ai_available = %s", body["google_ai_available"])
	}
	if jsonString(t, body["google_ai_error"]) == "" {
		t.Error("google_ai_error empty for unconfigured backend")
	}
}

func TestReconnect(t *testing.T) {
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"models": []}`))
	}))
	defer srv.Close()

	f := newSystemFixture(t, srv.URL)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reconnect", nil))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if string(body["success"]) != "true" {
		t.Fatalf("success = %s, body %s", body["success"], w.Body.String())
	}
	if string(body["error"]) != "null" {
		t.Errorf("error = %s, want null on success", body["error"])
	}
	if !f.ollamaStatus.Load().Available {
		t.Error("status not updated after successful reconnect")
	}

	healthy = false
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reconnect", nil))
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if string(body["success"]) != "false" {
		t.Errorf("success = %s after backend went down", body["success"])
	}
	if string(body["error"]) == "null" {
		t.Error("error missing after failed reconnect")
	}
	if f.ollamaStatus.Load().Available {
		t.Error("status still available after failed reconnect")
	}
}

func TestInfoCatalogue(t *testing.T) {
	f := newSystemFixture(t, "http://localhost:11434")

	w, body := f.get(t, "/info")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var endpoints map[string]string
	if err := json.Unmarshal(body["endpoints"], &endpoints); err != nil {
		t.Fatalf("parsing endpoints: %v", err)
	}
	for _, key := range []string{"v1_score", "v1_improve", "v2_generate_topics", "v2_list_models", "reconnect"} {
		if endpoints[key] == "" {
			t.Errorf("endpoint %q missing from catalogue", key)
		}
	}
	if got := jsonString(t, body["service"]); got != "Llama IELTS Scoring Service" {
		t.Errorf("service = %q", got)
	}
}

func TestModelsListUnconfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	google, err := llm.NewGoogleAI(context.Background(), llm.GoogleAIConfig{DefaultModel: "gemini-pro"})
	if err != nil {
		t.Fatalf("building google client: %v", err)
	}

	h := NewModelsHandler(google, time.Second, zap.NewNop())
	router := gin.New()
	router.GET("/api/v2/models", h.List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/models", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 without credentials", w.Code)
	}
	if code := errorCode(t, w); code != middleware.ErrCodeBackendUnavailable {
		t.Errorf("code = %q", code)
	}
}
