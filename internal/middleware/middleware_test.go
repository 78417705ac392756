package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestIDGenerated(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())

	var seen string
	router.GET("/x", func(c *gin.Context) {
		seen = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if seen == "" {
		t.Fatal("no request id set in context")
	}
	if got := w.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("response header %q = %q, want %q", RequestIDHeader, got, seen)
	}
}

func TestRequestIDHonorsCaller(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request id = %q, want caller-supplied abc-123", got)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want unset", got)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, origins are not access control", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("Allow-Methods not set on preflight")
	}
}

func TestRequestLoggerLevelsAndQuietPaths(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := newTestRouter()
	router.Use(RequestID())
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/api/score", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/score", "/boom", "/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("logged %d entries, want 2 (health is quiet)", len(entries))
	}
	if entries[0].Level != zap.InfoLevel {
		t.Errorf("2xx logged at %v, want info", entries[0].Level)
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Errorf("5xx logged at %v, want error", entries[1].Level)
	}
	ctx := entries[0].ContextMap()
	if id, _ := ctx["request_id"].(string); id == "" {
		t.Error("request_id field empty")
	}
	if ctx["path"] != "/api/score" {
		t.Errorf("path field = %v", ctx["path"])
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	router := newTestRouter()
	router.GET("/x", func(c *gin.Context) {
		RespondErrorWithDetails(c, http.StatusBadGateway, ErrCodeUpstreamFormat,
			"model returned no parseable JSON", "raw snippet here")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Error APIError `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parsing body: %v", err)
	}
	if body.Error.Code != ErrCodeUpstreamFormat {
		t.Errorf("code = %q", body.Error.Code)
	}
	if body.Error.Message == "" || body.Error.Details == "" {
		t.Errorf("envelope incomplete: %+v", body.Error)
	}
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	router := newTestRouter()
	router.Use(Metrics())
	router.GET("/api/score", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/score", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	// Recording twice must not panic on registered collectors.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/score", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}
