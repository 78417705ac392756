package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/llm"
	"go.uber.org/zap"
)

const (
	serviceName    = "llama"
	serviceVersion = "2.0.0"

	probeTimeout = 5 * time.Second
)

// SystemHandler handles the service status endpoints
type SystemHandler struct {
	ollama       *llm.Ollama
	google       *llm.GoogleAI
	ollamaStatus *llm.Status
	googleStatus *llm.Status
	logger       *zap.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(ollama *llm.Ollama, google *llm.GoogleAI, ollamaStatus, googleStatus *llm.Status, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		ollama:       ollama,
		google:       google,
		ollamaStatus: ollamaStatus,
		googleStatus: googleStatus,
		logger:       logger,
	}
}

// Root returns the service banner with backend availability
func (h *SystemHandler) Root(c *gin.Context) {
	ollama := h.ollamaStatus.Load()
	google := h.googleStatus.Load()

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"service":             serviceName,
		"version":             serviceVersion,
		"ollama_available":    ollama.Available,
		"ollama_url":          h.ollama.BaseURL(),
		"default_model":       h.ollama.DefaultModel(),
		"ollama_error":        errOrNil(ollama),
		"google_ai_available": google.Available,
		"google_ai_error":     errOrNil(google),
	})
}

// Health reports healthy while at least one backend is reachable. The
// response is always 200: availability is advisory, it never gates requests.
func (h *SystemHandler) Health(c *gin.Context) {
	ollama := h.ollamaStatus.Load()
	google := h.googleStatus.Load()

	status := "degraded"
	if ollama.Available || google.Available {
		status = "healthy"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":              status,
		"service":             serviceName,
		"version":             serviceVersion,
		"ollama_available":    ollama.Available,
		"google_ai_available": google.Available,
	})
}

// Reconnect re-probes the local backend on operator demand
func (h *SystemHandler) Reconnect(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	ok := h.ollamaStatus.Update(ctx, h.ollama)
	snap := h.ollamaStatus.Load()

	h.logger.Info("reconnect attempted",
		zap.Bool("success", ok),
		zap.String("ollama_url", h.ollama.BaseURL()),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":          ok,
		"ollama_available": snap.Available,
		"ollama_url":       h.ollama.BaseURL(),
		"error":            errOrNil(snap),
	})
}

// Info describes the service and its endpoint catalogue
func (h *SystemHandler) Info(c *gin.Context) {
	ollama := h.ollamaStatus.Load()
	google := h.googleStatus.Load()

	c.JSON(http.StatusOK, gin.H{
		"service":             "Llama IELTS Scoring Service",
		"version":             serviceVersion,
		"description":         "IELTS speaking scoring using Ollama LLM and Google AI Studio",
		"ollama_available":    ollama.Available,
		"ollama_url":          h.ollama.BaseURL(),
		"default_model":       h.ollama.DefaultModel(),
		"google_ai_available": google.Available,
		"endpoints":           endpointIndex,
	})
}

func errOrNil(snap llm.Snapshot) any {
	if snap.Available || snap.Err == "" {
		return nil
	}
	return snap.Err
}

var endpointIndex = map[string]string{
	"health":    "GET /health",
	"info":      "GET /info",
	"reconnect": "POST /reconnect",

	"v1_score":               "POST /api/score (v1 - Ollama)",
	"v1_chat":                "POST /api/chat (v1 - Ollama)",
	"v1_generate_topics":     "POST /api/generate/topics (v1 - Ollama)",
	"v1_generate_questions":  "POST /api/generate/questions (v1 - Ollama)",
	"v1_generate_answers":    "POST /api/generate/answers (v1 - Ollama)",
	"v1_generate_structures": "POST /api/generate/structures (v1 - Ollama)",
	"v1_generate_vocabulary": "POST /api/generate/vocabulary (v1 - Ollama)",
	"v1_generate":            "POST /api/generate (v1 - Ollama, fallback/playground)",
	"v1_grammar_correct":     "POST /api/grammar/correct (v1 - Ollama)",
	"v1_improve":             "POST /api/improve (v1 - Ollama)",

	"v2_score":               "POST /api/v2/score",
	"v2_chat":                "POST /api/v2/chat",
	"v2_generate_topics":     "POST /api/v2/generate/topics",
	"v2_generate_questions":  "POST /api/v2/generate/questions",
	"v2_generate_answers":    "POST /api/v2/generate/answers",
	"v2_generate_structures": "POST /api/v2/generate/structures",
	"v2_generate_vocabulary": "POST /api/v2/generate/vocabulary",
	"v2_generate":            "POST /api/v2/generate",
	"v2_grammar_correct":     "POST /api/v2/grammar/correct",
	"v2_improve":             "POST /api/v2/improve",
	"v2_list_models":         "GET /api/v2/models",
}
