package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/config"
	"github.com/ngphhnam/ollama/internal/handlers"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"github.com/ngphhnam/ollama/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	_ "github.com/ngphhnam/ollama/docs" // Swagger docs
)

const probeTimeout = 5 * time.Second

// @title Llama Service
// @version 2.0.0
// @description IELTS speaking scoring and content generation backed by Ollama and Google AI Studio.
// @host localhost:8000
// @BasePath /api
// @schemes http
func main() {
	ctx := context.Background()

	// Initialize logger with stdout sync
	zapConfig := zap.NewProductionConfig()
	zapConfig.OutputPaths = []string{"stdout"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}
	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Llama service starting...",
		zap.String("version", "2.0.0"),
		zap.String("environment", os.Getenv("GO_ENV")),
	)

	// Initialize telemetry
	shutdownTelemetry, err := telemetry.InitTracer(ctx, "llama-api")
	if err != nil {
		// Log but don't fail, as collector might be down
		logger.Error("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			if err := shutdownTelemetry(ctx); err != nil {
				logger.Error("failed to shutdown telemetry", zap.Error(err))
			}
		}()
	}

	// Load configuration
	cfg := config.Load()

	// Initialize LLM backends
	ollama := llm.NewOllama(llm.OllamaConfig{
		BaseURL:      cfg.OllamaBaseURL,
		DefaultModel: cfg.OllamaModel,
		Timeout:      cfg.OllamaTimeout,
	})
	google, err := llm.NewGoogleAI(ctx, llm.GoogleAIConfig{
		APIKey:         cfg.GoogleAIAPIKey,
		DefaultModel:   cfg.GoogleAIModel,
		FallbackModels: cfg.GoogleAIFallbackModels,
	})
	if err != nil {
		logger.Fatal("failed to initialize google ai client", zap.Error(err))
	}
	defer google.Close()

	// Probe backends once at startup. Failures are advisory: requests are
	// never gated on availability, the status only feeds the system routes.
	var ollamaStatus, googleStatus llm.Status
	probeCtx, cancelProbe := context.WithTimeout(ctx, probeTimeout)
	if ollamaStatus.Update(probeCtx, ollama) {
		logger.Info("ollama reachable", zap.String("url", cfg.OllamaBaseURL), zap.String("model", cfg.OllamaModel))
	} else {
		logger.Warn("ollama unreachable, continuing anyway",
			zap.String("url", cfg.OllamaBaseURL),
			zap.String("error", ollamaStatus.Load().Err),
		)
	}
	if !google.Configured() {
		googleStatus.MarkUnavailable(google.ConfigErr())
		logger.Warn("google ai not configured", zap.String("reason", google.ConfigErr()))
	} else if googleStatus.Update(probeCtx, google) {
		logger.Info("google ai reachable", zap.String("model", google.DefaultModel()))
	} else {
		logger.Warn("google ai unreachable, continuing anyway",
			zap.String("error", googleStatus.Load().Err),
		)
	}
	cancelProbe()

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSAllowOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())

	// Swagger documentation and Prometheus metrics
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Service status routes
	systemHandler := handlers.NewSystemHandler(ollama, google, &ollamaStatus, &googleStatus, logger)
	router.GET("/", systemHandler.Root)
	router.GET("/health", systemHandler.Health)
	router.GET("/info", systemHandler.Info)
	router.POST("/reconnect", systemHandler.Reconnect)

	// API v1 routes (Ollama)
	v1 := router.Group("/api")
	registerAPI(v1,
		handlers.NewScoreHandler(ollama, cfg.OllamaTimeout, logger),
		handlers.NewGenerateHandler(ollama, cfg.OllamaTimeout, logger),
		handlers.NewReviseHandler(ollama, cfg.OllamaTimeout, logger),
	)

	// API v2 routes (Google AI Studio)
	v2 := router.Group("/api/v2")
	registerAPI(v2,
		handlers.NewScoreHandler(google, cfg.GoogleAITimeout, logger),
		handlers.NewGenerateHandler(google, cfg.GoogleAITimeout, logger),
		handlers.NewReviseHandler(google, cfg.GoogleAITimeout, logger),
	)
	modelsHandler := handlers.NewModelsHandler(google, cfg.GoogleAITimeout, logger)
	v2.GET("/models", modelsHandler.List)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

// registerAPI mounts the shared endpoint set on one versioned group. Both
// API versions expose the same routes, differing only in the backend the
// handlers were built with.
func registerAPI(g *gin.RouterGroup, score *handlers.ScoreHandler, gen *handlers.GenerateHandler, rev *handlers.ReviseHandler) {
	g.POST("/score", score.Score)
	g.POST("/chat", score.Chat)

	generate := g.Group("/generate")
	{
		generate.POST("/topics", gen.Topics)
		generate.POST("/questions", gen.Questions)
		generate.POST("/answers", gen.Answers)
		generate.POST("/structures", gen.Structures)
		generate.POST("/vocabulary", gen.Vocabulary)
	}
	g.POST("/generate", gen.Generate)

	g.POST("/grammar/correct", rev.CorrectGrammar)
	g.POST("/improve", rev.Improve)
}
