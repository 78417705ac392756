package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/llm"
	"go.uber.org/zap"
)

// ModelsHandler handles the cloud model catalogue endpoint
type ModelsHandler struct {
	google  *llm.GoogleAI
	timeout time.Duration
	logger  *zap.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(google *llm.GoogleAI, timeout time.Duration, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{google: google, timeout: timeout, logger: logger}
}

// List returns the generation-capable cloud models
func (h *ModelsHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	infos, err := h.google.ListModels(ctx)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if infos == nil {
		infos = []llm.ModelInfo{}
	}

	c.JSON(http.StatusOK, gin.H{
		"models":        infos,
		"count":         len(infos),
		"default_model": h.google.DefaultModel(),
	})
}
