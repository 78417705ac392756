package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"github.com/ngphhnam/ollama/internal/models"
	"github.com/ngphhnam/ollama/internal/prompt"
	"go.uber.org/zap"
)

// ReviseHandler handles grammar correction and transcription improvement
type ReviseHandler struct {
	backend llm.Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewReviseHandler creates a new revision handler bound to one backend
func NewReviseHandler(backend llm.Backend, timeout time.Duration, logger *zap.Logger) *ReviseHandler {
	return &ReviseHandler{backend: backend, timeout: timeout, logger: logger}
}

// CorrectGrammar corrects a transcription and itemizes the fixes
func (h *ReviseHandler) CorrectGrammar(c *gin.Context) {
	var req models.GrammarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := prompt.GrammarCorrection(req.Transcription, req.TextQuestion, req.Language)
	obj, err := generateObject(h.backend, h.timeout, "llm.grammar", prompt.GrammarSystem, user, llm.Options{
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.GrammarResult](obj, models.GrammarFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Improve rewrites a full transcription at a higher level, returning the
// itemized improvements plus vocabulary and structure suggestions
func (h *ReviseHandler) Improve(c *gin.Context) {
	var req models.ImproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := prompt.Improve(req.Transcription, req.QuestionText, req.Language)
	obj, err := generateObject(h.backend, h.timeout, "llm.improve", prompt.ImproveSystem, user, llm.Options{
		Temperature: 0.3,
		MaxTokens:   improveTokenBudget(req.Transcription),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.ImproveResult](obj, models.ImproveFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if err := result.Validate(); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// improveTokenBudget sizes the completion budget to the transcription. A
// full rewrite of a long recording needs far more room than the shared
// defaults allow.
func improveTokenBudget(transcription string) int32 {
	estimated := int(float64(len(transcription))*1.5) + 1000
	if estimated < 2500 {
		estimated = 2500
	}
	if estimated > 8000 {
		estimated = 8000
	}
	return int32(estimated)
}
