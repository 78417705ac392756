package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/extract"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"github.com/ngphhnam/ollama/internal/models"
	"github.com/ngphhnam/ollama/internal/prompt"
	"go.uber.org/zap"
)

// ScoreHandler handles IELTS speaking evaluation endpoints
type ScoreHandler struct {
	backend llm.Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewScoreHandler creates a new score handler bound to one backend
func NewScoreHandler(backend llm.Backend, timeout time.Duration, logger *zap.Logger) *ScoreHandler {
	return &ScoreHandler{backend: backend, timeout: timeout, logger: logger}
}

// Score evaluates a speaking transcription and returns the five band scores.
// When the request opts in, a grammar pass runs after scoring and its result
// is embedded; a failed grammar pass degrades to null fields rather than
// failing the whole request.
func (h *ScoreHandler) Score(c *gin.Context) {
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: prompt.ScoringSystem},
		{Role: llm.RoleUser, Content: prompt.Scoring(req.Transcription, req.QuestionText, req.Topic, req.Level)},
	}
	result, ok := h.scoreConversation(c, "llm.score", "", messages)
	if !ok {
		return
	}

	if !req.IncludeGrammarCorrection {
		c.JSON(http.StatusOK, result)
		return
	}

	resp := models.ScoreWithGrammar{ScoreResult: *result}
	grammar, err := h.grammarPass(req)
	if err != nil {
		h.logger.Warn("grammar pass failed, returning score alone",
			zap.Error(err),
			zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		)
	} else {
		resp.GrammarCorrection = grammar
		resp.CorrectedTranscription = &grammar.Corrected
	}
	c.JSON(http.StatusOK, resp)
}

// Chat accepts a chat-shaped scoring request. Conversations that do not
// carry IELTS scoring instructions are treated as a bare transcription and
// rebuilt into the canonical scoring conversation.
func (h *ScoreHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	var userMsg, systemMsg string
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleUser:
			userMsg = m.Content
		case llm.RoleSystem:
			systemMsg = m.Content
		}
	}

	var messages []llm.Message
	if systemMsg == "" || !strings.Contains(systemMsg, "IELTS") {
		messages = []llm.Message{
			{Role: llm.RoleSystem, Content: prompt.ScoringSystem},
			{Role: llm.RoleUser, Content: prompt.Scoring(userMsg, "", "", "")},
		}
	} else {
		for _, m := range req.Messages {
			messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
		}
	}

	result, ok := h.scoreConversation(c, "llm.chat", req.Model, messages)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// scoreConversation runs the conversation, extracts the score object and
// normalizes it. On failure the error response is already written.
func (h *ScoreHandler) scoreConversation(c *gin.Context, op, model string, messages []llm.Message) (*models.ScoreResult, bool) {
	raw, err := chatText(h.backend, h.timeout, op, messages, llm.Options{
		Model:       model,
		Temperature: 0.3,
		MaxTokens:   2048,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return nil, false
	}

	obj, err := extract.Extract(raw)
	if err != nil {
		writeError(c, h.logger, err)
		return nil, false
	}

	result, err := models.Decode[models.ScoreResult](obj, models.ScoreFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return nil, false
	}
	result.Normalize()
	return result, true
}

func (h *ScoreHandler) grammarPass(req models.ScoreRequest) (*models.GrammarResult, error) {
	user := prompt.GrammarCorrection(req.Transcription, req.QuestionText, "")
	obj, err := generateObject(h.backend, h.timeout, "llm.grammar", prompt.GrammarSystem, user, llm.Options{
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return nil, err
	}
	return models.Decode[models.GrammarResult](obj, models.GrammarFields...)
}
