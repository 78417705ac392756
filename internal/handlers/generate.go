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

// GenerateHandler handles IELTS content generation endpoints
type GenerateHandler struct {
	backend llm.Backend
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerateHandler creates a new generation handler bound to one backend
func NewGenerateHandler(backend llm.Backend, timeout time.Duration, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{backend: backend, timeout: timeout, logger: logger}
}

// Topics generates speaking topics with related questions
func (h *GenerateHandler) Topics(c *gin.Context) {
	var req models.TopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := req.Prompt
	if user == "" {
		user = prompt.Topics(req.PartNumber, req.DifficultyLevel, req.Count, req.TopicCategory)
	}

	obj, err := generateObject(h.backend, h.timeout, "llm.topics", prompt.System(prompt.TaskTopics), user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.TopicList](obj, models.TopicListFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Questions generates a cue card with sample answer, vocabulary and structures
func (h *GenerateHandler) Questions(c *gin.Context) {
	var req models.QuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := req.Prompt
	if user == "" {
		user = prompt.Questions(req.PartNumber, req.DifficultyLevel, req.Topic)
	}

	obj, err := generateObject(h.backend, h.timeout, "llm.questions", prompt.System(prompt.TaskQuestions), user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   2500,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.QuestionSet](obj, models.QuestionSetFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Answers generates a sample answer for one question
func (h *GenerateHandler) Answers(c *gin.Context) {
	var req models.AnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := prompt.Answers(req.Question, req.PartNumber, req.TargetBand)
	obj, err := generateObject(h.backend, h.timeout, "llm.answers", prompt.AnswersSystem, user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   2500,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	// Models regularly answer with sampleAnswer instead of answer.
	models.NormalizeAnswerAliases(obj)

	result, err := models.Decode[models.AnswerSet](obj, models.AnswerSetFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Structures generates sentence structures fitting one question
func (h *GenerateHandler) Structures(c *gin.Context) {
	var req models.StructuresRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := prompt.Structures(req.Question, req.PartNumber, req.TargetBand, req.Count)
	obj, err := generateObject(h.backend, h.timeout, "llm.structures", prompt.System(prompt.TaskStructures), user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.StructureList](obj, models.StructureListFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Vocabulary generates a vocabulary list fitting one question
func (h *GenerateHandler) Vocabulary(c *gin.Context) {
	var req models.VocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	user := prompt.Vocabulary(req.Question, req.TargetBand, req.Count)
	obj, err := generateObject(h.backend, h.timeout, "llm.vocabulary", prompt.System(prompt.TaskVocabulary), user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	result, err := models.Decode[models.VocabularyList](obj, models.VocabularyListFields...)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Generate is the free-form generation endpoint. The task type selects the
// persona and the extracted object is passed through without schema checks.
func (h *GenerateHandler) Generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationError(c, err.Error())
		return
	}

	system, user := prompt.Build(prompt.ParseTask(req.TaskType), req.Prompt, req.Context, req.Format)

	obj, err := generateObject(h.backend, h.timeout, "llm.generate", system, user, llm.Options{
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, obj)
}
