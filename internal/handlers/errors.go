package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ngphhnam/ollama/internal/extract"
	"github.com/ngphhnam/ollama/internal/llm"
	"github.com/ngphhnam/ollama/internal/middleware"
	"github.com/ngphhnam/ollama/internal/models"
	"go.uber.org/zap"
)

// writeError maps errors from the backend call chain onto the HTTP error
// envelope. Binding failures are handled at the call sites.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	requestID := c.GetString(middleware.RequestIDKey)

	var unavailable *llm.UnavailableError
	var notFound *llm.ModelNotFoundError
	var blocked *llm.BlockedError
	var extraction *extract.ExtractionError
	var schema *models.SchemaError

	switch {
	case errors.As(err, &unavailable):
		logger.Warn("backend unavailable",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		middleware.RespondError(c, http.StatusServiceUnavailable, middleware.ErrCodeBackendUnavailable, unavailable.Error())

	case errors.As(err, &notFound):
		middleware.RespondError(c, http.StatusNotFound, middleware.ErrCodeModelNotFound, notFound.Error())

	case errors.As(err, &blocked):
		middleware.RespondError(c, http.StatusBadRequest, middleware.ErrCodePromptBlocked, blocked.Error())

	case errors.As(err, &extraction):
		logger.Warn("unparseable model output",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		middleware.RespondErrorWithDetails(c, http.StatusBadGateway, middleware.ErrCodeUpstreamFormat,
			"model returned no parseable JSON", extraction.Error())

	case errors.As(err, &schema):
		logger.Warn("model output failed schema check",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		middleware.RespondErrorWithDetails(c, http.StatusBadGateway, middleware.ErrCodeSchemaMismatch,
			"model response did not match the expected shape", schema.Error())

	default:
		logger.Error("request failed",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		middleware.InternalError(c, "internal server error")
	}
}
