package responses

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/store"
	"github.com/voiceover/backend/pkg/response"
)

// Handler handles response HTTP endpoints.
type Handler struct {
	service *Service
	store   store.Store
	logger  *zap.Logger
}

// NewHandler creates a responses handler.
func NewHandler(service *Service, st store.Store, logger *zap.Logger) *Handler {
	return &Handler{service: service, store: st, logger: logger}
}

// Submit handles POST /responses (multipart: questionId field, audio file).
func (h *Handler) Submit(c *gin.Context) {
	questionIDRaw := c.PostForm("questionId")
	if questionIDRaw == "" {
		response.BadRequest(c, "questionId is required")
		return
	}
	questionID, err := strconv.ParseInt(questionIDRaw, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid questionId")
		return
	}
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		response.BadRequest(c, "audio file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read audio file")
		return
	}
	defer file.Close()

	resp, err := h.service.Submit(
		c.Request.Context(),
		questionID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		h.logger.Error("submit response failed", zap.Int64("question_id", questionID), zap.Error(err))
		response.Internal(c, "failed to save response")
		return
	}
	response.OK(c, resp)
}

// ListByQuestion handles GET /responses/:questionId. An unknown question id
// yields an empty list, not an error.
func (h *Handler) ListByQuestion(c *gin.Context) {
	questionID, err := strconv.ParseInt(c.Param("questionId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid question id")
		return
	}
	list, err := h.store.ListResponses(c.Request.Context(), questionID)
	if err != nil {
		h.logger.Error("list responses failed", zap.Int64("question_id", questionID), zap.Error(err))
		response.Internal(c, "failed to list responses")
		return
	}
	response.OK(c, list)
}
