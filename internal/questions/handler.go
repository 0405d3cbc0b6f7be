package questions

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voiceover/backend/internal/store"
	"github.com/voiceover/backend/pkg/response"
)

// CreateRequest is the body for POST /questions.
type CreateRequest struct {
	Text string `json:"text"`
}

// Handler handles question HTTP endpoints.
type Handler struct {
	store  store.Store
	logger *zap.Logger
}

// NewHandler creates a questions handler.
func NewHandler(st store.Store, logger *zap.Logger) *Handler {
	return &Handler{store: st, logger: logger}
}

// List handles GET /questions.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.ListQuestions(c.Request.Context())
	if err != nil {
		h.logger.Error("list questions failed", zap.Error(err))
		response.Internal(c, "failed to list questions")
		return
	}
	response.OK(c, list)
}

// Create handles POST /questions.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "text is required")
		return
	}
	q, err := h.store.CreateQuestion(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			response.BadRequest(c, "text is required")
			return
		}
		h.logger.Error("create question failed", zap.Error(err))
		response.Internal(c, "failed to create question")
		return
	}
	response.OK(c, q)
}
