package handlers

import (
	"github.com/gin-gonic/gin"

	"school-clinic-server/internal/chatbot"
	"school-clinic-server/internal/middleware"
	"school-clinic-server/internal/utils"
)

// ChatHandler exposes the conversational booking pipeline.
type ChatHandler struct {
	Pipeline *chatbot.Pipeline
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(pipeline *chatbot.Pipeline) *ChatHandler {
	return &ChatHandler{Pipeline: pipeline}
}

// ChatRequest represents one chat turn: the new message plus the caller-held
// conversation history.
type ChatRequest struct {
	Message string                 `json:"message" binding:"required"`
	History []chatbot.HistoryEntry `json:"history"`
}

// Chat handles a conversational booking turn.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	reply, err := h.Pipeline.Respond(c.Request.Context(),
		chatbot.Caller{ID: principal.UserID, FullName: principal.FullName},
		req.Message, req.History)
	if err != nil {
		utils.InternalServerError(c, "Failed to process chat: "+err.Error())
		return
	}

	c.JSON(200, reply)
}
