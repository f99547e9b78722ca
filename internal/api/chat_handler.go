package api

import (
	"alcyxob/workout-buddy/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// Chat forwards a free-form prompt to the model and returns its answer.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	answer, err := h.chatService.Ask(c.Request.Context(), req.Prompt)
	if err != nil {
		if errors.Is(err, service.ErrUpstream) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Error communicating with the model."})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": answer})
}
