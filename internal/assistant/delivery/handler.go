package delivery

import (
	"errors"
	"net/http"

	assistantdto "mailmate-backend/internal/assistant/dto"
	"mailmate-backend/internal/assistant/usecase"
	emaildomain "mailmate-backend/internal/email/domain"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	assistantUsecase usecase.AssistantUsecase
}

func NewAssistantHandler(assistantUsecase usecase.AssistantUsecase) *AssistantHandler {
	return &AssistantHandler{
		assistantUsecase: assistantUsecase,
	}
}

// Chat runs one command through the interpreter. Mailbox trouble comes back
// as a conversational reply, so the only error responses here are bad input
// and a missing Gmail link.
func (h *AssistantHandler) Chat(c *gin.Context) {
	userID := c.GetString("userID")

	var req assistantdto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.assistantUsecase.ProcessCommand(c.Request.Context(), userID, req.Command)
	if err != nil {
		if errors.Is(err, emaildomain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no linked Gmail account, sign in with Google first"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assistantdto.ChatResponse{Reply: reply})
}

func (h *AssistantHandler) History(c *gin.Context) {
	userID := c.GetString("userID")

	history := h.assistantUsecase.History(userID)
	c.JSON(http.StatusOK, assistantdto.HistoryResponse{History: history})
}

func (h *AssistantHandler) Reset(c *gin.Context) {
	userID := c.GetString("userID")

	h.assistantUsecase.Reset(userID)
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
