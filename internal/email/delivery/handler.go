package delivery

import (
	"errors"
	"net/http"
	"strconv"

	emaildomain "mailmate-backend/internal/email/domain"
	emaildto "mailmate-backend/internal/email/dto"
	"mailmate-backend/internal/email/usecase"

	"github.com/gin-gonic/gin"
)

const defaultRecentCount = 5

type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

func (h *EmailHandler) GetRecentEmails(c *gin.Context) {
	userID := c.GetString("userID")

	count := int64(defaultRecentCount)
	if countStr := c.Query("count"); countStr != "" {
		if parsed, err := strconv.ParseInt(countStr, 10, 64); err == nil && parsed > 0 {
			count = parsed
		}
	}

	emails, err := h.emailUsecase.RecentEmails(c.Request.Context(), userID, count)
	if err != nil {
		respondEmailError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailListResponse{Emails: emails})
}

func (h *EmailHandler) DeleteEmail(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.MessageIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.emailUsecase.TrashEmail(c.Request.Context(), userID, req.MessageID); err != nil {
		respondEmailError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "trashed", "message_id": req.MessageID})
}

// GenerateReply always responds 200: AI failures surface as an editable
// fallback draft rather than an error.
func (h *EmailHandler) GenerateReply(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.GenerateReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.emailUsecase.GenerateReply(c.Request.Context(), userID, req.Content, req.Context)
	c.JSON(http.StatusOK, emaildto.GenerateReplyResponse{Reply: reply})
}

func (h *EmailHandler) SendReply(c *gin.Context) {
	userID := c.GetString("userID")

	var req emaildto.SendReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sentID, err := h.emailUsecase.SendReply(c.Request.Context(), userID, req.MessageID, req.ReplyText)
	if err != nil {
		respondEmailError(c, err)
		return
	}

	c.JSON(http.StatusOK, emaildto.SendReplyResponse{Status: "sent", GmailMessageID: sentID})
}

func respondEmailError(c *gin.Context, err error) {
	if errors.Is(err, emaildomain.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no linked Gmail account, sign in with Google first"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
