package dto

import (
	emaildomain "mailmate-backend/internal/email/domain"
)

type MessageIDRequest struct {
	MessageID string `json:"message_id" binding:"required"`
}

type GenerateReplyRequest struct {
	Content string `json:"content" binding:"required"`
	Context string `json:"context"`
}

type SendReplyRequest struct {
	MessageID string `json:"message_id" binding:"required"`
	ReplyText string `json:"reply_text" binding:"required"`
}

type EmailListResponse struct {
	Emails []*emaildomain.EmailSummary `json:"emails"`
}

type GenerateReplyResponse struct {
	Reply string `json:"reply"`
}

type SendReplyResponse struct {
	Status         string `json:"status"`
	GmailMessageID string `json:"gmail_message_id"`
}
