package dto

import (
	assistantdomain "mailmate-backend/internal/assistant/domain"
)

type ChatRequest struct {
	Command string `json:"command" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type HistoryResponse struct {
	History []assistantdomain.ConversationTurn `json:"history"`
}
