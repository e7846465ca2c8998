package dtos

import "docuchat-ai/internal/models"

type CreateSessionRequest struct {
	SessionID    string  `json:"sessionId" binding:"required"`
	DocumentName string  `json:"documentName" binding:"required"`
	UserID       *string `json:"userId,omitempty"`
}

type InitializeSessionRequest struct {
	DocumentName string `json:"documentName" binding:"required"`
}

// SaveMessageRequest carries a message to append. The id is optional; the
// server assigns one when absent.
type SaveMessageRequest struct {
	ID        string   `json:"id,omitempty"`
	Content   string   `json:"content" binding:"required"`
	IsUser    bool     `json:"isUser"`
	Citations []string `json:"citations,omitempty"`
}

type SaveMessageResponse struct {
	Saved   bool           `json:"saved"`
	Message models.Message `json:"message"`
}

type RestoreSessionResponse struct {
	Success bool                `json:"success"`
	Session *models.ChatSession `json:"session,omitempty"`
	Error   *string             `json:"error,omitempty"`
}

type SessionListResponse struct {
	Sessions []*models.ChatSession `json:"sessions"`
	Total    int                   `json:"total"`
}

type GenerateResponseRequest struct {
	UserMessage         string           `json:"userMessage" binding:"required"`
	ConversationHistory []models.Message `json:"conversationHistory"`
}

type GenerateResponseResponse struct {
	Success   bool                          `json:"success"`
	Response  string                        `json:"response"`
	Citations []string                      `json:"citations"`
	Sources   []models.DocumentSearchResult `json:"sources"`
}
