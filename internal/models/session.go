package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a single chat entry. Field names round-trip bit-exact through
// persistence, so bson tags stay camelCase to match stored documents.
type Message struct {
	ID        string    `bson:"id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	IsUser    bool      `bson:"isUser" json:"isUser"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Citations []string  `bson:"citations,omitempty" json:"citations,omitempty"`
}

// ChatSession bundles a document name and its append-only message history,
// keyed by an opaque, externally generated session id.
type ChatSession struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	SessionID    string             `bson:"sessionId" json:"sessionId"`
	DocumentName string             `bson:"documentName" json:"documentName"`
	Messages     []Message          `bson:"messages" json:"messages"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	UserID       *string            `bson:"userId,omitempty" json:"userId,omitempty"`
}

func NewChatSession(sessionID, documentName string, userID *string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		SessionID:    sessionID,
		DocumentName: documentName,
		Messages:     []Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
		UserID:       userID,
	}
}
