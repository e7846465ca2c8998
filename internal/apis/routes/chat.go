package routes

import (
	"docuchat-ai/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupChatRoutes(router *gin.Engine) {
	chatHandler, err := di.GetChatHandler()
	if err != nil {
		log.Fatalf("Failed to get chat handler: %v", err)
	}

	sessions := router.Group("/api/sessions")
	{
		// Session CRUD
		sessions.POST("", chatHandler.Create)
		sessions.GET("", chatHandler.GetSessions) // Has query params "sessionId" and "userId"
		sessions.DELETE("/:id", chatHandler.Delete)
		sessions.POST("/:id/initialize", chatHandler.Initialize)

		// Messages within a session
		sessions.POST("/:id/messages", chatHandler.SaveMessage)

		// Grounded response generation
		sessions.POST("/:id/respond", chatHandler.Respond)
	}
}
