package routes

import (
	"docuchat-ai/internal/di"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupDocumentRoutes(router *gin.Engine) {
	documentHandler, err := di.GetDocumentHandler()
	if err != nil {
		log.Fatalf("Failed to get document handler: %v", err)
	}

	documents := router.Group("/api/documents")
	{
		documents.POST("/upload", documentHandler.Upload)
		documents.GET("/summary", documentHandler.GetSummary) // Has query param "sessionId"
	}
}
