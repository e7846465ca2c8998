package routes

import (
	"docuchat-ai/internal/di"
	"docuchat-ai/internal/middleware"
	"log"

	"github.com/gin-gonic/gin"
)

func SetupDefaultRoutes(router *gin.Engine) {
	// Add recovery middleware
	router.Use(middleware.CustomRecoveryMiddleware())

	healthHandler, err := di.GetHealthHandler()
	if err != nil {
		log.Fatalf("Failed to get health handler: %v", err)
	}

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/services", healthHandler.Services)

	// Setup all route groups
	SetupChatRoutes(router)
	SetupDocumentRoutes(router)
}
