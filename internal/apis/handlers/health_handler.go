package handlers

import (
	"context"
	"docuchat-ai/config"
	"docuchat-ai/internal/apis/dtos"
	"docuchat-ai/pkg/mongodb"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SearchProbe is the slice of the search client the health check consumes.
type SearchProbe interface {
	DocumentCount(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	mongoClient *mongodb.MongoDBClient
	search      SearchProbe
}

func NewHealthHandler(mongoClient *mongodb.MongoDBClient, search SearchProbe) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		search:      search,
	}
}

// @Summary Health check
// @Description Liveness probe
// @Produce json

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dtos.Response{
		Success: true,
		Data:    "Server is healthy!",
	})
}

// @Summary Service health
// @Description Per-dependency health status
// @Produce json

func (h *HealthHandler) Services(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().Format(time.RFC3339)
	statuses := map[string]dtos.ServiceHealth{
		"mongodb": h.checkMongo(ctx, now),
		"search":  h.checkSearch(ctx, now),
		"storage": checkConfigured("storage connection string", config.Env.StorageConnectionString != "", now),
		"llm":     checkConfigured("LLM API key", config.Env.OpenAIAPIKey != "" || config.Env.GeminiAPIKey != "", now),
	}

	healthy := true
	for _, status := range statuses {
		if status.Status != "up" {
			healthy = false
			break
		}
	}

	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, dtos.Response{
		Success: healthy,
		Data:    statuses,
	})
}

func (h *HealthHandler) checkMongo(ctx context.Context, now string) dtos.ServiceHealth {
	if err := h.mongoClient.Ping(ctx); err != nil {
		return dtos.ServiceHealth{Status: "down", Message: err.Error(), Timestamp: now}
	}
	return dtos.ServiceHealth{Status: "up", Message: "connected", Timestamp: now}
}

func (h *HealthHandler) checkSearch(ctx context.Context, now string) dtos.ServiceHealth {
	if _, err := h.search.DocumentCount(ctx); err != nil {
		return dtos.ServiceHealth{Status: "down", Message: err.Error(), Timestamp: now}
	}
	return dtos.ServiceHealth{Status: "up", Message: "reachable", Timestamp: now}
}

func checkConfigured(name string, configured bool, now string) dtos.ServiceHealth {
	if !configured {
		return dtos.ServiceHealth{Status: "down", Message: name + " not configured", Timestamp: now}
	}
	return dtos.ServiceHealth{Status: "up", Message: "configured", Timestamp: now}
}
