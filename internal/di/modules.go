package di

import (
	"context"
	"docuchat-ai/config"
	"docuchat-ai/internal/apis/handlers"
	"docuchat-ai/internal/constants"
	"docuchat-ai/internal/repositories"
	"docuchat-ai/internal/services"
	"docuchat-ai/pkg/azsearch"
	"docuchat-ai/pkg/blobstore"
	"docuchat-ai/pkg/llm"
	"docuchat-ai/pkg/mongodb"
	"docuchat-ai/pkg/redis"
	"log"
	"time"

	"go.uber.org/dig"
)

var DiContainer *dig.Container

func Initialize() {
	DiContainer = dig.New()

	// Initialize MongoDB
	dbConfig := mongodb.MongoDbConfigModel{
		ConnectionUrl: config.Env.MongoURI,
		DatabaseName:  config.Env.MongoDatabaseName,
	}
	mongodbClient := mongodb.InitializeDatabaseConnection(dbConfig)

	// Initialize Redis
	redisClient, err := redis.RedisClient(config.Env.RedisHost, config.Env.RedisPort, config.Env.RedisUsername, config.Env.RedisPassword)
	if err != nil {
		log.Fatalf("Failed to initialize Redis client: %v", err)
	}
	cacheRepo := redis.NewCacheRepository(redisClient)

	// Initialize blob storage
	blobClient, err := blobstore.NewClient(blobstore.Config{
		ConnectionString: config.Env.StorageConnectionString,
		ContainerName:    config.Env.StorageContainerName,
	})
	if err != nil {
		log.Fatalf("Failed to initialize blob storage client: %v", err)
	}

	ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := blobClient.EnsureContainer(ensureCtx); err != nil {
		log.Fatalf("Failed to ensure blob container: %v", err)
	}

	// Initialize search client
	searchClient, err := azsearch.NewClient(azsearch.Config{
		Endpoint:   config.Env.SearchEndpoint,
		APIKey:     config.Env.SearchAPIKey,
		IndexName:  config.Env.SearchIndexName,
		APIVersion: config.Env.SearchAPIVersion,
	})
	if err != nil {
		log.Fatalf("Failed to initialize search client: %v", err)
	}

	sessionRepo := repositories.NewSessionRepository(mongodbClient)

	// Provide all dependencies to the container
	if err := DiContainer.Provide(func() *mongodb.MongoDBClient { return mongodbClient }); err != nil {
		log.Fatalf("Failed to provide MongoDB client: %v", err)
	}

	if err := DiContainer.Provide(func() redis.ICacheRepository { return cacheRepo }); err != nil {
		log.Fatalf("Failed to provide cache repository: %v", err)
	}

	if err := DiContainer.Provide(func() *blobstore.Client { return blobClient }); err != nil {
		log.Fatalf("Failed to provide blob storage client: %v", err)
	}

	if err := DiContainer.Provide(func() *azsearch.Client { return searchClient }); err != nil {
		log.Fatalf("Failed to provide search client: %v", err)
	}

	if err := DiContainer.Provide(func() repositories.SessionRepository { return sessionRepo }); err != nil {
		log.Fatalf("Failed to provide session repository: %v", err)
	}

	if err := DiContainer.Provide(func(search *azsearch.Client) services.ContentRetriever {
		return services.NewContentRetriever(search)
	}); err != nil {
		log.Fatalf("Failed to provide content retriever: %v", err)
	}

	// Add LLM Manager
	if err := DiContainer.Provide(func() *llm.Manager {
		manager := llm.NewManager()

		switch config.Env.DefaultLLMClient {
		case constants.OpenAI:
			// Register default OpenAI client
			err := manager.RegisterClient(constants.OpenAI, llm.Config{
				Provider:            constants.OpenAI,
				Model:               config.Env.OpenAIModel,
				APIKey:              config.Env.OpenAIAPIKey,
				MaxCompletionTokens: config.Env.OpenAIMaxCompletionTokens,
				Temperature:         config.Env.OpenAITemperature,
				AzureEndpoint:       config.Env.AzureOpenAIEndpoint,
				AzureAPIVersion:     config.Env.AzureOpenAIAPIVersion,
			})
			if err != nil {
				log.Printf("Warning: Failed to register OpenAI client: %v", err)
			}
		case constants.Gemini:
			// Register default Gemini client
			err := manager.RegisterClient(constants.Gemini, llm.Config{
				Provider:            constants.Gemini,
				Model:               config.Env.GeminiModel,
				APIKey:              config.Env.GeminiAPIKey,
				MaxCompletionTokens: config.Env.GeminiMaxCompletionTokens,
				Temperature:         config.Env.GeminiTemperature,
			})
			if err != nil {
				log.Printf("Warning: Failed to register Gemini client: %v", err)
			}
		}
		return manager
	}); err != nil {
		log.Fatalf("Failed to provide LLM manager: %v", err)
	}

	// Provide services
	if err := DiContainer.Provide(func(
		sessionRepo repositories.SessionRepository,
		retriever services.ContentRetriever,
		llmManager *llm.Manager,
	) services.ChatService {
		llmClient, err := llmManager.GetClient(config.Env.DefaultLLMClient)
		if err != nil {
			log.Printf("Warning: Failed to get default LLM client: %v", err)
		}

		return services.NewChatService(sessionRepo, retriever, llmClient)
	}); err != nil {
		log.Fatalf("Failed to provide chat service: %v", err)
	}

	if err := DiContainer.Provide(func(
		retriever services.ContentRetriever,
		chatService services.ChatService,
		cacheRepo redis.ICacheRepository,
		llmManager *llm.Manager,
	) services.DocumentProcessingService {
		llmClient, err := llmManager.GetClient(config.Env.DefaultLLMClient)
		if err != nil {
			log.Printf("Warning: Failed to get default LLM client: %v", err)
		}

		return services.NewDocumentProcessingService(
			blobClient,
			searchClient,
			retriever,
			llmClient,
			chatService,
			cacheRepo,
			time.Duration(config.Env.IndexerWaitTimeoutMs)*time.Millisecond,
			time.Duration(config.Env.IndexWaitTimeoutMs)*time.Millisecond,
			time.Duration(config.Env.IndexPollIntervalMs)*time.Millisecond,
			time.Duration(config.Env.SummaryCacheTTLHours)*time.Hour,
		)
	}); err != nil {
		log.Fatalf("Failed to provide document processing service: %v", err)
	}

	// Provide handlers
	if err := DiContainer.Provide(func(chatService services.ChatService) *handlers.ChatHandler {
		return handlers.NewChatHandler(chatService)
	}); err != nil {
		log.Fatalf("Failed to provide chat handler: %v", err)
	}

	if err := DiContainer.Provide(func(processingService services.DocumentProcessingService) *handlers.DocumentHandler {
		return handlers.NewDocumentHandler(processingService)
	}); err != nil {
		log.Fatalf("Failed to provide document handler: %v", err)
	}

	if err := DiContainer.Provide(func(mongoClient *mongodb.MongoDBClient, search *azsearch.Client) *handlers.HealthHandler {
		return handlers.NewHealthHandler(mongoClient, search)
	}); err != nil {
		log.Fatalf("Failed to provide health handler: %v", err)
	}
}

// GetChatHandler retrieves the ChatHandler from the DI container
func GetChatHandler() (*handlers.ChatHandler, error) {
	var handler *handlers.ChatHandler
	err := DiContainer.Invoke(func(h *handlers.ChatHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetDocumentHandler retrieves the DocumentHandler from the DI container
func GetDocumentHandler() (*handlers.DocumentHandler, error) {
	var handler *handlers.DocumentHandler
	err := DiContainer.Invoke(func(h *handlers.DocumentHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}

// GetHealthHandler retrieves the HealthHandler from the DI container
func GetHealthHandler() (*handlers.HealthHandler, error) {
	var handler *handlers.HealthHandler
	err := DiContainer.Invoke(func(h *handlers.HealthHandler) {
		handler = h
	})
	if err != nil {
		return nil, err
	}
	return handler, nil
}
