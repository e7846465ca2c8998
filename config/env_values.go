package config

import (
	"docuchat-ai/internal/apperrors"
	"docuchat-ai/internal/constants"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Database configs
	MongoURI          string
	MongoDatabaseName string

	// Redis configs
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	// Blob storage configs
	StorageConnectionString string
	StorageContainerName    string

	// Search configs
	SearchEndpoint   string
	SearchAPIKey     string
	SearchIndexName  string
	SearchAPIVersion string

	// Pipeline configs
	IndexWaitTimeoutMs   int
	IndexPollIntervalMs  int
	IndexerWaitTimeoutMs int
	SummaryCacheTTLHours int

	// LLM configs
	DefaultLLMClient string

	// OpenAI configs
	OpenAIAPIKey              string
	OpenAIModel               string
	OpenAIMaxCompletionTokens int
	OpenAITemperature         float64
	AzureOpenAIEndpoint       string
	AzureOpenAIAPIVersion     string

	// Gemini configs
	GeminiAPIKey              string
	GeminiModel               string
	GeminiMaxCompletionTokens int
	GeminiTemperature         float64
}

var Env Environment

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:3001")

	// Database configs
	Env.MongoURI = getEnvWithDefault("DOCUCHAT_MONGODB_URI", "mongodb://localhost:27017/docu-chat")
	Env.MongoDatabaseName = getEnvWithDefault("DOCUCHAT_MONGODB_NAME", "docu-chat")

	// Redis configs
	Env.RedisHost = getEnvWithDefault("DOCUCHAT_REDIS_HOST", "localhost")
	Env.RedisPort = getEnvWithDefault("DOCUCHAT_REDIS_PORT", "6379")
	Env.RedisUsername = getEnvWithDefault("DOCUCHAT_REDIS_USERNAME", "")
	Env.RedisPassword = getEnvWithDefault("DOCUCHAT_REDIS_PASSWORD", "")

	// Blob storage configs
	Env.StorageConnectionString = os.Getenv("AZURE_STORAGE_BLOB_CONNECTION_STRING")
	Env.StorageContainerName = getEnvWithDefault("AZURE_STORAGE_BLOB_CONTAINER_NAME", "documents")

	// Search configs
	Env.SearchEndpoint = os.Getenv("AZURE_SEARCH_ENDPOINT")
	Env.SearchAPIKey = os.Getenv("AZURE_SEARCH_API_KEY")
	Env.SearchIndexName = getEnvWithDefault("AZURE_SEARCH_INDEX_NAME", "azureblob-index")
	Env.SearchAPIVersion = getEnvWithDefault("AZURE_SEARCH_API_VERSION", "2023-11-01")

	// Pipeline configs
	Env.IndexWaitTimeoutMs = getIntEnvWithDefault("INDEX_WAIT_TIMEOUT_MS", constants.DefaultIndexWaitTimeoutMs)
	Env.IndexPollIntervalMs = getIntEnvWithDefault("INDEX_POLL_INTERVAL_MS", constants.DefaultIndexPollIntervalMs)
	Env.IndexerWaitTimeoutMs = getIntEnvWithDefault("INDEXER_WAIT_TIMEOUT_MS", constants.DefaultIndexerWaitTimeoutMs)
	Env.SummaryCacheTTLHours = getIntEnvWithDefault("SUMMARY_CACHE_TTL_HOURS", 24)

	// LLM configs
	Env.DefaultLLMClient = getEnvWithDefault("DEFAULT_LLM_CLIENT", constants.OpenAI)

	// OpenAI configs
	Env.OpenAIAPIKey = os.Getenv("AZURE_OPENAI_API_KEY")
	Env.OpenAIModel = getEnvWithDefault("AZURE_OPENAI_DEPLOYMENT_NAME", constants.OpenAIModel)
	Env.OpenAIMaxCompletionTokens = getIntEnvWithDefault("OPENAI_MAX_COMPLETION_TOKENS", constants.OpenAIMaxCompletionTokens)
	Env.OpenAITemperature = getFloatEnvWithDefault("OPENAI_TEMPERATURE", constants.OpenAITemperature)
	Env.AzureOpenAIEndpoint = os.Getenv("AZURE_OPENAI_ENDPOINT")
	Env.AzureOpenAIAPIVersion = getEnvWithDefault("AZURE_OPENAI_API_VERSION", "2024-02-15-preview")

	// Gemini configs
	Env.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	Env.GeminiModel = getEnvWithDefault("GEMINI_MODEL", constants.GeminiModel)
	Env.GeminiMaxCompletionTokens = getIntEnvWithDefault("GEMINI_MAX_COMPLETION_TOKENS", constants.GeminiMaxCompletionTokens)
	Env.GeminiTemperature = getFloatEnvWithDefault("GEMINI_TEMPERATURE", constants.GeminiTemperature)

	return validateConfig()
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %f\n", key, defaultValue)
		return defaultValue
	}
	return value
}

// validateConfig fails fast on missing vendor credentials. The process cannot
// serve uploads or chat turns without them.
func validateConfig() error {
	if Env.StorageConnectionString == "" {
		return fmt.Errorf("%w: AZURE_STORAGE_BLOB_CONNECTION_STRING is not set", apperrors.ErrConfiguration)
	}

	if Env.StorageContainerName == "" {
		return fmt.Errorf("%w: AZURE_STORAGE_BLOB_CONTAINER_NAME is not set", apperrors.ErrConfiguration)
	}

	if Env.SearchEndpoint == "" || Env.SearchAPIKey == "" {
		return fmt.Errorf("%w: AZURE_SEARCH_ENDPOINT and AZURE_SEARCH_API_KEY must be set", apperrors.ErrConfiguration)
	}

	if !isValidURI(Env.MongoURI) {
		return fmt.Errorf("%w: invalid DOCUCHAT_MONGODB_URI format: %s", apperrors.ErrConfiguration, Env.MongoURI)
	}

	if Env.IndexWaitTimeoutMs <= 0 || Env.IndexPollIntervalMs <= 0 {
		return fmt.Errorf("%w: index wait timeout and poll interval must be positive", apperrors.ErrConfiguration)
	}

	return nil
}

func isValidURI(uri string) bool {
	return len(uri) > 10
}
