package llm

import "context"

// Message is a role-tagged chat entry in provider-neutral form.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM interactions
type Client interface {
	// GenerateResponse runs one chat completion over a system prompt, prior
	// transcript, and the new user message.
	GenerateResponse(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error)

	// SummarizeDocument produces a concise summary of the document text.
	SummarizeDocument(ctx context.Context, documentContent, documentName string) (string, error)

	// ExtractTopics returns the document's key topics, parsed from the
	// model's comma-separated output.
	ExtractTopics(ctx context.Context, documentContent string) ([]string, error)

	GetModelInfo() ModelInfo
}

// ModelInfo contains information about the LLM model
type ModelInfo struct {
	Name                string
	Provider            string
	MaxCompletionTokens int
}

// Config holds configuration for LLM clients
type Config struct {
	Provider            string
	Model               string
	APIKey              string
	MaxCompletionTokens int
	Temperature         float64
	AzureEndpoint       string
	AzureAPIVersion     string
}

// Completion bounds for the enrichment calls.
const (
	summaryMaxTokens      = 500
	topicsMaxTokens       = 200
	enrichmentTemperature = 0.3
	responseTopP          = 0.9
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
