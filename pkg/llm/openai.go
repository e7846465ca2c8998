package llm

import (
	"context"
	"docuchat-ai/internal/constants"
	"fmt"
	"log"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client              *openai.Client
	model               string
	maxCompletionTokens int
	temperature         float64
}

func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	var clientConfig openai.ClientConfig
	if config.AzureEndpoint != "" {
		// Hosted behind an Azure deployment; the model name doubles as the
		// deployment name.
		clientConfig = openai.DefaultAzureConfig(config.APIKey, config.AzureEndpoint)
		if config.AzureAPIVersion != "" {
			clientConfig.APIVersion = config.AzureAPIVersion
		}
	} else {
		clientConfig = openai.DefaultConfig(config.APIKey)
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAIClient{
		client:              openai.NewClientWithConfig(clientConfig),
		model:               model,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (c *OpenAIClient) GenerateResponse(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    mapRole(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxCompletionTokens,
		Temperature: float32(c.temperature),
		TopP:        responseTopP,
	})
	if err != nil {
		log.Printf("GenerateResponse -> err: %v", err)
		return "", fmt.Errorf("failed to generate AI response: %v", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return constants.EmptyCompletionResponse, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) SummarizeDocument(ctx context.Context, documentContent, documentName string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: constants.SummarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: constants.BuildSummaryUserPrompt(documentName, documentContent)},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: enrichmentTemperature,
	})
	if err != nil {
		log.Printf("SummarizeDocument -> err: %v", err)
		return "", fmt.Errorf("failed to summarize document: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summarization returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) ExtractTopics(ctx context.Context, documentContent string) ([]string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: constants.TopicsSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: constants.BuildTopicsUserPrompt(truncate(documentContent, constants.TopicInputCharLimit))},
		},
		MaxTokens:   topicsMaxTokens,
		Temperature: enrichmentTemperature,
	})
	if err != nil {
		log.Printf("ExtractTopics -> err: %v", err)
		return nil, fmt.Errorf("failed to extract topics: %v", err)
	}

	if len(resp.Choices) == 0 {
		return nil, nil
	}
	return ParseTopicList(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) GetModelInfo() ModelInfo {
	return ModelInfo{
		Name:                c.model,
		Provider:            "openai",
		MaxCompletionTokens: c.maxCompletionTokens,
	}
}
