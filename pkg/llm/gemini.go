package llm

import (
	"context"
	"docuchat-ai/internal/constants"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client              *genai.Client
	model               string
	maxCompletionTokens int
	temperature         float64
}

func NewGeminiClient(config Config) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	// Create the Gemini SDK client using the provided API key.
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &GeminiClient{
		client:              client,
		model:               config.Model,
		maxCompletionTokens: config.MaxCompletionTokens,
		temperature:         config.Temperature,
	}, nil
}

func (c *GeminiClient) GenerateResponse(ctx context.Context, systemPrompt string, history []Message, userMessage string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	model := c.newModel(systemPrompt, float32(c.temperature), int32(c.maxCompletionTokens))

	chat := model.StartChat()
	chat.History = make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		role := "user"
		if mapRole(msg.Role) == RoleAssistant {
			role = "model"
		}
		chat.History = append(chat.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := chat.SendMessage(ctx, genai.Text(userMessage))
	if err != nil {
		log.Printf("GenerateResponse -> err: %v", err)
		return "", fmt.Errorf("failed to generate AI response: %v", err)
	}

	content := responseText(resp)
	if content == "" {
		return constants.EmptyCompletionResponse, nil
	}
	return content, nil
}

func (c *GeminiClient) SummarizeDocument(ctx context.Context, documentContent, documentName string) (string, error) {
	model := c.newModel(constants.SummarySystemPrompt, enrichmentTemperature, summaryMaxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(constants.BuildSummaryUserPrompt(documentName, documentContent)))
	if err != nil {
		log.Printf("SummarizeDocument -> err: %v", err)
		return "", fmt.Errorf("failed to summarize document: %v", err)
	}

	content := responseText(resp)
	if content == "" {
		return "", fmt.Errorf("summarization returned no content")
	}
	return content, nil
}

func (c *GeminiClient) ExtractTopics(ctx context.Context, documentContent string) ([]string, error) {
	model := c.newModel(constants.TopicsSystemPrompt, enrichmentTemperature, topicsMaxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(constants.BuildTopicsUserPrompt(truncate(documentContent, constants.TopicInputCharLimit))))
	if err != nil {
		log.Printf("ExtractTopics -> err: %v", err)
		return nil, fmt.Errorf("failed to extract topics: %v", err)
	}

	return ParseTopicList(responseText(resp)), nil
}

func (c *GeminiClient) GetModelInfo() ModelInfo {
	return ModelInfo{
		Name:                c.model,
		Provider:            "gemini",
		MaxCompletionTokens: c.maxCompletionTokens,
	}
}

func (c *GeminiClient) newModel(systemPrompt string, temperature float32, maxTokens int32) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxTokens)
	return model
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	content := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}
	return content
}
