package constants

const (
	OpenAI = "openai"
	Gemini = "gemini"
)

const (
	OpenAIModel               = "gpt-4o"
	OpenAITemperature         = 0.7
	OpenAIMaxCompletionTokens = 1000
)

const (
	GeminiModel               = "gemini-1.5-flash"
	GeminiTemperature         = 0.7
	GeminiMaxCompletionTokens = 1000
)
