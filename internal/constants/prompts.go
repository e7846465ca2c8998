package constants

import "fmt"

// System prompts for the hosted model. The contextual prompt pins the model to
// the retrieved document content; it must not answer from outside it.
const (
	SummarySystemPrompt = "You are a helpful assistant that creates concise, informative summaries of documents. Focus on key points, main topics, and important details."

	TopicsSystemPrompt = "Extract the main topics and themes from the given document. Return them as a comma-separated list of key topics."

	contextualSystemPromptFormat = `You are an intelligent document assistant. You have access to the following document content:

%s

Your role is to:
1. Answer questions about the document content accurately and comprehensively
2. Provide relevant citations and page references when possible
3. Help users understand and analyze the document
4. Offer insights and explanations based on the document content
5. If a question cannot be answered from the document, clearly state that

Always be helpful, accurate, and cite specific sections of the document when relevant. If you're unsure about something, acknowledge the uncertainty rather than guessing.`
)

// BuildContextualSystemPrompt embeds the retrieved passages into the
// document-assistant system prompt.
func BuildContextualSystemPrompt(contextText string) string {
	return fmt.Sprintf(contextualSystemPromptFormat, contextText)
}

// BuildSummaryUserPrompt builds the user-turn prompt for document summarization.
func BuildSummaryUserPrompt(documentName, documentContent string) string {
	return fmt.Sprintf("Please provide a comprehensive summary of the following document titled %q:\n\n%s", documentName, documentContent)
}

// BuildTopicsUserPrompt builds the user-turn prompt for topic extraction.
func BuildTopicsUserPrompt(documentContent string) string {
	return fmt.Sprintf("Extract key topics from this document:\n\n%s", documentContent)
}
