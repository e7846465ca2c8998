package constants

import "fmt"

// Server-generated message id prefixes. Ids are suffixed with a uuid so
// repeated pipeline runs never collide.
const (
	WelcomeMessageIDPrefix    = "welcome"
	SummaryMessageIDPrefix    = "summary"
	TopicsMessageIDPrefix     = "topics"
	RenumberedMessageIDPrefix = "renumbered"
)

const (
	// SummaryMessagePrefix marks the summary system message inside a session's
	// message list; summary lookup scans for it.
	SummaryMessagePrefix = "Document Summary: "

	// FallbackResponse is the canned chat reply the boundary layer serves when
	// the responder reports no content or an upstream failure.
	FallbackResponse = "I apologize, but I'm having trouble accessing the document content right now. Please try again or ask a different question."

	// FallbackSummary is returned when summarization fails; the pipeline never
	// treats a failed summary as a pipeline failure.
	FallbackSummary = "Unable to generate summary."

	// EmptyCompletionResponse is returned when the model call succeeds but
	// yields no content.
	EmptyCompletionResponse = "I apologize, but I could not generate a response at this time."
)

// WelcomeMessageContent builds the assistant greeting appended when a session
// is first initialized for a document.
func WelcomeMessageContent(documentName string) string {
	return fmt.Sprintf("Hello! I've analyzed %q and I'm ready to help you understand its content. You can ask me questions, request summaries, or explore specific topics within the document.", documentName)
}

// SummaryMessageContent builds the system message holding the document summary.
func SummaryMessageContent(documentName, summary string) string {
	return fmt.Sprintf("%s%s\n\n%s", SummaryMessagePrefix, documentName, summary)
}

// TopicsMessageContent builds the system message holding the extracted topics.
func TopicsMessageContent(documentName string, topics []string) string {
	content := fmt.Sprintf("Key Topics in %s: ", documentName)
	for i, topic := range topics {
		if i > 0 {
			content += ", "
		}
		content += topic
	}
	return content
}
