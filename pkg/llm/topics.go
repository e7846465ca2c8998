package llm

import "strings"

// ParseTopicList splits a comma-separated model output into topics, trimming
// whitespace and dropping empty entries.
func ParseTopicList(raw string) []string {
	parts := strings.Split(raw, ",")
	topics := make([]string, 0, len(parts))
	for _, part := range parts {
		topic := strings.TrimSpace(part)
		if topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}

// truncate bounds document text to respect model context limits. The limit
// counts characters, so a cut never lands mid-rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
