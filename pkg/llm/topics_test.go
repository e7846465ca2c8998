package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseTopicList(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "simple comma separated",
			raw:      "climate, energy, policy",
			expected: []string{"climate", "energy", "policy"},
		},
		{
			name:     "extra whitespace and empty entries",
			raw:      "a, b , , c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "single topic",
			raw:      "finance",
			expected: []string{"finance"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: []string{},
		},
		{
			name:     "only separators",
			raw:      ", , ,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTopicList(tt.raw))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("", 10))
}

func TestTruncateKeepsMultiByteRunesIntact(t *testing.T) {
	truncated := truncate(strings.Repeat("é", 10), 11)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, strings.Repeat("é", 10), truncated)

	truncated = truncate("日本語のテキスト", 4)
	assert.True(t, utf8.ValidString(truncated))
	assert.Equal(t, "日本語の", truncated)
}
