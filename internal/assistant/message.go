package assistant

import (
	"regexp"
	"strings"

	"github.com/codecampus-community/codecampus-backend/internal/models"
)

// codeBlockPattern matches fenced code blocks with an optional language tag.
var codeBlockPattern = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

// SplitMessage segments an assistant reply into prose and fenced code parts
// so the UI can render and copy code blocks separately. A reply without
// fences comes back as a single text part.
func SplitMessage(content string) []models.MessagePart {
	var parts []models.MessagePart
	lastIndex := 0

	for _, match := range codeBlockPattern.FindAllStringSubmatchIndex(content, -1) {
		start, end := match[0], match[1]
		if start > lastIndex {
			parts = append(parts, models.MessagePart{
				Type:    "text",
				Content: content[lastIndex:start],
			})
		}

		language := "javascript"
		if match[2] >= 0 {
			language = content[match[2]:match[3]]
		}
		parts = append(parts, models.MessagePart{
			Type:     "code",
			Language: language,
			Content:  strings.TrimSpace(content[match[4]:match[5]]),
		})
		lastIndex = end
	}

	if lastIndex < len(content) {
		parts = append(parts, models.MessagePart{
			Type:    "text",
			Content: content[lastIndex:],
		})
	}
	if len(parts) == 0 {
		parts = append(parts, models.MessagePart{Type: "text", Content: content})
	}
	return parts
}
