package models

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the assistant conversation log.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagePart is a segment of an assistant reply after fenced code blocks
// have been split out of the prose for separate rendering.
type MessagePart struct {
	Type     string `json:"type"` // "text" or "code"
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}
