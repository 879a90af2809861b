package llm

import "strings"

// Chat roles understood by OpenAI compatible gateways.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn of a conversation.
type Message struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"`
}

// NewMessage creates a message with the given role and content.
func NewMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// Valid reports whether the message carries a known role and non-blank
// content.
func (m Message) Valid() bool {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return false
	}
	return strings.TrimSpace(m.Content) != ""
}

// LastUserContent returns the content of the most recent user message, or
// the empty string when there is none.
func LastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
