package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a chat completion backend. Callers treat any error as a signal
// to fall back to the local rule-based answerer.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
