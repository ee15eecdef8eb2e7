package chat

import (
	"fmt"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation (immutable value object).
type Message struct {
	role    Role
	content string
}

// NewMessage validates and creates a message.
func NewMessage(role Role, content string) (Message, error) {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
	default:
		return Message{}, fmt.Errorf("unknown role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return Message{}, fmt.Errorf("message content is required")
	}
	return Message{role: role, content: content}, nil
}

// Reconstruct creates a message without validation.
func Reconstruct(role Role, content string) Message {
	return Message{role: role, content: content}
}

// Role returns the message author role.
func (m Message) Role() Role { return m.role }

// Content returns the message text.
func (m Message) Content() string { return m.content }

// Reply is the assistant completion returned by an LLM provider.
type Reply struct {
	content          string
	model            string
	promptTokens     int
	completionTokens int
}

// NewReply creates a completion reply.
func NewReply(content, model string, promptTokens, completionTokens int) Reply {
	return Reply{
		content:          content,
		model:            model,
		promptTokens:     promptTokens,
		completionTokens: completionTokens,
	}
}

// Content returns the assistant text.
func (r Reply) Content() string { return r.content }

// Model returns the model that produced the reply.
func (r Reply) Model() string { return r.model }

// PromptTokens returns the prompt token count.
func (r Reply) PromptTokens() int { return r.promptTokens }

// CompletionTokens returns the completion token count.
func (r Reply) CompletionTokens() int { return r.completionTokens }
