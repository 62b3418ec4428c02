package nlquery

import (
	"context"
)

// Role is the speaker of a conversation turn.
type Role string

const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
)

// Message is one turn sent to a language model.
type Message struct {
	Role    Role
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// LanguageModel generates a text completion for an ordered list of turns.
// Implementations are stateless between calls.
type LanguageModel interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// SQLStatement is model-produced SQL text. It is opaque to the pipeline.
type SQLStatement string

func (s SQLStatement) String() string {
	return string(s)
}

