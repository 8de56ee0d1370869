package port

import "context"

// ChatMessage is a single message in a chat completion request.
type ChatMessage struct {
	Role    string
	Content string
}

// LLM represents a language model for chat completion.
type LLM interface {
	// Chat runs a chat completion and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
