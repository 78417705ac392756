// Package llm abstracts the two chat-completion providers behind one
// interface: a local Ollama server and Google AI Studio. Handlers pick a
// backend per API version and stay provider-agnostic.
package llm

import "context"

// Message is one turn of a chat exchange.
type Message struct {
	Role    string
	Content string
}

// Roles understood by both backends.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Options tune a single call. An empty Model means the backend's configured
// default.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Backend is a chat-completion provider.
type Backend interface {
	// Name identifies the backend in logs, errors, and status payloads.
	Name() string
	// Chat sends the conversation and returns the raw reply text.
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
	// Probe checks reachability without generating anything.
	Probe(ctx context.Context) error
}

// Generate is the single-prompt form every generation endpoint uses: a
// system persona plus one user prompt, with the JSON-only reminder appended
// to the persona.
func Generate(ctx context.Context, b Backend, system, user string, opts Options) (string, error) {
	messages := []Message{
		{Role: RoleSystem, Content: system + " Return valid JSON only."},
		{Role: RoleUser, Content: user},
	}
	return b.Chat(ctx, messages, opts)
}
