package llm

import "context"

// Completer generates a chat completion for a pair of system and user prompts.
type Completer interface {
	// Unique model name used for completions
	ModelName() string
	// Complete sends the prompts and returns the raw completion text
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
