package repository

import "context"

// CompletionOptions carries per-request generation parameters.
type CompletionOptions struct {
	MaxTokens   int
	Temperature float64
}

// AIRepository defines the interface for external completion providers. The
// streaming variant invokes onChunk for each generated fragment in order;
// returning an error from onChunk aborts the stream.
type AIRepository interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
	StreamComplete(ctx context.Context, prompt string, opts CompletionOptions, onChunk func(chunk string) error) error
}
