package ai

import (
	"context"
)

// Embedder turns texts into vectors; the result has one vector per input, in order.
type Embedder interface {
	Embeddings(ctx context.Context, inputs []string, model string) ([][]float64, error)
}

// TextGenerator produces a single free-text completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type GenerateOptions struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}
