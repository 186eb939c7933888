package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/EternisAI/persona/pkg/ai"
)

var (
	_ ai.Embedder      = (*MockEmbedder)(nil)
	_ ai.TextGenerator = (*MockGenerator)(nil)
)

type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embeddings(ctx context.Context, inputs []string, model string) ([][]float64, error) {
	args := m.Called(ctx, inputs, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	vectors, _ := args.Get(0).([][]float64)
	return vectors, args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}
