package embedcache

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/EternisAI/persona/pkg/ai"
)

var _ ai.Embedder = (*CachedEmbedder)(nil)

// CachedEmbedder serves embeddings from the store and forwards only misses to
// the wrapped embedder. Cache read or write failures are logged and bypassed.
type CachedEmbedder struct {
	next   ai.Embedder
	store  *Store
	logger *log.Logger
}

func NewCachedEmbedder(next ai.Embedder, store *Store, logger *log.Logger) *CachedEmbedder {
	return &CachedEmbedder{next: next, store: store, logger: logger}
}

func (c *CachedEmbedder) Embeddings(ctx context.Context, inputs []string, model string) ([][]float64, error) {
	keys := make([]string, len(inputs))
	for i, input := range inputs {
		keys[i] = Key(model, input)
	}

	cached, err := c.store.Lookup(ctx, keys)
	if err != nil {
		c.logger.Warn("Embedding cache lookup failed", "error", err)
		cached = map[string][]float64{}
	}

	// each distinct missing text is embedded once
	var missTexts []string
	pending := make(map[string]bool)
	for i, key := range keys {
		if _, ok := cached[key]; ok || pending[key] {
			continue
		}
		pending[key] = true
		missTexts = append(missTexts, inputs[i])
	}

	c.logger.Debug("Embedding cache", "inputs", len(inputs), "hits", len(inputs)-len(missTexts), "misses", len(missTexts))

	if len(missTexts) > 0 {
		fresh, err := c.next.Embeddings(ctx, missTexts, model)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missTexts) {
			return nil, &ai.ProviderError{
				Op:    "embeddings",
				Model: model,
				Err:   errors.Errorf("expected %d embeddings, got %d", len(missTexts), len(fresh)),
			}
		}
		for i, text := range missTexts {
			cached[Key(model, text)] = fresh[i]
		}
		if err := c.store.Save(ctx, model, missTexts, fresh); err != nil {
			c.logger.Warn("Embedding cache write failed", "error", err)
		}
	}

	vectors := make([][]float64, len(inputs))
	for i, key := range keys {
		vectors[i] = cached[key]
	}
	return vectors, nil
}
