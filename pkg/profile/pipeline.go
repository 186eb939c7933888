package profile

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/EternisAI/persona/pkg/ai"
	"github.com/EternisAI/persona/pkg/clustering"
	"github.com/EternisAI/persona/pkg/content"
	"github.com/EternisAI/persona/pkg/vector"
)

type PipelineConfig struct {
	Embedder        ai.Embedder
	Generator       ai.TextGenerator
	EmbeddingModel  string
	CompletionModel string
	Logger          *log.Logger

	// Concurrency bounds parallel cluster summary calls when Options leaves it unset.
	Concurrency int
	// JobTimeout bounds each cluster summary call; zero leaves it to the provider.
	JobTimeout time.Duration
}

// Options tune a single run.
type Options struct {
	Limit       int                // items reaching the embedding stage, default 250
	TypeConfig  content.TypeConfig // partial override of the per-type caps and weights
	Seed        *int64             // pins k-means initialization
	Concurrency int
	Debug       bool // return a Trace
}

// Pipeline runs normalization, selection, embedding, near-duplicate removal,
// clustering, cluster summaries, seed interests and the final synthesis.
// It holds no per-run state and may be shared.
type Pipeline struct {
	embedder        ai.Embedder
	generator       ai.TextGenerator
	embeddingModel  string
	completionModel string
	logger          *log.Logger
	concurrency     int
	jobTimeout      time.Duration
}

func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("text generator is required")
	}
	if cfg.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Pipeline{
		embedder:        cfg.Embedder,
		generator:       cfg.Generator,
		embeddingModel:  cfg.EmbeddingModel,
		completionModel: cfg.CompletionModel,
		logger:          cfg.Logger,
		concurrency:     max(cfg.Concurrency, 1),
		jobTimeout:      cfg.JobTimeout,
	}, nil
}

// Synthesize builds the profile artifact for items. It never returns an
// error: a failed run yields an artifact with Error set. The trace is nil
// unless opts.Debug is set.
func (p *Pipeline) Synthesize(ctx context.Context, items []content.Item, opts Options) (Artifact, *Trace) {
	count := len(items)
	var trace *Trace
	if opts.Debug {
		trace = &Trace{
			RunID:         uuid.NewString(),
			Timestamp:     time.Now().UTC(),
			ItemCount:     count,
			SeedInterests: []string{},
			Clusters:      []ClusterTrace{},
		}
	}

	typeConfig := content.DefaultTypeConfig().Merge(opts.TypeConfig)
	selected, err := p.selectItems(items, typeConfig, opts.Limit)
	if errors.Is(err, ErrEmptyInput) {
		p.logger.Info("No eligible items, returning empty profile", "items", count)
		return emptyArtifact(count), trace
	}
	if trace != nil {
		trace.SelectedCount = len(selected)
	}

	vectors, err := p.embed(ctx, selected)
	if err != nil {
		p.logger.Error("Embedding failed", "items", len(selected), "error", err)
		artifact := emptyArtifact(count)
		artifact.Error = err.Error()
		return artifact, trace
	}

	keep := vector.FilterNearDuplicates(vectors, vector.NearDuplicateThreshold)
	final := lo.Map(keep, func(idx int, _ int) content.Item { return selected[idx] })
	finalVectors := lo.Map(keep, func(idx int, _ int) []float64 { return vectors[idx] })
	p.logger.Debug("Removed near duplicates", "before", len(selected), "after", len(final))

	clusterCfg := clustering.DefaultConfig()
	if opts.Seed != nil {
		clusterCfg.Rand = clustering.NewSeededRand(*opts.Seed)
	}
	k := clustering.ChooseK(len(final), clusterCfg.MaxK)
	clusters := clustering.KMeans(finalVectors, k, clusterCfg)
	p.logger.Info("Clustered items", "items", len(final), "k", k, "clusters", len(clusters))

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = p.concurrency
	}
	outcomes := p.summarizeClusters(ctx, clusters, final, typeConfig, concurrency)
	combined := combinedSummaries(outcomes)

	seeds, seedSource := p.extractSeedInterests(ctx, combined)
	p.logger.Debug("Seed interests", "source", seedSource, "seeds", seeds)

	artifact := p.synthesize(ctx, synthesisInput{
		combined:      combined,
		outcomes:      outcomes,
		seedInterests: seeds,
		items:         final,
		count:         count,
	})

	if trace != nil {
		trace.DedupedCount = len(final)
		trace.K = k
		trace.SeedInterests = seeds
		trace.SeedSource = seedSource
		for i := range clusters[:min(len(clusters), traceMaxClusters)] {
			trace.Clusters = append(trace.Clusters, newClusterTrace(i, clusters[i].Members, clusters[i].Centroid, outcomes[i], final))
		}
	}
	return artifact, trace
}

func (p *Pipeline) selectItems(items []content.Item, cfg content.TypeConfig, limit int) ([]content.Item, error) {
	selected := content.Select(content.Normalize(items), cfg, limit)
	if len(selected) == 0 {
		return nil, ErrEmptyInput
	}
	p.logger.Debug("Selected items", "input", len(items), "selected", len(selected))
	return selected, nil
}

// embed returns one vector per item, all of the same non-zero dimension.
func (p *Pipeline) embed(ctx context.Context, items []content.Item) ([][]float64, error) {
	inputs := lo.Map(items, func(it content.Item, _ int) string { return it.EmbeddingInput() })
	vectors, err := p.embedder.Embeddings(ctx, inputs, p.embeddingModel)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(inputs) {
		return nil, &ai.ProviderError{
			Op:    "embeddings",
			Model: p.embeddingModel,
			Err:   errors.Errorf("expected %d embeddings, got %d", len(inputs), len(vectors)),
		}
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dim {
			return nil, &ai.ProviderError{
				Op:    "embeddings",
				Model: p.embeddingModel,
				Err:   errors.Errorf("embedding %d has dimension %d, expected %d", i, len(v), dim),
			}
		}
	}
	return vectors, nil
}
