package profile

import (
	"context"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/EternisAI/persona/pkg/ai"
	"github.com/EternisAI/persona/pkg/clustering"
	"github.com/EternisAI/persona/pkg/content"
	"github.com/EternisAI/persona/pkg/helpers"
	"github.com/EternisAI/persona/pkg/prompts"
)

var clusterSummaryOptions = ai.GenerateOptions{MaxTokens: 60, Temperature: 0.2}

type clusterOutcome struct {
	Summary ClusterSummary
	Err     error
}

type summaryJob struct {
	index     int
	prompt    string
	generator ai.TextGenerator
	opts      ai.GenerateOptions
}

func (j summaryJob) Process(ctx context.Context) (string, error) {
	return j.generator.Generate(ctx, j.prompt, j.opts)
}

// representatives returns the top scoring members, score being engagement
// times the source type weight. Ties keep member order.
func representatives(members []int, items []content.Item, cfg content.TypeConfig) []content.Item {
	ranked := lo.Map(members, func(idx int, _ int) content.Item { return items[idx] })
	sort.SliceStable(ranked, func(a, b int) bool {
		return score(ranked[a], cfg) > score(ranked[b], cfg)
	})
	return helpers.FirstN(ranked, representativesPerCluster)
}

func score(it content.Item, cfg content.TypeConfig) float64 {
	return it.Engagement * cfg.Weight(it.SourceType)
}

// summarizeClusters asks for one sentence per cluster. Calls fan out over the
// worker pool and land in the slot of their cluster. A failed call leaves an
// empty summary for that cluster and is reported in its outcome.
func (p *Pipeline) summarizeClusters(ctx context.Context, clusters []clustering.Cluster, items []content.Item, cfg content.TypeConfig, concurrency int) []clusterOutcome {
	outcomes := make([]clusterOutcome, len(clusters))
	opts := clusterSummaryOptions
	opts.Model = p.completionModel

	jobs := make([]summaryJob, 0, len(clusters))
	for i, cluster := range clusters {
		reps := representatives(cluster.Members, items, cfg)
		outcomes[i].Summary.Representatives = lo.Map(reps, func(it content.Item, _ int) Representative {
			return representativeFromItem(it)
		})

		prompt, err := prompts.BuildClusterSummaryPrompt(prompts.ClusterSummaryPrompt{
			Items: lo.Map(reps, func(it content.Item, _ int) prompts.ClusterSummaryItem {
				return prompts.ClusterSummaryItem{SourceType: string(it.SourceType), Text: it.Text}
			}),
		})
		if err != nil {
			outcomes[i].Err = err
			continue
		}
		jobs = append(jobs, summaryJob{index: i, prompt: prompt, generator: p.generator, opts: opts})
	}

	pool := helpers.NewWorkerPool[summaryJob, string](concurrency, p.logger)
	for res := range pool.Process(ctx, jobs, p.jobTimeout) {
		slot := &outcomes[res.Job.index]
		if res.Error != nil {
			slot.Err = res.Error
			continue
		}
		slot.Summary.SummaryText = ai.StripThinkingTags(res.Result)
	}

	for i, outcome := range outcomes {
		if outcome.Err != nil {
			p.logger.Warn("Cluster summary failed, continuing with an empty summary",
				"cluster", i, "size", len(clusters[i].Members), "error", outcome.Err)
		}
	}
	return outcomes
}

// combinedSummaries joins the non-empty summaries one per line.
func combinedSummaries(outcomes []clusterOutcome) string {
	texts := lo.FilterMap(outcomes, func(o clusterOutcome, _ int) (string, bool) {
		return o.Summary.SummaryText, o.Summary.SummaryText != ""
	})
	return strings.Join(texts, "\n")
}
