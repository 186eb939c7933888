package profile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/EternisAI/persona/pkg/ai"
	"github.com/EternisAI/persona/pkg/content"
	"github.com/EternisAI/persona/pkg/jsonrepair"
	"github.com/EternisAI/persona/pkg/prompts"
)

var finalSynthesisOptions = ai.GenerateOptions{MaxTokens: 220, Temperature: 0.2}

type synthesisInput struct {
	combined      string
	outcomes      []clusterOutcome
	seedInterests []string
	items         []content.Item
	count         int
}

// synthesize requests the final profile and decodes it strictly, then after
// repair, and finally assembles a deterministic fallback from the cluster
// summaries. It never fails: problems end up in Artifact.Error.
func (p *Pipeline) synthesize(ctx context.Context, in synthesisInput) Artifact {
	prompt, err := prompts.BuildFinalSynthesisPrompt(prompts.FinalSynthesisPrompt{
		Summaries:    in.combined,
		Count:        in.count,
		MaxInterests: MaxInterests,
	})
	if err != nil {
		return p.fallback(in, "", errors.Wrap(err, "failed to build final synthesis prompt"))
	}

	opts := finalSynthesisOptions
	opts.Model = p.completionModel
	raw, err := p.generator.Generate(ctx, prompt, opts)
	if err != nil {
		p.logger.Warn("Final synthesis call failed, using fallback", "error", err)
		return p.fallback(in, "", err)
	}

	parsed, err := decodeSynthesis(raw)
	if err != nil {
		p.logger.Debug("Strict parse failed, repairing", "error", err)
		parsed, err = decodeSynthesis(jsonrepair.Repair(raw))
	}
	if err != nil {
		p.logger.Warn("Final synthesis output unparseable, using fallback", "error", err)
		return p.fallback(in, raw, &ParseError{Stage: "final_synthesis", Raw: raw, Err: err})
	}

	artifact := emptyArtifact(in.count)
	artifact.PersonalSummary = strings.TrimSpace(cast.ToString(parsed["personalSummary"]))
	artifact.PersonalInterests = interestsFrom(parsed["personalInterests"])
	artifact.SeedInterests = in.seedInterests
	artifact.Evidence = evidenceFrom(parsed["evidence"])
	if provenance, ok := parsed["provenance"].(map[string]any); ok {
		artifact.Provenance = provenance
	}
	artifact.RawFinalText = raw
	return artifact
}

// decodeSynthesis parses the first JSON object in raw.
func decodeSynthesis(raw string) (map[string]any, error) {
	block, ok := jsonrepair.ExtractObject(raw)
	if !ok {
		return nil, errors.New("no JSON object in response")
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func interestsFrom(v any) []string {
	switch values := v.(type) {
	case []any:
		return normalizeLabels(values, MaxInterests)
	case string:
		return normalizeLabels([]any{values}, MaxInterests)
	default:
		return []string{}
	}
}

// evidenceFrom accepts evidence objects with loosely typed fields, or bare
// strings which become excerpts.
func evidenceFrom(v any) []Evidence {
	values, ok := v.([]any)
	if !ok {
		return []Evidence{}
	}
	evidence := make([]Evidence, 0, min(len(values), MaxEvidence))
	for _, value := range values {
		var e Evidence
		switch ev := value.(type) {
		case map[string]any:
			e = Evidence{
				ID:         cast.ToString(ev["id"]),
				SourceType: cast.ToString(ev["sourceType"]),
				Excerpt:    content.Truncate(strings.TrimSpace(cast.ToString(ev["excerpt"])), ExcerptLength),
				URL:        cast.ToString(ev["url"]),
			}
		case string:
			e = Evidence{Excerpt: content.Truncate(strings.TrimSpace(ev), ExcerptLength)}
		default:
			continue
		}
		evidence = append(evidence, e)
		if len(evidence) == MaxEvidence {
			break
		}
	}
	return evidence
}

// fallback builds the artifact without further model calls.
func (p *Pipeline) fallback(in synthesisInput, raw string, cause error) Artifact {
	summaries := lo.FilterMap(in.outcomes, func(o clusterOutcome, _ int) (string, bool) {
		return o.Summary.SummaryText, o.Summary.SummaryText != ""
	})

	interestSource := "seed"
	interests := in.seedInterests
	if len(interests) == 0 {
		interestSource = "inferred"
		interests = FrequentTerms(in.combined, MaxInterests)
	}

	artifact := emptyArtifact(in.count)
	artifact.PersonalSummary = strings.Join(summaries[:min(len(summaries), fallbackSummaryClusters)], " ")
	artifact.PersonalInterests = interests
	artifact.SeedInterests = in.seedInterests
	artifact.Evidence = lo.Map(in.items[:min(len(in.items), MaxEvidence)], func(it content.Item, _ int) Evidence {
		return evidenceFromItem(it)
	})
	artifact.Provenance = map[string]any{
		"count":             in.count,
		"parsed":            false,
		"personalSummary":   "inferred",
		"personalInterests": interestSource,
	}
	artifact.RawFinalText = raw
	artifact.Error = cause.Error()
	return artifact
}
