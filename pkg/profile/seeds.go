package profile

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/EternisAI/persona/pkg/ai"
	"github.com/EternisAI/persona/pkg/jsonrepair"
	"github.com/EternisAI/persona/pkg/prompts"
)

const (
	SeedSourceModel     = "model"
	SeedSourceFrequency = "frequency"
)

var seedInterestOptions = ai.GenerateOptions{MaxTokens: 120, Temperature: 0}

var (
	tokenSplitRe    = regexp.MustCompile(`[^A-Za-z-]+`)
	parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)
)

var stopWords = map[string]bool{
	"the": true, "and": true, "a": true, "an": true, "in": true, "on": true,
	"with": true, "for": true, "of": true, "to": true, "by": true, "from": true,
	"my": true, "we": true, "i": true, "is": true, "are": true, "this": true,
	"that": true, "be": true, "as": true, "at": true, "about": true,
}

// extractSeedInterests asks the model for up to six interest labels and falls
// back to FrequentTerms when the call fails or yields nothing usable. The
// second return value names where the labels came from.
func (p *Pipeline) extractSeedInterests(ctx context.Context, combined string) ([]string, string) {
	if strings.TrimSpace(combined) == "" {
		return []string{}, SeedSourceFrequency
	}

	labels, err := p.requestSeedInterests(ctx, combined)
	if err != nil {
		p.logger.Warn("Seed interest extraction failed, using term frequency", "error", err)
	}
	if len(labels) > 0 {
		return labels, SeedSourceModel
	}
	return FrequentTerms(combined, MaxInterests), SeedSourceFrequency
}

func (p *Pipeline) requestSeedInterests(ctx context.Context, combined string) ([]string, error) {
	prompt, err := prompts.BuildSeedInterestsPrompt(prompts.SeedInterestsPrompt{
		Summaries:    combined,
		MaxInterests: MaxInterests,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build seed interests prompt")
	}

	opts := seedInterestOptions
	opts.Model = p.completionModel
	raw, err := p.generator.Generate(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	return parseSeedInterests(raw)
}

// parseSeedInterests decodes the first balanced object in raw without repair.
func parseSeedInterests(raw string) ([]string, error) {
	block, ok := jsonrepair.ExtractObject(raw)
	if !ok {
		return nil, &ParseError{Stage: "seed_interests", Raw: raw, Err: errors.New("no JSON object in response")}
	}

	var parsed struct {
		SeedInterests []any `json:"seedInterests"`
	}
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		return nil, &ParseError{Stage: "seed_interests", Raw: raw, Err: err}
	}
	return normalizeLabels(parsed.SeedInterests, MaxInterests), nil
}

// normalizeLabels trims labels, collapses inner whitespace, drops
// parentheticals and case-insensitive duplicates, and keeps at most limit.
func normalizeLabels(values []any, limit int) []string {
	labels := make([]string, 0, min(len(values), limit))
	seen := make(map[string]bool)
	for _, v := range values {
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		label := strings.Join(strings.Fields(parentheticalRe.ReplaceAllString(s, "")), " ")
		key := strings.ToLower(label)
		if label == "" || seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, label)
		if len(labels) == limit {
			break
		}
	}
	return labels
}

// FrequentTerms returns the n most frequent non-stop-word tokens of text,
// title-cased, ties broken by first appearance. Tokens are runs of letters and
// hyphens longer than two characters; hyphenated tokens become separate
// capitalized words.
func FrequentTerms(text string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, raw := range tokenSplitRe.Split(text, -1) {
		token := strings.ToLower(strings.Trim(raw, "-"))
		if len(token) <= 2 || stopWords[token] {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})

	terms := make([]string, 0, min(len(order), n))
	for _, token := range order[:min(len(order), n)] {
		terms = append(terms, titleCase(token))
	}
	return terms
}

func titleCase(token string) string {
	parts := strings.FieldsFunc(token, func(r rune) bool { return r == '-' })
	for i, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		parts[i] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}
