// Package profile turns a user's short-form content into a compact personal
// profile: a summary, interest labels and evidence excerpts.
package profile

import (
	"github.com/EternisAI/persona/pkg/content"
)

const (
	MaxInterests  = 6
	MaxEvidence   = 3
	ExcerptLength = 200

	representativesPerCluster = 2
	fallbackSummaryClusters   = 3
)

// Evidence is an excerpt supporting the profile.
type Evidence struct {
	ID         string `json:"id"`
	SourceType string `json:"sourceType"`
	Excerpt    string `json:"excerpt"`
	URL        string `json:"url"`
}

// Representative is one of the highest scoring members of a cluster.
type Representative struct {
	ID         string `json:"id"`
	SourceType string `json:"sourceType"`
	Text       string `json:"text"`
	URL        string `json:"url"`
}

// ClusterSummary is the one-sentence description generated for a cluster.
type ClusterSummary struct {
	SummaryText     string           `json:"summaryText"`
	Representatives []Representative `json:"representatives"`
}

// Artifact is the result of a run. Callers check Error; every other field is
// always populated, with empty slices rather than nil.
type Artifact struct {
	PersonalSummary   string         `json:"personalSummary"`
	PersonalInterests []string       `json:"personalInterests"`
	SeedInterests     []string       `json:"seedInterests"`
	Evidence          []Evidence     `json:"evidence"`
	Provenance        map[string]any `json:"provenance"`
	RawFinalText      string         `json:"rawFinalText,omitempty"`
	Error             string         `json:"error,omitempty"`
}

func emptyArtifact(count int) Artifact {
	return Artifact{
		PersonalInterests: []string{},
		SeedInterests:     []string{},
		Evidence:          []Evidence{},
		Provenance:        map[string]any{"count": count},
	}
}

func evidenceFromItem(it content.Item) Evidence {
	return Evidence{
		ID:         it.ID,
		SourceType: string(it.SourceType),
		Excerpt:    content.Truncate(it.Text, ExcerptLength),
		URL:        it.URL,
	}
}

func representativeFromItem(it content.Item) Representative {
	return Representative{
		ID:         it.ID,
		SourceType: string(it.SourceType),
		Text:       it.Text,
		URL:        it.URL,
	}
}
