package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClusterSummaryPrompt(t *testing.T) {
	prompt, err := BuildClusterSummaryPrompt(ClusterSummaryPrompt{
		Items: []ClusterSummaryItem{
			{SourceType: "post", Text: "Summited Mount Tam\nat sunrise"},
			{SourceType: "media", Text: "Golden hour on the ridge"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "single concise sentence")
	assert.Contains(t, prompt, "- [post] Summited Mount Tam at sunrise\n")
	assert.Contains(t, prompt, "- [media] Golden hour on the ridge\n")
}

func TestBuildSeedInterestsPrompt(t *testing.T) {
	prompt, err := BuildSeedInterestsPrompt(SeedInterestsPrompt{
		Summaries:    "Loves hiking.\nShoots film photos.",
		MaxInterests: 6,
	})
	require.NoError(t, err)

	schema, err := seedInterestsSchema()
	require.NoError(t, err)
	assert.Contains(t, prompt, "up to 6 concise")
	assert.Contains(t, prompt, schema+"\n")
	assert.Contains(t, schema, `"seedInterests"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Shoots film photos."))
}

func TestBuildFinalSynthesisPrompt(t *testing.T) {
	prompt, err := BuildFinalSynthesisPrompt(FinalSynthesisPrompt{
		Summaries:    "Loves hiking.",
		Count:        17,
		MaxInterests: 6,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Loves hiking.")
	assert.Contains(t, prompt, `Set provenance to {"count": 17}.`)

	schema, err := finalSynthesisSchema()
	require.NoError(t, err)
	assert.Contains(t, prompt, schema+"\n")

	var parsed struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(schema), &parsed))
	assert.ElementsMatch(t, []string{"personalSummary", "personalInterests", "evidence", "provenance"}, parsed.Required)
	assert.Contains(t, string(parsed.Properties["evidence"]), `"excerpt"`)
}

func TestBuildAvatarProfilePrompt(t *testing.T) {
	t.Run("with profile", func(t *testing.T) {
		prompt, err := BuildAvatarProfilePrompt(AvatarProfilePrompt{
			Name:              "Sam",
			WorkSkills:        []string{"Go", "Kubernetes"},
			PersonalSummary:   `Enjoys "slow" travel`,
			PersonalInterests: []string{"Travel", "Cooking"},
			SeedInterests:     []string{"Travel"},
			EvidenceExcerpts:  []string{"one", "two", "three", "four"},
		})
		require.NoError(t, err)

		assert.Contains(t, prompt, "Known name: Sam")
		assert.Contains(t, prompt, "Work skills: Go, Kubernetes")
		assert.Contains(t, prompt, `"Enjoys \"slow\" travel"`)
		assert.Contains(t, prompt, "Compact personal interests (from summarizer): Travel, Cooking")
		assert.Contains(t, prompt, "Evidence excerpts: one || two || three\n")
	})

	t.Run("empty profile", func(t *testing.T) {
		prompt, err := BuildAvatarProfilePrompt(AvatarProfilePrompt{})
		require.NoError(t, err)

		assert.Contains(t, prompt, "Known name: [Unknown]")
		assert.Contains(t, prompt, "Compact personal summary (from user's posts): [none]")
		assert.Contains(t, prompt, "Seed interests (deterministic candidates from content): [none]")
	})
}
