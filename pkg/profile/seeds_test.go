package profile

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ptesting "github.com/EternisAI/persona/pkg/testing"
)

func TestFrequentTerms(t *testing.T) {
	text := "Hiking trails and hiking boots. Trail-running with friends; hiking again"

	assert.Equal(t,
		[]string{"Hiking", "Trails", "Boots", "Trail Running", "Friends", "Again"},
		FrequentTerms(text, 6))
	assert.Equal(t, []string{"Hiking", "Trails"}, FrequentTerms(text, 2))
	assert.Equal(t, []string{}, FrequentTerms("the and of it", 6))
	assert.Equal(t, []string{}, FrequentTerms("", 6))
}

func TestFrequentTermsSkipsShortTokens(t *testing.T) {
	assert.Equal(t, []string{}, FrequentTerms("AI ML VR", 6))
	assert.Equal(t, []string{"Gaming"}, FrequentTerms("AI and VR gaming", 6))
}

func TestParseSeedInterests(t *testing.T) {
	labels, err := parseSeedInterests(`Labels: {"seedInterests": ["Hiking", " Film   Photography ", "hiking", "Travel (mostly Japan)", 3, "A", "B", "C", "D"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking", "Film Photography", "Travel", "3", "A", "B"}, labels)

	_, err = parseSeedInterests("nothing useful")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "seed_interests", parseErr.Stage)

	// seed parsing does not repair
	_, err = parseSeedInterests(`{seedInterests: ['Hiking']}`)
	assert.Error(t, err)
}

func TestExtractSeedInterests(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		err        error
		want       []string
		wantSource string
	}{
		{
			name:       "model labels",
			raw:        `{"seedInterests": ["Cooking", "Cycling"]}`,
			want:       []string{"Cooking", "Cycling"},
			wantSource: SeedSourceModel,
		},
		{
			name:       "provider failure",
			err:        errors.New("unavailable"),
			want:       []string{"Cooking", "Weekends", "Cycling"},
			wantSource: SeedSourceFrequency,
		},
		{
			name:       "empty list",
			raw:        `{"seedInterests": []}`,
			want:       []string{"Cooking", "Weekends", "Cycling"},
			wantSource: SeedSourceFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, &ptesting.MockEmbedder{}, &mockGeneratorReturning{raw: tt.raw, err: tt.err})

			seeds, source := p.extractSeedInterests(context.Background(), "Cooking on weekends.\nCycling and cooking.")

			assert.Equal(t, tt.want, seeds)
			assert.Equal(t, tt.wantSource, source)
		})
	}
}

func TestExtractSeedInterestsSkipsEmptySummaries(t *testing.T) {
	generator := &ptesting.MockGenerator{}
	p := newTestPipeline(t, &ptesting.MockEmbedder{}, generator)

	seeds, _ := p.extractSeedInterests(context.Background(), "  \n ")

	assert.Equal(t, []string{}, seeds)
	generator.AssertNumberOfCalls(t, "Generate", 0)
}
