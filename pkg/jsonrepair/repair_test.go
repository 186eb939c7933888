package jsonrepair

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "prose wrapped",
			input:  `Here is the profile: {"a": {"b": 1}} Thanks! {"c": 2}`,
			want:   `{"a": {"b": 1}}`,
			wantOK: true,
		},
		{
			name:   "brace inside string",
			input:  `{"text": "a } inside", "n": 1}`,
			want:   `{"text": "a } inside", "n": 1}`,
			wantOK: true,
		},
		{
			name:   "escaped quote inside string",
			input:  `{"text": "say \"}\" ok"} trailing`,
			want:   `{"text": "say \"}\" ok"}`,
			wantOK: true,
		},
		{
			name:   "unbalanced falls back to last brace",
			input:  `{"a": "unterminated } x`,
			want:   `{"a": "unterminated }`,
			wantOK: true,
		},
		{
			name:  "no object",
			input: "no json here",
		},
		{
			name:  "closing brace before opening",
			input: "} {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractObject(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransforms(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripBackticks("```{\"a\":1}```"))
	assert.Equal(t, `"x" 'y'`, NormalizeQuotes("“x” ‘y’"))
	assert.Equal(t, `{"a":[1,2]}`, RemoveTrailingCommas(`{"a":[1,2,],}`))
	assert.Equal(t, `[1]`, RemoveTrailingCommas(`[1,, ]`))
	assert.Equal(t, `{"a":1}`, StripControlChars("{\"a\":\x001}\n"))
	assert.Equal(t, `{"a": 1, "b-c": 2, "d": 3}`, QuoteBareKeys(`{a: 1, b-c: 2, 'd': 3}`))
	assert.Equal(t, `{"a": "b", "c": "it's"}`, SingleToDoubleQuotes(`{"a": 'b', "c": "it's"}`))
}

func TestTransformsLeaveStringContentsAlone(t *testing.T) {
	in := `{"summary": "Two hobbies, hiking: mostly alpine, ]", "quote": "he said: 'hi'", "esc": "a \", b: 'c'"}`

	assert.Equal(t, in, QuoteBareKeys(in))
	assert.Equal(t, in, SingleToDoubleQuotes(in))
	assert.Equal(t, in, RemoveTrailingCommas(in))

	assert.Equal(t, `{"a": "x, y: z", "b": 1}`, QuoteBareKeys(`{"a": "x, y: z", b: 1}`))
	assert.Equal(t, `{"a": ["x,]"]}`, RemoveTrailingCommas(`{"a": ["x,]",],}`))
}

func TestTransformsAreIdempotent(t *testing.T) {
	inputs := []string{
		"```{“a”: ‘x’,}```",
		"{a: 'b', c: [1,2,],}\n",
		`{"ok": true}`,
		"plain prose, no json: here",
		"{'k':'v' ,\t}",
		`{"a": "b, c: 'd',]", e: 'f',}`,
		"",
	}

	for _, tr := range Transforms {
		for _, in := range inputs {
			once := tr.Apply(in)
			assert.Equal(t, once, tr.Apply(once), "%s on %q", tr.Name, in)
		}
	}
}

func TestRepair(t *testing.T) {
	t.Run("fenced output with smart quotes, bare keys and trailing commas", func(t *testing.T) {
		raw := "Sure! ```json\n{personalSummary: 'Loves hiking', “personalInterests”: [“Hiking”, “Photography”,], 'evidence': [],}\n```"

		repaired := Repair(raw)

		assert.JSONEq(t, `{"personalSummary": "Loves hiking", "personalInterests": ["Hiking", "Photography"], "evidence": []}`, repaired)
	})

	t.Run("valid json is unchanged in meaning", func(t *testing.T) {
		raw := `{"personalSummary": "Enjoys long walks", "personalInterests": ["Walking"]}`

		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(Repair(raw)), &out))
		assert.Equal(t, "Enjoys long walks", out["personalSummary"])
	})

	t.Run("colon inside a value survives trailing comma repair", func(t *testing.T) {
		raw := `{"personalSummary": "Two hobbies, hiking: mostly alpine routes.", "personalInterests": ["Hiking",],}`

		assert.JSONEq(t, `{"personalSummary": "Two hobbies, hiking: mostly alpine routes.", "personalInterests": ["Hiking"]}`, Repair(raw))
	})

	t.Run("garbage stays unparseable", func(t *testing.T) {
		var out map[string]any
		assert.Error(t, json.Unmarshal([]byte(Repair("I cannot help with that.")), &out))
	})
}
