package content

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longText(prefix string) string {
	return prefix + " " + strings.Repeat("lorem ipsum ", 3)
}

func TestNormalize(t *testing.T) {
	t.Run("drops short text and trims", func(t *testing.T) {
		items := []Item{
			{ID: "short", Text: "fifteen chars!!"},
			{ID: "exactly20", Text: "   " + strings.Repeat("a", 20) + "   "},
			{ID: "ok", SourceType: "POST", Text: "  " + strings.Repeat("b", 21) + "\n"},
		}

		out := Normalize(items)

		require.Len(t, out, 1)
		assert.Equal(t, "ok", out[0].ID)
		assert.Equal(t, strings.Repeat("b", 21), out[0].Text)
		assert.Equal(t, SourceTypePost, out[0].SourceType)
	})

	t.Run("truncates to max length in runes", func(t *testing.T) {
		items := []Item{{ID: "long", Text: strings.Repeat("é", MaxTextLength+50)}}

		out := Normalize(items)

		require.Len(t, out, 1)
		assert.Equal(t, MaxTextLength, len([]rune(out[0].Text)))
	})

	t.Run("empty type becomes post and negative engagement clamps", func(t *testing.T) {
		out := Normalize([]Item{{Text: longText("typeless"), Engagement: -4}})

		require.Len(t, out, 1)
		assert.Equal(t, SourceTypePost, out[0].SourceType)
		assert.Zero(t, out[0].Engagement)
	})
}

func TestFromRecords(t *testing.T) {
	records := []Record{
		{
			"type":       "media",
			"caption":    "Sunset over the bay from the ferry deck",
			"text":       "should not win over caption",
			"likes":      float64(12),
			"created_at": "Tue Nov 10 23:00:00 +0000 2009",
			"permalink":  "https://example.com/m/1",
			"id":         float64(42),
		},
		{
			"sourceType":         "comment",
			"comment":            "Great write-up on trail running gear",
			"totalReactionCount": "7",
			"timestamp":          float64(1700000000000),
		},
		{
			"category":   "reaction",
			"engagement": map[string]any{"likes": 3, "comments": 2},
			"date":       float64(1700000000),
		},
		{},
	}

	items := FromRecords(records)
	require.Len(t, items, 4)

	media := items[0]
	assert.Equal(t, "42", media.ID)
	assert.Equal(t, SourceTypeMedia, media.SourceType)
	assert.Equal(t, "Sunset over the bay from the ferry deck", media.Text)
	assert.Equal(t, 12.0, media.Engagement)
	assert.Equal(t, "https://example.com/m/1", media.URL)
	require.NotNil(t, media.CreatedAt)
	assert.Equal(t, 2009, media.CreatedAt.Year())

	comment := items[1]
	assert.Equal(t, SourceTypeComment, comment.SourceType)
	assert.Equal(t, "Great write-up on trail running gear", comment.Text)
	assert.Equal(t, 7.0, comment.Engagement)
	require.NotNil(t, comment.CreatedAt)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), *comment.CreatedAt)

	reaction := items[2]
	assert.Equal(t, SourceTypeReaction, reaction.SourceType)
	assert.Equal(t, 5.0, reaction.Engagement)
	require.NotNil(t, reaction.CreatedAt)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), *reaction.CreatedAt)

	empty := items[3]
	assert.Equal(t, SourceTypePost, empty.SourceType)
	assert.Empty(t, empty.Text)
	assert.Zero(t, empty.Engagement)
	assert.Nil(t, empty.CreatedAt)
}

func TestNonFiniteEngagementIsIgnored(t *testing.T) {
	items := FromRecords([]Record{
		{"text": longText("nan likes"), "likes": "NaN", "score": float64(4)},
		{"text": longText("inf counter"), "engagement": map[string]any{"likes": "Inf", "comments": 2}},
		{"text": longText("only nan"), "likes": math.NaN()},
	})

	require.Len(t, items, 3)
	assert.Equal(t, 4.0, items[0].Engagement)
	assert.Equal(t, 2.0, items[1].Engagement)
	assert.Zero(t, items[2].Engagement)

	out := Normalize([]Item{
		{ID: "nan", Text: longText("nan"), Engagement: math.NaN()},
		{ID: "inf", Text: longText("inf"), Engagement: math.Inf(1)},
	})
	require.Len(t, out, 2)
	for _, it := range out {
		assert.Zero(t, it.Engagement, it.ID)
	}
}

func TestTypeConfig(t *testing.T) {
	cfg := DefaultTypeConfig()

	assert.Equal(t, 50, cfg.Cap(SourceTypePost))
	assert.Equal(t, 0.4, cfg.Weight(SourceTypeReply))
	assert.Equal(t, 20, cfg.Cap("poll"))
	assert.Equal(t, 0.5, cfg.Weight("poll"))

	merged := cfg.Merge(TypeConfig{
		SourceTypePost: {Cap: 5},
		"poll":         {Weight: 0.7},
	})
	assert.Equal(t, 5, merged.Cap(SourceTypePost))
	assert.Equal(t, 1.0, merged.Weight(SourceTypePost))
	assert.Equal(t, 20, merged.Cap("poll"))
	assert.Equal(t, 0.7, merged.Weight("poll"))

	// the receiver is untouched
	assert.Equal(t, 50, cfg.Cap(SourceTypePost))
}

func makeItems(t SourceType, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:         fmt.Sprintf("%s-%d", t, i),
			SourceType: t,
			Text:       fmt.Sprintf("%s number %d talks about something different", t, i),
			Engagement: float64(i % 7),
		}
	}
	return items
}

func TestSelect(t *testing.T) {
	t.Run("orders by engagement then recency", func(t *testing.T) {
		older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		newer := older.Add(24 * time.Hour)
		items := []Item{
			{ID: "a", SourceType: SourceTypePost, Text: longText("a"), Engagement: 1, CreatedAt: &older},
			{ID: "b", SourceType: SourceTypePost, Text: longText("b"), Engagement: 5},
			{ID: "c", SourceType: SourceTypePost, Text: longText("c"), Engagement: 1, CreatedAt: &newer},
			{ID: "d", SourceType: SourceTypePost, Text: longText("d"), Engagement: 1},
		}

		out := Select(items, DefaultTypeConfig(), 0)

		ids := make([]string, len(out))
		for i, it := range out {
			ids[i] = it.ID
		}
		assert.Equal(t, []string{"b", "c", "a", "d"}, ids)
	})

	t.Run("never exceeds type caps or the global limit", func(t *testing.T) {
		var items []Item
		items = append(items, makeItems(SourceTypeComment, 400)...)
		items = append(items, makeItems(SourceTypePost, 80)...)
		items = append(items, makeItems("poll", 30)...)

		cfg := DefaultTypeConfig()
		for _, limit := range []int{10, 100, 250, 1000} {
			out := Select(items, cfg, limit)
			assert.LessOrEqual(t, len(out), limit)

			counts := map[SourceType]int{}
			for _, it := range out {
				counts[it.SourceType]++
			}
			for typ, n := range counts {
				assert.LessOrEqual(t, n, cfg.Cap(typ), "type %s", typ)
			}
		}

		out := Select(items, cfg, 1000)
		assert.Len(t, out, 150+50+20)
		assert.Equal(t, SourceTypeComment, out[0].SourceType)
	})

	t.Run("drops exact duplicates by prefix keeping the first", func(t *testing.T) {
		shared := strings.Repeat("x", DedupKeyLength)
		items := []Item{
			{ID: "first", SourceType: SourceTypePost, Text: shared + " tail one", Engagement: 3},
			{ID: "second", SourceType: SourceTypePost, Text: shared + " tail two", Engagement: 1},
			{ID: "other", SourceType: SourceTypeComment, Text: longText("unique")},
		}

		out := Select(items, DefaultTypeConfig(), 0)

		require.Len(t, out, 2)
		assert.Equal(t, "first", out[0].ID)
		assert.Equal(t, "other", out[1].ID)
	})

	t.Run("is idempotent", func(t *testing.T) {
		var items []Item
		items = append(items, makeItems(SourceTypeReply, 200)...)
		items = append(items, makeItems(SourceTypeMedia, 70)...)
		items = append(items, makeItems(SourceTypeReply, 3)...) // duplicates

		cfg := DefaultTypeConfig()
		once := Select(items, cfg, 180)
		twice := Select(once, cfg, 180)

		assert.Equal(t, once, twice)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Select(nil, DefaultTypeConfig(), 10))
	})
}
