package content

import (
	"math"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// Record is a loosely shaped item as delivered by a content provider.
type Record map[string]any

var (
	typeFields = []string{"sourceType", "source_type", "type", "category", "kind"}
	idFields   = []string{"id", "urn", "postId", "post_id", "commentId", "tweet_id", "id_str"}
	timeFields = []string{"createdAt", "created_at", "date", "timestamp", "postedAt", "postedDate", "posted_at", "time"}
	urlFields  = []string{"url", "link", "permalink", "postUrl", "post_url", "shareUrl"}

	engagementFields = []string{
		"engagement", "likes", "numLikes", "likeCount", "like_count",
		"reactions", "totalReactionCount", "reactionCount", "favorite_count", "score",
	}

	defaultTextFields = []string{"text", "content", "body", "commentary", "description"}

	// Per type preference for where the authored text lives.
	textFields = map[SourceType][]string{
		SourceTypePost:           {"text", "commentary", "content", "body", "full_text"},
		SourceTypeComment:        {"text", "comment", "commentary", "body", "content"},
		SourceTypeReply:          {"text", "reply", "body", "content", "full_text"},
		SourceTypeRecommendation: {"text", "recommendation", "recommendationText", "body", "content"},
		SourceTypeMedia:          {"caption", "text", "title", "description", "alt"},
		SourceTypeReaction:       {"text", "targetText", "postText", "content", "title"},
		SourceTypeEvent:          {"text", "title", "name", "description"},
	}
)

// FromRecords extracts the best available fields of each record into an Item.
// Missing numbers become 0 and missing strings become empty; no filtering is done.
func FromRecords(records []Record) []Item {
	return lo.Map(records, func(r Record, _ int) Item {
		sourceType := ParseSourceType(firstString(r, typeFields))
		fields, ok := textFields[sourceType]
		if !ok {
			fields = defaultTextFields
		}
		return Item{
			ID:         firstString(r, idFields),
			SourceType: sourceType,
			Text:       firstString(r, fields),
			CreatedAt:  firstTime(r, timeFields),
			Engagement: firstEngagement(r, engagementFields),
			URL:        firstString(r, urlFields),
		}
	})
}

// Normalize trims and truncates text, canonicalizes the source type and drops
// items whose text is too short to embed reliably.
func Normalize(items []Item) []Item {
	cleaned := lo.Map(items, func(it Item, _ int) Item {
		it.Text = Truncate(strings.TrimSpace(it.Text), MaxTextLength)
		it.SourceType = ParseSourceType(string(it.SourceType))
		if it.Engagement < 0 || !isFinite(it.Engagement) {
			it.Engagement = 0
		}
		return it
	})
	return lo.Filter(cleaned, func(it Item, _ int) bool {
		return Eligible(it.Text)
	})
}

// Eligible reports whether already trimmed text is long enough to keep.
func Eligible(text string) bool {
	return len([]rune(text)) > MinTextLength
}

func firstString(r Record, keys []string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func firstEngagement(r Record, keys []string) float64 {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toEngagement(v); ok {
			return f
		}
	}
	return 0
}

// toEngagement accepts a number, a numeric string, or an object of counters
// (e.g. {"likes": 3, "comments": 1}) which is summed.
func toEngagement(v any) (float64, bool) {
	if m, ok := v.(map[string]any); ok {
		total, found := 0.0, false
		for _, inner := range m {
			if f, err := cast.ToFloat64E(inner); err == nil && isFinite(f) {
				total += f
				found = true
			}
		}
		return max(total, 0), found
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return max(f, 0), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func firstTime(r Record, keys []string) *time.Time {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if t, ok := parseTimestamp(v); ok {
			return &t
		}
	}
	return nil
}

func parseTimestamp(v any) (time.Time, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return time.Time{}, false
		}
		if t, err := cast.StringToDate(s); err == nil {
			return t, true
		}
	}
	if t, ok := v.(time.Time); ok {
		return t, !t.IsZero()
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || f <= 0 {
		return time.Time{}, false
	}
	return fromEpoch(f), true
}

// fromEpoch treats values past 1e12 as milliseconds, which is what most
// social APIs return.
func fromEpoch(f float64) time.Time {
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}
