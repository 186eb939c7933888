// Package content holds the user-authored fragments the profile pipeline works on
// and the first two stages applied to them: normalization and selection.
package content

import (
	"strings"
	"time"
)

type SourceType string

const (
	SourceTypePost           SourceType = "post"
	SourceTypeComment        SourceType = "comment"
	SourceTypeReply          SourceType = "reply"
	SourceTypeRecommendation SourceType = "recommendation"
	SourceTypeMedia          SourceType = "media"
	SourceTypeReaction       SourceType = "reaction"
	SourceTypeEvent          SourceType = "event"
)

// ParseSourceType lower-cases the raw type; an empty value means a post.
func ParseSourceType(raw string) SourceType {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return SourceTypePost
	}
	return SourceType(t)
}

const (
	// MaxTextLength is the rune budget an item keeps after normalization.
	MaxTextLength = 1200
	// MinTextLength is exclusive: eligible text is strictly longer.
	MinTextLength = 20
	// DedupKeyLength is how many runes of text identify an exact duplicate.
	DedupKeyLength = 200
	// DefaultLimit caps the number of items that reach the embedding stage.
	DefaultLimit = 250
)

// Item is a single short text fragment authored by the user.
type Item struct {
	ID         string     `json:"id"`
	SourceType SourceType `json:"sourceType"`
	Text       string     `json:"text"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	Engagement float64    `json:"engagement"`
	URL        string     `json:"url"`
}

// EmbeddingInput is the text sent to the embedding provider for this item.
func (i Item) EmbeddingInput() string {
	return "[" + string(i.SourceType) + "] " + i.Text
}

func (i Item) createdAtOrZero() time.Time {
	if i.CreatedAt == nil {
		return time.Time{}
	}
	return *i.CreatedAt
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for idx := range s {
		if count == n {
			return s[:idx]
		}
		count++
	}
	return s
}
