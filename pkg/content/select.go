package content

import (
	"sort"

	"github.com/samber/lo"
)

// Select bounds the volume that reaches embedding: per type it keeps the most
// engaging (then most recent) items up to the type cap, truncates the
// concatenation to limit and drops exact duplicates. Group order follows the
// first appearance of each type in the input, so Select is idempotent.
func Select(items []Item, cfg TypeConfig, limit int) []Item {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var order []SourceType
	groups := make(map[SourceType][]Item)
	for _, it := range items {
		if _, seen := groups[it.SourceType]; !seen {
			order = append(order, it.SourceType)
		}
		groups[it.SourceType] = append(groups[it.SourceType], it)
	}

	selected := make([]Item, 0, min(len(items), limit))
	for _, t := range order {
		group := groups[t]
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].Engagement != group[b].Engagement {
				return group[a].Engagement > group[b].Engagement
			}
			return group[a].createdAtOrZero().After(group[b].createdAtOrZero())
		})
		selected = append(selected, group[:min(len(group), cfg.Cap(t))]...)
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}

	return lo.UniqBy(selected, func(it Item) string {
		return Truncate(it.Text, DedupKeyLength)
	})
}
