package content

// TypeRule bounds how many items of a source type survive selection and how
// strongly the type counts when picking cluster representatives.
type TypeRule struct {
	Cap    int     `json:"cap"`
	Weight float64 `json:"weight"`
}

type TypeConfig map[SourceType]TypeRule

const (
	fallbackCap    = 20
	fallbackWeight = 0.5
)

func DefaultTypeConfig() TypeConfig {
	return TypeConfig{
		SourceTypePost:           {Cap: 50, Weight: 1.0},
		SourceTypeComment:        {Cap: 150, Weight: 0.5},
		SourceTypeReply:          {Cap: 150, Weight: 0.4},
		SourceTypeRecommendation: {Cap: 40, Weight: 1.0},
		SourceTypeMedia:          {Cap: 60, Weight: 0.9},
		SourceTypeEvent:          {Cap: 50, Weight: 0.8},
		SourceTypeReaction:       {Cap: 50, Weight: 0.8},
	}
}

// Merge returns a copy of c with the override applied. A non-positive cap or
// weight in the override keeps the existing value for that field.
func (c TypeConfig) Merge(override TypeConfig) TypeConfig {
	merged := make(TypeConfig, len(c)+len(override))
	for t, rule := range c {
		merged[t] = rule
	}
	for t, rule := range override {
		base, ok := merged[t]
		if !ok {
			base = TypeRule{Cap: fallbackCap, Weight: fallbackWeight}
		}
		if rule.Cap > 0 {
			base.Cap = rule.Cap
		}
		if rule.Weight > 0 {
			base.Weight = rule.Weight
		}
		merged[t] = base
	}
	return merged
}

func (c TypeConfig) Cap(t SourceType) int {
	if rule, ok := c[t]; ok && rule.Cap > 0 {
		return rule.Cap
	}
	return fallbackCap
}

func (c TypeConfig) Weight(t SourceType) float64 {
	if rule, ok := c[t]; ok && rule.Weight > 0 {
		return rule.Weight
	}
	return fallbackWeight
}
