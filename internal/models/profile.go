package models

import "sort"

// ValueProfile maps value dimensions to a score in [0,1].
type ValueProfile map[string]float64

// Value returns the score for dim, or 0 when absent.
func (p ValueProfile) Value(dim string) float64 {
	return p[dim]
}

// ValueOr returns the score for dim, or def when absent.
func (p ValueProfile) ValueOr(dim string, def float64) float64 {
	if v, ok := p[dim]; ok {
		return v
	}
	return def
}

// Keys returns the dimensions present, sorted.
func (p ValueProfile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InRange reports whether every score lies in [0,1].
func (p ValueProfile) InRange() bool {
	for _, v := range p {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// EnvironmentPreferences is derived from a ValueProfile and never edited on its own.
type EnvironmentPreferences struct {
	GroupSize        string `json:"group_size"`
	InteractionStyle string `json:"interaction_style"`
	Pace             string `json:"pace"`
	Frequency        string `json:"frequency"`
	SocialEnergy     string `json:"social_energy"`
}

const (
	GroupSizeLarge  = "large"
	GroupSizeMedium = "medium"
	GroupSizeSmall  = "small"

	InteractionDeepConversations = "deep conversations"
	InteractionActivityBased     = "activity-based"
	InteractionCasualMingling    = "casual mingling"

	PaceFast     = "fast-paced"
	PaceRelaxed  = "relaxed"
	PaceBalanced = "balanced"

	FrequencyHigh       = "high involvement"
	FrequencyRegular    = "regular"
	FrequencyOccasional = "occasional"

	SocialEnergyHigh   = "high"
	SocialEnergyMedium = "medium"
	SocialEnergyLow    = "low"
)
