package config

import "fmt"

// Thresholds holds every tunable constant used by profile derivation, scoring and
// explanation synthesis.
type Thresholds struct {
	// Environment preference derivation
	GroupSizeLarge        float64 // community_oriented above this -> "large"
	GroupSizeSmall        float64 // community_oriented below this -> "small"
	DeepConversation      float64 // intellectual above this -> "deep conversations"
	ActivityBased         float64 // experiential above this -> "activity-based"
	FastPaced             float64 // competitive above this -> "fast-paced"
	Relaxed               float64 // tradition above this -> "relaxed"
	FrequencyHigh         float64 // community_oriented above this -> "high involvement"
	FrequencyOccasional   float64 // community_oriented below this -> "occasional"
	SocialEnergyHighMin   int     // raw community selections at or above -> "high"
	SocialEnergyMediumMin int     // raw community selections at or above -> "medium"

	// Profile text synthesis
	TextHigh float64
	TextLow  float64

	// Explanation synthesis
	SharedIntellectual  float64
	SharedCommunity     float64
	FrictionCompetitive float64

	// Heuristic scoring
	SkipDamping  float64
	NeutralScore float64
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GroupSizeLarge:        0.6,
		GroupSizeSmall:        0.3,
		DeepConversation:      0.5,
		ActivityBased:         0.5,
		FastPaced:             0.5,
		Relaxed:               0.5,
		FrequencyHigh:         0.6,
		FrequencyOccasional:   0.3,
		SocialEnergyHighMin:   3,
		SocialEnergyMediumMin: 1,

		TextHigh: 0.6,
		TextLow:  0.4,

		SharedIntellectual:  0.6,
		SharedCommunity:     0.6,
		FrictionCompetitive: 0.5,

		SkipDamping:  0.8,
		NeutralScore: 50.0,
	}
}

// LoadThresholds applies THRESHOLD_* environment overrides on top of the defaults.
func LoadThresholds() Thresholds {
	d := DefaultThresholds()
	return Thresholds{
		GroupSizeLarge:        getEnvFloat("THRESHOLD_GROUP_SIZE_LARGE", d.GroupSizeLarge),
		GroupSizeSmall:        getEnvFloat("THRESHOLD_GROUP_SIZE_SMALL", d.GroupSizeSmall),
		DeepConversation:      getEnvFloat("THRESHOLD_DEEP_CONVERSATION", d.DeepConversation),
		ActivityBased:         getEnvFloat("THRESHOLD_ACTIVITY_BASED", d.ActivityBased),
		FastPaced:             getEnvFloat("THRESHOLD_FAST_PACED", d.FastPaced),
		Relaxed:               getEnvFloat("THRESHOLD_RELAXED", d.Relaxed),
		FrequencyHigh:         getEnvFloat("THRESHOLD_FREQUENCY_HIGH", d.FrequencyHigh),
		FrequencyOccasional:   getEnvFloat("THRESHOLD_FREQUENCY_OCCASIONAL", d.FrequencyOccasional),
		SocialEnergyHighMin:   getEnvInt("THRESHOLD_SOCIAL_ENERGY_HIGH", d.SocialEnergyHighMin),
		SocialEnergyMediumMin: getEnvInt("THRESHOLD_SOCIAL_ENERGY_MEDIUM", d.SocialEnergyMediumMin),

		TextHigh: getEnvFloat("THRESHOLD_TEXT_HIGH", d.TextHigh),
		TextLow:  getEnvFloat("THRESHOLD_TEXT_LOW", d.TextLow),

		SharedIntellectual:  getEnvFloat("THRESHOLD_SHARED_INTELLECTUAL", d.SharedIntellectual),
		SharedCommunity:     getEnvFloat("THRESHOLD_SHARED_COMMUNITY", d.SharedCommunity),
		FrictionCompetitive: getEnvFloat("THRESHOLD_FRICTION_COMPETITIVE", d.FrictionCompetitive),

		SkipDamping:  getEnvFloat("THRESHOLD_SKIP_DAMPING", d.SkipDamping),
		NeutralScore: getEnvFloat("THRESHOLD_NEUTRAL_SCORE", d.NeutralScore),
	}
}

func (t Thresholds) Validate() error {
	if t.GroupSizeSmall > t.GroupSizeLarge {
		return fmt.Errorf("THRESHOLD_GROUP_SIZE_SMALL (%v) must not exceed THRESHOLD_GROUP_SIZE_LARGE (%v)", t.GroupSizeSmall, t.GroupSizeLarge)
	}
	if t.FrequencyOccasional > t.FrequencyHigh {
		return fmt.Errorf("THRESHOLD_FREQUENCY_OCCASIONAL (%v) must not exceed THRESHOLD_FREQUENCY_HIGH (%v)", t.FrequencyOccasional, t.FrequencyHigh)
	}
	if t.TextLow > t.TextHigh {
		return fmt.Errorf("THRESHOLD_TEXT_LOW (%v) must not exceed THRESHOLD_TEXT_HIGH (%v)", t.TextLow, t.TextHigh)
	}
	if t.SocialEnergyMediumMin > t.SocialEnergyHighMin {
		return fmt.Errorf("THRESHOLD_SOCIAL_ENERGY_MEDIUM must not exceed THRESHOLD_SOCIAL_ENERGY_HIGH")
	}
	if t.SkipDamping < 0 || t.SkipDamping > 1 {
		return fmt.Errorf("THRESHOLD_SKIP_DAMPING must be within [0,1], got %v", t.SkipDamping)
	}
	if t.NeutralScore < 0 || t.NeutralScore > 100 {
		return fmt.Errorf("THRESHOLD_NEUTRAL_SCORE must be within [0,100], got %v", t.NeutralScore)
	}
	return nil
}
