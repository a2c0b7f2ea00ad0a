package matching

import (
	"math"
	"strings"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/values"
)

// Missing dimensions sit at the midpoint when explaining a match.
const explainDefault = 0.5

const (
	clauseIntellectual  = "You'll enjoy the intellectual aspects."
	clauseCommunity     = "Great opportunity to connect with like-minded people."
	frictionCompetitive = "The competitive nature might not match your preferences."
)

// Explainer writes the rationale and optional friction warning for a match.
type Explainer struct {
	th config.Thresholds
}

func NewExplainer(th config.Thresholds) Explainer {
	return Explainer{th: th}
}

func (e Explainer) Explain(user models.ValueProfile, c Candidate) (string, *string) {
	parts := []string{"This " + categoryLabel(c) + " aligns with your interests and values."}

	if e.bothAbove(user, c.Profile, values.Intellectual, e.th.SharedIntellectual) {
		parts = append(parts, clauseIntellectual)
	}
	if e.bothAbove(user, c.Profile, values.CommunityOriented, e.th.SharedCommunity) {
		parts = append(parts, clauseCommunity)
	}

	var friction *string
	key := string(values.Competitive)
	if math.Abs(user.ValueOr(key, explainDefault)-c.Profile.ValueOr(key, explainDefault)) > e.th.FrictionCompetitive {
		f := frictionCompetitive
		friction = &f
	}

	return strings.Join(parts, " "), friction
}

func (e Explainer) bothAbove(user, candidate models.ValueProfile, dim values.Dimension, threshold float64) bool {
	key := string(dim)
	return user.ValueOr(key, explainDefault) > threshold && candidate.ValueOr(key, explainDefault) > threshold
}
