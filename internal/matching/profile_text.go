package matching

import (
	"fmt"
	"strings"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/values"
)

type profilePhrase struct {
	dim  values.Dimension
	high string
	low  string
}

// Order matters: it is the order phrases appear in the generated text.
var profilePhrases = []profilePhrase{
	{values.CommunityOriented, "highly community-oriented and collaborative", "independent and self-directed"},
	{values.Intellectual, "intellectually focused and analytical", "hands-on and experiential"},
	{values.Competitive, "competitive and achievement-oriented", "collaborative and supportive"},
	{values.Structured, "organized and structured", "spontaneous and flexible"},
	{values.Tradition, "traditional and heritage-focused", "innovative and novelty-seeking"},
}

// ProfileText describes a profile in words for the embedding model. Missing
// dimensions read as 0; values inside the neutral band add nothing.
func ProfileText(p models.ValueProfile, prefs *models.EnvironmentPreferences, th config.Thresholds) string {
	var parts []string
	for _, ph := range profilePhrases {
		v := p.Value(string(ph.dim))
		switch {
		case v > th.TextHigh:
			parts = append(parts, ph.high)
		case v < th.TextLow:
			parts = append(parts, ph.low)
		}
	}

	if prefs != nil {
		style := prefs.InteractionStyle
		if style == "" {
			style = "balanced interaction"
		}
		pace := prefs.Pace
		if pace == "" {
			pace = models.PaceBalanced
		}
		parts = append(parts, "prefers "+style, fmt.Sprintf("enjoys %s pace activities", pace))
	}

	return strings.Join(parts, " ")
}

// CandidateText prefixes the candidate's own profile text with its name, description
// and category.
func CandidateText(c Candidate, th config.Thresholds) string {
	return fmt.Sprintf("%s. %s. %s. ", c.Name, c.Description, categoryLabel(c)) + ProfileText(c.Profile, nil, th)
}

// categoryLabel yields e.g. "workshop event" or "community".
func categoryLabel(c Candidate) string {
	noun := c.Kind
	if noun == "" {
		noun = models.KindEvent
	}
	return strings.TrimSpace(c.Category + " " + noun)
}
