package values

import (
	"fmt"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/utils"
)

// Selection is the word a player picked in one round.
type Selection struct {
	Round int    `json:"round"`
	Word  string `json:"word"`
}

// Result is the output of a completed game.
type Result struct {
	Profile     models.ValueProfile
	Preferences models.EnvironmentPreferences
	// Counts covers every dimension, including the ones not exposed in Profile.
	Counts map[Dimension]int
	// Selections are normalized and ordered by round.
	Selections []Selection
}

// Builder turns game selections into a value profile and environment preferences.
type Builder struct {
	lexicon    *Lexicon
	board      *Board
	thresholds config.Thresholds
}

func NewBuilder(lexicon *Lexicon, board *Board, thresholds config.Thresholds) *Builder {
	return &Builder{
		lexicon:    lexicon,
		board:      board,
		thresholds: thresholds,
	}
}

// Board exposes the rounds the builder validates against.
func (b *Builder) Board() *Board {
	return b.board
}

// Build validates selections and scores them. Any structural problem yields a
// MALFORMED_SUBMISSION error.
func (b *Builder) Build(selections []Selection) (*Result, error) {
	ordered, err := b.validate(selections)
	if err != nil {
		return nil, err
	}

	counts := make(map[Dimension]int, len(allDimensions))
	for _, d := range allDimensions {
		counts[d] = 0
	}
	for _, s := range ordered {
		dim, ok := b.lexicon.DimensionOf(s.Word)
		if !ok {
			// Board construction guarantees every word is in the lexicon
			return nil, errors.New(errors.ErrCodeInternalError, fmt.Sprintf("word %q has no dimension", s.Word))
		}
		counts[dim]++
	}

	n := float64(b.board.Size())
	profile := make(models.ValueProfile, len(exposedDimensions))
	for _, d := range exposedDimensions {
		profile[string(d)] = float64(counts[d]) / n
	}

	return &Result{
		Profile:     profile,
		Preferences: DerivePreferences(profile, counts[CommunityOriented], b.thresholds),
		Counts:      counts,
		Selections:  ordered,
	}, nil
}

func (b *Builder) validate(selections []Selection) ([]Selection, error) {
	n := b.board.Size()
	if len(selections) != n {
		return nil, malformed("expected %d selections, got %d", n, len(selections))
	}

	ordered := make([]Selection, n)
	seen := make([]bool, n+1)
	for _, s := range selections {
		if s.Round < 1 || s.Round > n {
			return nil, malformed("round %d is outside 1..%d", s.Round, n)
		}
		if seen[s.Round] {
			return nil, malformed("round %d selected more than once", s.Round)
		}
		seen[s.Round] = true

		word := utils.NormalizeWord(s.Word)
		if !b.board.Offers(s.Round, word) {
			return nil, malformed("word %q is not offered in round %d", s.Word, s.Round)
		}
		ordered[s.Round-1] = Selection{Round: s.Round, Word: word}
	}

	return ordered, nil
}

func malformed(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeMalformedSubmission, fmt.Sprintf(format, args...))
}

// DerivePreferences applies the threshold rule table to a profile. communityCount is
// the raw number of community-oriented selections.
func DerivePreferences(p models.ValueProfile, communityCount int, th config.Thresholds) models.EnvironmentPreferences {
	community := p.Value(string(CommunityOriented))
	intellectual := p.Value(string(Intellectual))
	experiential := p.Value(string(Experiential))
	competitive := p.Value(string(Competitive))
	tradition := p.Value(string(Tradition))

	prefs := models.EnvironmentPreferences{
		GroupSize:        models.GroupSizeMedium,
		InteractionStyle: models.InteractionCasualMingling,
		Pace:             models.PaceBalanced,
		Frequency:        models.FrequencyRegular,
		SocialEnergy:     models.SocialEnergyLow,
	}

	switch {
	case community > th.GroupSizeLarge:
		prefs.GroupSize = models.GroupSizeLarge
	case community < th.GroupSizeSmall:
		prefs.GroupSize = models.GroupSizeSmall
	}

	switch {
	case intellectual > th.DeepConversation:
		prefs.InteractionStyle = models.InteractionDeepConversations
	case experiential > th.ActivityBased:
		prefs.InteractionStyle = models.InteractionActivityBased
	}

	switch {
	case competitive > th.FastPaced:
		prefs.Pace = models.PaceFast
	case tradition > th.Relaxed:
		prefs.Pace = models.PaceRelaxed
	}

	switch {
	case community > th.FrequencyHigh:
		prefs.Frequency = models.FrequencyHigh
	case community < th.FrequencyOccasional:
		prefs.Frequency = models.FrequencyOccasional
	}

	switch {
	case communityCount >= th.SocialEnergyHighMin:
		prefs.SocialEnergy = models.SocialEnergyHigh
	case communityCount >= th.SocialEnergyMediumMin:
		prefs.SocialEnergy = models.SocialEnergyMedium
	}

	return prefs
}
