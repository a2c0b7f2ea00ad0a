package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
)

func TestDefaultLexicon(t *testing.T) {
	lex := DefaultLexicon()

	assert.Equal(t, 40, lex.Size())
	for _, d := range AllDimensions() {
		assert.Len(t, lex.Words(d), 4, "dimension %s", d)
	}

	dim, ok := lex.DimensionOf("  Self-Reliance ")
	require.True(t, ok)
	assert.Equal(t, Independent, dim)

	_, ok = lex.DimensionOf("pizza")
	assert.False(t, ok)
}

func TestNewLexicon_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries map[Dimension][]string
	}{
		{
			name:    "Unknown dimension",
			entries: map[Dimension][]string{"bravery": {"courage"}},
		},
		{
			name: "Word in two dimensions",
			entries: map[Dimension][]string{
				Tradition: {"roots"},
				Novelty:   {"Roots"},
			},
		},
		{
			name:    "Blank word",
			entries: map[Dimension][]string{Novelty: {"  "}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexicon(tt.entries)
			assert.Error(t, err)
		})
	}
}

func TestDefaultBoard(t *testing.T) {
	board := DefaultBoard()
	lex := DefaultLexicon()

	require.Equal(t, 8, board.Size())
	for _, r := range board.Rounds() {
		require.Len(t, r.Words, WordsPerRound)
		dims := make(map[Dimension]bool)
		for _, w := range r.Words {
			d, ok := lex.DimensionOf(w)
			require.True(t, ok, "round %d word %q missing from lexicon", r.Number, w)
			assert.False(t, dims[d], "round %d repeats dimension %s", r.Number, d)
			dims[d] = true
		}
	}

	_, ok := board.Round(0)
	assert.False(t, ok)
	_, ok = board.Round(9)
	assert.False(t, ok)

	assert.True(t, board.Offers(1, "KNOWLEDGE"))
	assert.False(t, board.Offers(1, "family"))
}

func TestBoard_RoundsAreCopies(t *testing.T) {
	board := DefaultBoard()

	r, ok := board.Round(1)
	require.True(t, ok)
	r.Words[0] = "tampered"

	again, _ := board.Round(1)
	assert.Equal(t, "adventure", again.Words[0])
}

func TestNewBoard_Errors(t *testing.T) {
	lex := DefaultLexicon()
	tests := []struct {
		name   string
		rounds [][]string
	}{
		{name: "No rounds", rounds: nil},
		{name: "Short round", rounds: [][]string{{"adventure", "stability", "knowledge"}}},
		{name: "Unknown word", rounds: [][]string{{"adventure", "stability", "knowledge", "pizza"}}},
		{name: "Shared dimension", rounds: [][]string{{"adventure", "surprise", "knowledge", "belonging"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoard(lex, tt.rounds)
			assert.Error(t, err)
		})
	}
}

func newTestBuilder() *Builder {
	return NewBuilder(DefaultLexicon(), DefaultBoard(), config.DefaultThresholds())
}

func TestBuild_EndToEndScenario(t *testing.T) {
	selections := []Selection{
		{Round: 1, Word: "knowledge"},
		{Round: 2, Word: "cooperation"},
		{Round: 3, Word: "organization"},
		{Round: 4, Word: "harmony"},
		{Round: 5, Word: "together"},
		{Round: 6, Word: "support"},
		{Round: 7, Word: "teamwork"},
		{Round: 8, Word: "planning"},
	}

	res, err := newTestBuilder().Build(selections)
	require.NoError(t, err)

	assert.Equal(t, 0.125, res.Profile["community_oriented"])
	assert.Equal(t, 0.125, res.Profile["intellectual"])
	assert.Equal(t, 0.25, res.Profile["structured"])
	assert.Equal(t, 0.0, res.Profile["competitive"])
	assert.Equal(t, 0.0, res.Profile["tradition"])
	assert.Equal(t, 0.0, res.Profile["experiential"])
	assert.Len(t, res.Profile, 6)

	_, exposed := res.Profile["collaborative"]
	assert.False(t, exposed, "collaborative must stay internal")
	assert.Equal(t, 4, res.Counts[Collaborative])

	assert.Equal(t, models.EnvironmentPreferences{
		GroupSize:        models.GroupSizeSmall,
		InteractionStyle: models.InteractionCasualMingling,
		Pace:             models.PaceBalanced,
		Frequency:        models.FrequencyOccasional,
		SocialEnergy:     models.SocialEnergyMedium,
	}, res.Preferences)
}

func TestBuild_OrderAndCaseInsensitive(t *testing.T) {
	selections := []Selection{
		{Round: 8, Word: "Family"},
		{Round: 1, Word: " BELONGING"},
		{Round: 5, Word: "together "},
		{Round: 2, Word: "winning"},
		{Round: 3, Word: "heritage"},
		{Round: 4, Word: "excellence"},
		{Round: 6, Word: "analysis"},
		{Round: 7, Word: "achievement"},
	}

	res, err := newTestBuilder().Build(selections)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Counts[CommunityOriented])
	assert.Equal(t, 0.375, res.Profile["community_oriented"])
	assert.Equal(t, 0.375, res.Profile["competitive"])
	assert.Equal(t, models.SocialEnergyHigh, res.Preferences.SocialEnergy)
	assert.Equal(t, models.GroupSizeMedium, res.Preferences.GroupSize)
	assert.Equal(t, models.FrequencyRegular, res.Preferences.Frequency)

	for i, s := range res.Selections {
		assert.Equal(t, i+1, s.Round)
	}
	assert.Equal(t, "belonging", res.Selections[0].Word)
	assert.Equal(t, "family", res.Selections[7].Word)
}

func TestBuild_AllValidSubmissionsStayInRange(t *testing.T) {
	b := newTestBuilder()
	board := DefaultBoard()
	rounds := board.Rounds()

	// Walk a spread of the 4^8 possible submissions.
	for code := 0; code < 65536; code += 97 {
		selections := make([]Selection, len(rounds))
		c := code
		for i, r := range rounds {
			selections[i] = Selection{Round: r.Number, Word: r.Words[c%4]}
			c /= 4
		}

		res, err := b.Build(selections)
		require.NoError(t, err)

		total := 0
		for _, n := range res.Counts {
			total += n
		}
		require.Equal(t, 8, total)
		require.Len(t, res.Counts, 10)
		for k, v := range res.Profile {
			require.True(t, v >= 0 && v <= 1, "%s=%v out of range", k, v)
		}
	}
}

func TestBuild_ResubmissionDoesNotAccumulate(t *testing.T) {
	b := newTestBuilder()
	first := allFirstWords()
	second := allFirstWords()
	second[0].Word = "belonging"

	r1, err := b.Build(first)
	require.NoError(t, err)
	r2, err := b.Build(second)
	require.NoError(t, err)

	// Round 8's first tile is "family", so both submissions carry one community pick.
	assert.Equal(t, 0.125, r1.Profile["community_oriented"])
	assert.Equal(t, 0.25, r2.Profile["community_oriented"])
	assert.Equal(t, 1, r1.Counts[Spontaneous])
	assert.Equal(t, 0, r2.Counts[Spontaneous])
	assert.Equal(t, 8, r2.Counts[Spontaneous]+r2.Counts[Independent]+r2.Counts[Structured]+
		r2.Counts[Competitive]+r2.Counts[CommunityOriented]+r2.Counts[Collaborative]+r2.Counts[Intellectual]+
		r2.Counts[Experiential]+r2.Counts[Tradition]+r2.Counts[Novelty])
}

func allFirstWords() []Selection {
	var out []Selection
	for _, r := range DefaultBoard().Rounds() {
		out = append(out, Selection{Round: r.Number, Word: r.Words[0]})
	}
	return out
}

func TestBuild_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Selection) []Selection
	}{
		{
			name:   "Too few selections",
			mutate: func(s []Selection) []Selection { return s[:7] },
		},
		{
			name:   "Too many selections",
			mutate: func(s []Selection) []Selection { return append(s, Selection{Round: 1, Word: "adventure"}) },
		},
		{
			name:   "Empty submission",
			mutate: func([]Selection) []Selection { return nil },
		},
		{
			name: "Round zero",
			mutate: func(s []Selection) []Selection {
				s[0].Round = 0
				return s
			},
		},
		{
			name: "Round past the board",
			mutate: func(s []Selection) []Selection {
				s[7].Round = 9
				return s
			},
		},
		{
			name: "Repeated round",
			mutate: func(s []Selection) []Selection {
				s[1] = Selection{Round: 1, Word: "stability"}
				return s
			},
		},
		{
			name: "Word from another round",
			mutate: func(s []Selection) []Selection {
				s[0].Word = "family"
				return s
			},
		},
		{
			name: "Unknown word",
			mutate: func(s []Selection) []Selection {
				s[3].Word = "pizza"
				return s
			},
		},
	}

	b := newTestBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(tt.mutate(allFirstWords()))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedSubmission), "got %v", err)
		})
	}
}

func TestDerivePreferences(t *testing.T) {
	th := config.DefaultThresholds()
	tests := []struct {
		name           string
		profile        models.ValueProfile
		communityCount int
		want           models.EnvironmentPreferences
	}{
		{
			name:           "Empty profile",
			profile:        models.ValueProfile{},
			communityCount: 0,
			want: models.EnvironmentPreferences{
				GroupSize:        models.GroupSizeSmall,
				InteractionStyle: models.InteractionCasualMingling,
				Pace:             models.PaceBalanced,
				Frequency:        models.FrequencyOccasional,
				SocialEnergy:     models.SocialEnergyLow,
			},
		},
		{
			name: "Highly communal and intellectual",
			profile: models.ValueProfile{
				"community_oriented": 0.75,
				"intellectual":       0.625,
				"experiential":       0.75,
				"competitive":        0.625,
			},
			communityCount: 6,
			want: models.EnvironmentPreferences{
				GroupSize:        models.GroupSizeLarge,
				InteractionStyle: models.InteractionDeepConversations,
				Pace:             models.PaceFast,
				Frequency:        models.FrequencyHigh,
				SocialEnergy:     models.SocialEnergyHigh,
			},
		},
		{
			name: "Experiential traditionalist",
			profile: models.ValueProfile{
				"community_oriented": 0.5,
				"experiential":       0.625,
				"tradition":          0.625,
			},
			communityCount: 4,
			want: models.EnvironmentPreferences{
				GroupSize:        models.GroupSizeMedium,
				InteractionStyle: models.InteractionActivityBased,
				Pace:             models.PaceRelaxed,
				Frequency:        models.FrequencyRegular,
				SocialEnergy:     models.SocialEnergyHigh,
			},
		},
		{
			name: "Thresholds are exclusive",
			profile: models.ValueProfile{
				"community_oriented": 0.6,
				"intellectual":       0.5,
				"competitive":        0.5,
			},
			communityCount: 2,
			want: models.EnvironmentPreferences{
				GroupSize:        models.GroupSizeMedium,
				InteractionStyle: models.InteractionCasualMingling,
				Pace:             models.PaceBalanced,
				Frequency:        models.FrequencyRegular,
				SocialEnergy:     models.SocialEnergyMedium,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DerivePreferences(tt.profile, tt.communityCount, th)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivePreferences_CustomThresholds(t *testing.T) {
	th := config.DefaultThresholds()
	th.GroupSizeLarge = 0.1
	th.SocialEnergyHighMin = 1

	got := DerivePreferences(models.ValueProfile{"community_oriented": 0.125}, 1, th)
	assert.Equal(t, models.GroupSizeLarge, got.GroupSize)
	assert.Equal(t, models.SocialEnergyHigh, got.SocialEnergy)
}
