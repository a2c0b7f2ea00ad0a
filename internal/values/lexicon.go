package values

import (
	"fmt"
	"sync"

	"github.com/mroshb/value_matcher/pkg/utils"
)

// Dimension is one of the ten value axes a game word can map to.
type Dimension string

const (
	CommunityOriented Dimension = "community_oriented"
	Independent       Dimension = "independent"
	Structured        Dimension = "structured"
	Spontaneous       Dimension = "spontaneous"
	Competitive       Dimension = "competitive"
	Collaborative     Dimension = "collaborative"
	Intellectual      Dimension = "intellectual"
	Experiential      Dimension = "experiential"
	Tradition         Dimension = "tradition"
	Novelty           Dimension = "novelty"
)

var allDimensions = []Dimension{
	CommunityOriented, Independent, Structured, Spontaneous, Competitive,
	Collaborative, Intellectual, Experiential, Tradition, Novelty,
}

// Only these dimensions are surfaced in a stored ValueProfile.
var exposedDimensions = []Dimension{
	CommunityOriented, Structured, Competitive, Intellectual, Tradition, Experiential,
}

// AllDimensions returns the closed set of dimensions in canonical order.
func AllDimensions() []Dimension {
	out := make([]Dimension, len(allDimensions))
	copy(out, allDimensions)
	return out
}

// ExposedDimensions returns the core subset written to user profiles.
func ExposedDimensions() []Dimension {
	out := make([]Dimension, len(exposedDimensions))
	copy(out, exposedDimensions)
	return out
}

// Valid reports whether d belongs to the closed dimension set.
func (d Dimension) Valid() bool {
	for _, known := range allDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// Lexicon maps game words to dimensions. It is read-only after construction.
type Lexicon struct {
	byWord map[string]Dimension
	byDim  map[Dimension][]string
}

// NewLexicon builds a lexicon, rejecting unknown dimensions and words claimed twice.
func NewLexicon(entries map[Dimension][]string) (*Lexicon, error) {
	lex := &Lexicon{
		byWord: make(map[string]Dimension),
		byDim:  make(map[Dimension][]string),
	}

	for dim, words := range entries {
		if !dim.Valid() {
			return nil, fmt.Errorf("unknown dimension %q", dim)
		}
		for _, w := range words {
			word := utils.NormalizeWord(w)
			if word == "" {
				return nil, fmt.Errorf("empty word for dimension %q", dim)
			}
			if prev, ok := lex.byWord[word]; ok {
				return nil, fmt.Errorf("word %q mapped to both %q and %q", word, prev, dim)
			}
			lex.byWord[word] = dim
			lex.byDim[dim] = append(lex.byDim[dim], word)
		}
	}

	return lex, nil
}

// DimensionOf looks up the dimension of a word, ignoring case and surrounding space.
func (l *Lexicon) DimensionOf(word string) (Dimension, bool) {
	dim, ok := l.byWord[utils.NormalizeWord(word)]
	return dim, ok
}

// Words returns the words of a dimension in declaration order.
func (l *Lexicon) Words(dim Dimension) []string {
	words := l.byDim[dim]
	out := make([]string, len(words))
	copy(out, words)
	return out
}

// Size is the number of distinct words.
func (l *Lexicon) Size() int {
	return len(l.byWord)
}

var defaultLexiconEntries = map[Dimension][]string{
	CommunityOriented: {"community", "together", "belonging", "family"},
	Independent:       {"independence", "autonomy", "self-reliance", "freedom"},
	Structured:        {"organization", "planning", "order", "discipline"},
	Spontaneous:       {"spontaneity", "flexibility", "adventure", "surprise"},
	Competitive:       {"competition", "achievement", "winning", "excellence"},
	Collaborative:     {"cooperation", "teamwork", "harmony", "support"},
	Intellectual:      {"knowledge", "learning", "wisdom", "analysis"},
	Experiential:      {"experience", "action", "doing", "practice"},
	Tradition:         {"tradition", "heritage", "roots", "stability"},
	Novelty:           {"innovation", "creativity", "change", "exploration"},
}

var (
	defaultLexiconOnce sync.Once
	defaultLexicon     *Lexicon
)

// DefaultLexicon returns the process-wide lexicon, built on first use.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		lex, err := NewLexicon(defaultLexiconEntries)
		if err != nil {
			panic(fmt.Sprintf("values: invalid built-in lexicon: %v", err))
		}
		defaultLexicon = lex
	})
	return defaultLexicon
}
