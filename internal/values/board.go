package values

import (
	"fmt"
	"sync"

	"github.com/mroshb/value_matcher/pkg/utils"
)

// WordsPerRound is the number of tiles offered in each round.
const WordsPerRound = 4

// Round is one step of the game: a 1-based position and its candidate words.
type Round struct {
	Number int      `json:"round"`
	Words  []string `json:"words"`
}

// Board is the fixed, ordered sequence of rounds.
type Board struct {
	rounds [][]string
}

// NewBoard validates that every round offers WordsPerRound lexicon words drawn from
// distinct dimensions.
func NewBoard(lex *Lexicon, rounds [][]string) (*Board, error) {
	if len(rounds) == 0 {
		return nil, fmt.Errorf("board has no rounds")
	}

	b := &Board{rounds: make([][]string, len(rounds))}
	for i, words := range rounds {
		if len(words) != WordsPerRound {
			return nil, fmt.Errorf("round %d has %d words, want %d", i+1, len(words), WordsPerRound)
		}

		seen := make(map[Dimension]string, WordsPerRound)
		normalized := make([]string, len(words))
		for j, w := range words {
			word := utils.NormalizeWord(w)
			dim, ok := lex.DimensionOf(word)
			if !ok {
				return nil, fmt.Errorf("round %d word %q is not in the lexicon", i+1, word)
			}
			if other, dup := seen[dim]; dup {
				return nil, fmt.Errorf("round %d words %q and %q share dimension %q", i+1, other, word, dim)
			}
			seen[dim] = word
			normalized[j] = word
		}
		b.rounds[i] = normalized
	}

	return b, nil
}

// Size is the number of rounds, N.
func (b *Board) Size() int {
	return len(b.rounds)
}

// Round returns round n (1-based).
func (b *Board) Round(n int) (Round, bool) {
	if n < 1 || n > len(b.rounds) {
		return Round{}, false
	}
	words := make([]string, len(b.rounds[n-1]))
	copy(words, b.rounds[n-1])
	return Round{Number: n, Words: words}, true
}

// Rounds returns a copy of every round in order.
func (b *Board) Rounds() []Round {
	out := make([]Round, 0, len(b.rounds))
	for i := range b.rounds {
		r, _ := b.Round(i + 1)
		out = append(out, r)
	}
	return out
}

// Offers reports whether word is one of round n's candidates.
func (b *Board) Offers(n int, word string) bool {
	if n < 1 || n > len(b.rounds) {
		return false
	}
	word = utils.NormalizeWord(word)
	for _, w := range b.rounds[n-1] {
		if w == word {
			return true
		}
	}
	return false
}

var defaultRounds = [][]string{
	{"adventure", "stability", "knowledge", "belonging"},
	{"autonomy", "cooperation", "winning", "innovation"},
	{"organization", "spontaneity", "heritage", "action"},
	{"excellence", "harmony", "learning", "exploration"},
	{"independence", "together", "discipline", "creativity"},
	{"self-reliance", "support", "analysis", "practice"},
	{"achievement", "teamwork", "roots", "surprise"},
	{"family", "freedom", "planning", "doing"},
}

var (
	defaultBoardOnce sync.Once
	defaultBoard     *Board
)

// DefaultBoard returns the eight-round board, built on first use.
func DefaultBoard() *Board {
	defaultBoardOnce.Do(func() {
		b, err := NewBoard(DefaultLexicon(), defaultRounds)
		if err != nil {
			panic(fmt.Sprintf("values: invalid built-in board: %v", err))
		}
		defaultBoard = b
	})
	return defaultBoard
}
