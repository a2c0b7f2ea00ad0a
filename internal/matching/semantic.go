package matching

import (
	"context"
	stderrors "errors"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/pkg/logger"
	"github.com/mroshb/value_matcher/pkg/utils"
)

// Embedder is the text embedding capability the semantic scorer consumes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ErrDegenerateVector is returned for empty, zero-norm or mismatched vectors.
var ErrDegenerateVector = stderrors.New("degenerate embedding vector")

// CosineSimilarity is dot(a,b) / (|a| |b|).
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, ErrDegenerateVector
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, ErrDegenerateVector
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// CosineScore maps cosine similarity from [-1,1] onto [0,100]: identical vectors
// score 100, orthogonal ones 50.
func CosineScore(a, b []float32) (float64, error) {
	cos, err := CosineSimilarity(a, b)
	if err != nil {
		return 0, err
	}
	return utils.Round1(utils.Clamp((cos+1)/2*100, 0, 100)), nil
}

// SemanticConfig bounds the cost of one semantic ranking.
type SemanticConfig struct {
	Timeout       time.Duration // per embedding call
	Concurrency   int
	MaxCandidates int
}

// SemanticScorer scores candidates by embedding similarity.
type SemanticScorer struct {
	embedder Embedder
	th       config.Thresholds
	cfg      SemanticConfig
}

func NewSemanticScorer(embedder Embedder, th config.Thresholds, cfg SemanticConfig) *SemanticScorer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxCandidates < 1 {
		cfg.MaxCandidates = 50
	}
	return &SemanticScorer{embedder: embedder, th: th, cfg: cfg}
}

// Scored is a candidate with its raw semantic score.
type Scored struct {
	Candidate Candidate
	Score     float64
}

// Score embeds the subject once and each candidate concurrently. Candidates whose
// embedding fails are left out. If the subject cannot be embedded the result is
// empty. Only cancellation of ctx is returned as an error.
func (s *SemanticScorer) Score(ctx context.Context, subject Subject, candidates []Candidate) ([]Scored, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > s.cfg.MaxCandidates {
		logger.Debug("Capping semantic candidates", "user_id", subject.UserID, "total", len(candidates), "cap", s.cfg.MaxCandidates)
		candidates = candidates[:s.cfg.MaxCandidates]
	}

	userVec, err := s.embed(ctx, ProfileText(subject.Profile, subject.Preferences, s.th))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warn("Could not embed user profile", "user_id", subject.UserID, "error", err)
		return nil, nil
	}

	scores := make([]float64, len(candidates))
	ok := make([]bool, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			vec, err := s.embed(ctx, CandidateText(candidates[i], s.th))
			if err != nil {
				if ctx.Err() == nil {
					logger.Warn("Skipping candidate without embedding", "candidate_id", candidates[i].ID, "error", err)
				}
				return nil
			}
			score, err := CosineScore(userVec, vec)
			if err != nil {
				logger.Warn("Skipping candidate with unusable embedding", "candidate_id", candidates[i].ID, "error", err)
				return nil
			}
			scores[i] = score
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(candidates))
	for i, c := range candidates {
		if ok[i] {
			out = append(out, Scored{Candidate: c, Score: scores[i]})
		}
	}
	return out, nil
}

func (s *SemanticScorer) embed(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return s.embedder.Embed(callCtx, text)
}
