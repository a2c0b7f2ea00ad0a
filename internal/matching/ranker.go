package matching

import (
	"context"
	"sort"
	"time"

	"github.com/mroshb/value_matcher/internal/config"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
)

// Request is one ranking call. Excluded holds candidates the user already joined or
// attends; Skipped holds candidates the user skipped before.
type Request struct {
	Strategy   string
	Subject    Subject
	Candidates []Candidate
	Excluded   map[string]bool
	Skipped    map[string]bool
}

// Ranker runs exactly one scoring strategy per request and orders the results.
type Ranker struct {
	semantic  *SemanticScorer
	explainer Explainer
	th        config.Thresholds
	now       func() time.Time
}

// NewRanker builds a ranker. semantic may be nil when no embedding provider is
// configured; semantic requests then return no results.
func NewRanker(semantic *SemanticScorer, th config.Thresholds) *Ranker {
	return &Ranker{
		semantic:  semantic,
		explainer: NewExplainer(th),
		th:        th,
		now:       time.Now,
	}
}

// Rank scores the eligible candidates and returns them by descending score. Ties keep
// the order the candidates were supplied in.
func (r *Ranker) Rank(ctx context.Context, req Request) ([]Result, error) {
	if len(req.Subject.Profile) == 0 {
		return nil, errors.New(errors.ErrCodeProfileNotReady, "complete the value discovery game first")
	}

	eligible := r.filter(req)

	var results []Result
	switch req.Strategy {
	case config.StrategyHeuristic:
		results = r.rankHeuristic(req, eligible)
	case config.StrategySemantic:
		var err error
		results, err = r.rankSemantic(ctx, req, eligible)
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unknown matching strategy "+req.Strategy)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// filter drops candidates the user already belongs to and events that already started.
func (r *Ranker) filter(req Request) []Candidate {
	now := r.now()
	out := make([]Candidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		if req.Excluded[c.ID] {
			continue
		}
		if c.StartsAt != nil && c.StartsAt.Before(now) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *Ranker) rankHeuristic(req Request, candidates []Candidate) []Result {
	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		score := HeuristicScore(req.Subject.Profile, c.Profile, r.th.NeutralScore)
		score = Damp(score, req.Skipped[c.ID], r.th.SkipDamping)
		results = append(results, r.result(req.Subject, c, score))
	}
	return results
}

func (r *Ranker) rankSemantic(ctx context.Context, req Request, candidates []Candidate) ([]Result, error) {
	if r.semantic == nil {
		logger.Warn("Semantic matching requested without an embedding provider", "user_id", req.Subject.UserID)
		return []Result{}, nil
	}

	scored, err := r.semantic.Score(ctx, req.Subject, candidates)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		results = append(results, r.result(req.Subject, s.Candidate, s.Score))
	}
	return results, nil
}

func (r *Ranker) result(subject Subject, c Candidate, score float64) Result {
	why, friction := r.explainer.Explain(subject.Profile, c)
	return Result{
		Candidate: c,
		Score:     score,
		Why:       why,
		Friction:  friction,
	}
}
