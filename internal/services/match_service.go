package services

import (
	"context"
	"time"

	"github.com/mroshb/value_matcher/internal/matching"
	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/pkg/errors"
	"github.com/mroshb/value_matcher/pkg/logger"
)

type UserReader interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type CommunityCatalog interface {
	ListCommunities(ctx context.Context) ([]models.Community, error)
	GetJoinedIDs(ctx context.Context, userID uint) ([]string, error)
}

type EventCatalog interface {
	ListUpcomingEvents(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
	GetAttendingIDs(ctx context.Context, userID uint) ([]string, error)
}

type SkipSource interface {
	GetSkippedIDs(ctx context.Context, userID uint, kind string) ([]string, error)
}

// MatchStrategies selects the scoring strategy per candidate class.
type MatchStrategies struct {
	Community string
	Event     string
}

// CommunityMatch is a ranked community.
type CommunityMatch struct {
	Community *models.Community
	Score     float64
	Why       string
	Friction  *string
}

// EventMatch is a ranked upcoming event.
type EventMatch struct {
	Event    *models.Event
	Score    float64
	Why      string
	Friction *string
}

// MatchService loads what the ranker needs from the store and maps the ranking
// back onto stored candidates.
type MatchService struct {
	users       UserReader
	communities CommunityCatalog
	events      EventCatalog
	skips       SkipSource
	ranker      *matching.Ranker
	strategies  MatchStrategies
	now         func() time.Time
}

func NewMatchService(
	users UserReader,
	communities CommunityCatalog,
	events EventCatalog,
	skips SkipSource,
	ranker *matching.Ranker,
	strategies MatchStrategies,
) *MatchService {
	return &MatchService{
		users:       users,
		communities: communities,
		events:      events,
		skips:       skips,
		ranker:      ranker,
		strategies:  strategies,
		now:         time.Now,
	}
}

// CommunityMatches ranks every community the user has not joined.
func (s *MatchService) CommunityMatches(ctx context.Context, userID uint) ([]CommunityMatch, error) {
	subject, err := s.subject(ctx, userID)
	if err != nil {
		return nil, err
	}

	communities, err := s.communities.ListCommunities(ctx)
	if err != nil {
		return nil, err
	}
	joined, err := s.communities.GetJoinedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	skipped, err := s.skips.GetSkippedIDs(ctx, userID, models.KindCommunity)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Community, len(communities))
	candidates := make([]matching.Candidate, 0, len(communities))
	for i := range communities {
		c := &communities[i]
		byID[c.ID] = c
		candidates = append(candidates, matching.CommunityCandidate(c))
	}

	results, err := s.ranker.Rank(ctx, matching.Request{
		Strategy:   s.strategies.Community,
		Subject:    subject,
		Candidates: candidates,
		Excluded:   idSet(joined),
		Skipped:    idSet(skipped),
	})
	if err != nil {
		return nil, err
	}

	matches := make([]CommunityMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, CommunityMatch{
			Community: byID[r.Candidate.ID],
			Score:     r.Score,
			Why:       r.Why,
			Friction:  r.Friction,
		})
	}

	logger.Debug("Community matches ranked", "user_id", userID, "strategy", s.strategies.Community, "candidates", len(candidates), "results", len(matches))
	return matches, nil
}

// EventMatches ranks upcoming events the user does not attend yet.
func (s *MatchService) EventMatches(ctx context.Context, userID uint) ([]EventMatch, error) {
	subject, err := s.subject(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListUpcomingEvents(ctx, s.now(), 0)
	if err != nil {
		return nil, err
	}
	attending, err := s.events.GetAttendingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	skipped, err := s.skips.GetSkippedIDs(ctx, userID, models.KindEvent)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Event, len(events))
	candidates := make([]matching.Candidate, 0, len(events))
	for i := range events {
		e := &events[i]
		byID[e.ID] = e
		candidates = append(candidates, matching.EventCandidate(e))
	}

	results, err := s.ranker.Rank(ctx, matching.Request{
		Strategy:   s.strategies.Event,
		Subject:    subject,
		Candidates: candidates,
		Excluded:   idSet(attending),
		Skipped:    idSet(skipped),
	})
	if err != nil {
		return nil, err
	}

	matches := make([]EventMatch, 0, len(results))
	for _, r := range results {
		matches = append(matches, EventMatch{
			Event:    byID[r.Candidate.ID],
			Score:    r.Score,
			Why:      r.Why,
			Friction: r.Friction,
		})
	}

	logger.Debug("Event matches ranked", "user_id", userID, "strategy", s.strategies.Event, "candidates", len(candidates), "results", len(matches))
	return matches, nil
}

func (s *MatchService) subject(ctx context.Context, userID uint) (matching.Subject, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return matching.Subject{}, err
	}
	if !user.HasProfile() {
		return matching.Subject{}, errors.New(errors.ErrCodeProfileNotReady, "complete the value discovery game first")
	}
	return matching.Subject{
		UserID:      user.ID,
		Profile:     user.ValueProfile,
		Preferences: user.EnvironmentPreferences,
	}, nil
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
