// Package matching scores and ranks communities and events against a user's value
// profile.
package matching

import (
	"time"

	"github.com/mroshb/value_matcher/internal/models"
)

// Candidate is the scoring view of a community or an event.
type Candidate struct {
	ID          string
	Kind        string // models.KindCommunity or models.KindEvent
	Name        string
	Description string
	Category    string
	Profile     models.ValueProfile
	// StartsAt is set for events only; candidates starting before now are dropped.
	StartsAt *time.Time
}

// Subject is the user being matched.
type Subject struct {
	UserID      uint
	Profile     models.ValueProfile
	Preferences *models.EnvironmentPreferences
}

// Result is one ranked candidate. It is never persisted.
type Result struct {
	Candidate Candidate
	Score     float64
	Why       string
	Friction  *string
}

// CommunityCandidate adapts a stored community.
func CommunityCandidate(c *models.Community) Candidate {
	return Candidate{
		ID:          c.ID,
		Kind:        models.KindCommunity,
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Profile:     c.ValueProfile,
	}
}

// EventCandidate adapts a stored event.
func EventCandidate(e *models.Event) Candidate {
	date := e.Date
	return Candidate{
		ID:          e.ID,
		Kind:        models.KindEvent,
		Name:        e.Name,
		Description: e.Description,
		Category:    e.EventType,
		Profile:     e.ValueProfile,
		StartsAt:    &date,
	}
}
