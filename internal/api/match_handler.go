package api

import (
	"net/http"
	"time"

	"github.com/mroshb/value_matcher/internal/models"
)

type communityMatchView struct {
	CommunityID         string              `json:"community_id"`
	CommunityName       string              `json:"community_name"`
	Description         string              `json:"description"`
	Image               string              `json:"image,omitempty"`
	CompatibilityScore  float64             `json:"compatibility_score"`
	WhyItMatches        string              `json:"why_it_matches"`
	PossibleFriction    *string             `json:"possible_friction"`
	ValueProfile        models.ValueProfile `json:"value_profile"`
	EnvironmentSettings map[string]string   `json:"environment_settings"`
	MemberCount         int                 `json:"member_count"`
}

type eventMatchView struct {
	EventID            string              `json:"event_id"`
	EventName          string              `json:"event_name"`
	Description        string              `json:"description"`
	EventType          string              `json:"event_type"`
	Date               time.Time           `json:"date"`
	Location           string              `json:"location"`
	Image              string              `json:"image,omitempty"`
	CompatibilityScore float64             `json:"compatibility_score"`
	WhyItMatches       string              `json:"why_it_matches"`
	PossibleFriction   *string             `json:"possible_friction"`
	ValueProfile       models.ValueProfile `json:"value_profile"`
	AttendeeCount      int                 `json:"attendee_count"`
	Tags               []string            `json:"tags"`
}

func (h *handler) CommunityMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.deps.Matches.CommunityMatches(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]communityMatchView, 0, len(matches))
	for _, m := range matches {
		c := m.Community
		views = append(views, communityMatchView{
			CommunityID:         c.ID,
			CommunityName:       c.Name,
			Description:         c.Description,
			Image:               c.Image,
			CompatibilityScore:  m.Score,
			WhyItMatches:        m.Why,
			PossibleFriction:    m.Friction,
			ValueProfile:        c.ValueProfile,
			EnvironmentSettings: c.EnvironmentSettings,
			MemberCount:         c.MemberCount,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

func (h *handler) EventMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.deps.Matches.EventMatches(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]eventMatchView, 0, len(matches))
	for _, m := range matches {
		e := m.Event
		views = append(views, eventMatchView{
			EventID:            e.ID,
			EventName:          e.Name,
			Description:        e.Description,
			EventType:          e.EventType,
			Date:               e.Date,
			Location:           e.Location,
			Image:              e.Image,
			CompatibilityScore: m.Score,
			WhyItMatches:       m.Why,
			PossibleFriction:   m.Friction,
			ValueProfile:       e.ValueProfile,
			AttendeeCount:      e.AttendeeCount,
			Tags:               e.Tags,
		})
	}
	respondJSON(w, http.StatusOK, views)
}
