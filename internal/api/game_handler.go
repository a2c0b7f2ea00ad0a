package api

import (
	"net/http"
	"time"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/values"
)

type tilesResponse struct {
	Rounds      []values.Round `json:"rounds"`
	TotalRounds int            `json:"total_rounds"`
}

type submitRequest struct {
	Selections []values.Selection `json:"selections"`
}

type submitResponse struct {
	ValueProfile           models.ValueProfile           `json:"value_profile"`
	EnvironmentPreferences models.EnvironmentPreferences `json:"environment_preferences"`
	Message                string                        `json:"message"`
}

type meResponse struct {
	User          *models.User       `json:"user"`
	Selections    []values.Selection `json:"selections"`
	RecentActions []actionView       `json:"recent_actions"`
}

type actionView struct {
	Kind        string    `json:"candidate_kind"`
	CandidateID string    `json:"candidate_id"`
	Action      string    `json:"action"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *handler) GameTiles(w http.ResponseWriter, r *http.Request) {
	rounds := h.deps.Profiles.Tiles()
	respondJSON(w, http.StatusOK, tilesResponse{Rounds: rounds, TotalRounds: len(rounds)})
}

func (h *handler) SubmitGame(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.deps.Profiles.SubmitGame(r.Context(), UserIDFrom(r.Context()), req.Selections)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, submitResponse{
		ValueProfile:           result.Profile,
		EnvironmentPreferences: result.Preferences,
		Message:                "Profile created successfully",
	})
}

func (h *handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFrom(r.Context())
	user, err := h.deps.Profiles.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	selections, err := h.deps.Profiles.Selections(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	actions, err := h.deps.Profiles.RecentActions(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views := make([]actionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, actionView{
			Kind:        a.CandidateKind,
			CandidateID: a.CandidateID,
			Action:      a.Action,
			CreatedAt:   a.CreatedAt.UTC(),
		})
	}
	respondJSON(w, http.StatusOK, meResponse{User: user, Selections: selections, RecentActions: views})
}
