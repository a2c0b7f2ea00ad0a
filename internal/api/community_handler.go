package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
)

type createdResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (h *handler) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	var in services.CreateCommunityInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	community, err := h.deps.Communities.CreateCommunity(r.Context(), UserIDFrom(r.Context()), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: community.ID, Message: "Community created successfully"})
}

func (h *handler) ListCommunities(w http.ResponseWriter, r *http.Request) {
	communities, err := h.deps.Communities.ListCommunities(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNilCommunities(communities))
}

func (h *handler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	community, err := h.deps.Communities.GetCommunity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, community)
}

func (h *handler) MyCommunities(w http.ResponseWriter, r *http.Request) {
	communities, err := h.deps.Communities.MyCommunities(r.Context(), UserIDFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNilCommunities(communities))
}

func (h *handler) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	added, err := h.deps.Communities.Join(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !added {
		respondMessage(w, "Already a member")
		return
	}
	respondMessage(w, "Joined successfully")
}

func (h *handler) LeaveCommunity(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Communities.Leave(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Left successfully")
}

func (h *handler) SkipCommunity(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Communities.Skip(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Skipped")
}

func nonNilCommunities(c []models.Community) []models.Community {
	if c == nil {
		return []models.Community{}
	}
	return c
}
