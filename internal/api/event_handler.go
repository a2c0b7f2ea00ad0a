package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mroshb/value_matcher/internal/models"
	"github.com/mroshb/value_matcher/internal/services"
)

func (h *handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in services.CreateEventInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	event, err := h.deps.Events.CreateEvent(r.Context(), UserIDFrom(r.Context()), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, createdResponse{ID: event.ID, Message: "Event created successfully"})
}

func (h *handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Events.ListEvents(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (h *handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.deps.Events.GetEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, event)
}

func (h *handler) AttendEvent(w http.ResponseWriter, r *http.Request) {
	added, err := h.deps.Events.Attend(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !added {
		respondMessage(w, "Already attending")
		return
	}
	respondMessage(w, "Attending event")
}

func (h *handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.Events.Cancel(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Attendance cancelled")
}

func (h *handler) SkipEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Events.Skip(r.Context(), UserIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, "Skipped")
}
