package api

import (
	"net/http"
	"strings"
)

type createEventRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	events, err := h.store.Events.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "Event not found")
		return
	}
	h.respond(w, http.StatusOK, events)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createEventRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "Event name is required")
		return
	}

	event, err := h.store.Events.Create(r.Context(), userID, name)
	if err != nil {
		h.writeError(w, r, err, "Event not found")
		return
	}

	h.notify(r.Context(), "events", "created", userID)
	h.respond(w, http.StatusCreated, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Events.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "Event not found")
		return
	}

	h.notify(r.Context(), "events", "deleted", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}
