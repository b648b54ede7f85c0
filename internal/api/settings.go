package api

import (
	"net/http"

	"github.com/forkcast/forkcast/internal/store"
)

type updateSettingsRequest struct {
	BreakfastEnabled *bool `json:"breakfast_enabled"`
}

// GetSettings auto-creates the row with defaults on first read.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	settings, err := h.store.Settings.GetOrCreate(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "Settings not found")
		return
	}
	h.respond(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req updateSettingsRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	settings, err := h.store.Settings.Update(r.Context(), userID, store.SettingsUpdate{
		BreakfastEnabled: req.BreakfastEnabled,
	})
	if err != nil {
		h.writeError(w, r, err, "Settings not found")
		return
	}

	h.notify(r.Context(), "settings", "updated", userID)
	h.respond(w, http.StatusOK, settings)
}
