package api

import (
	"net/http"
)

// SyncUser upserts the authenticated subject's row, bumping
// last_connected_at for returning users.
func (h *Handler) SyncUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.store.Users.Upsert(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "User not found")
		return
	}
	h.respond(w, http.StatusOK, map[string]any{"success": true, "user": user})
}
