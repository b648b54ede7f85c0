package api

import (
	"net/http"
)

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyAdminPassword checks the maintenance password without any side
// effects; the UI uses it to unlock the admin surface.
func (h *Handler) VerifyAdminPassword(w http.ResponseWriter, r *http.Request) {
	var req verifyPasswordRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	if err := h.admin.VerifyAdminPassword(req.Password); err != nil {
		h.respondError(w, http.StatusUnauthorized, "Incorrect password")
		return
	}
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

// RequireAdminPassword gates the destructive flush endpoints behind the
// X-Admin-Password header, on top of normal authentication.
func (h *Handler) RequireAdminPassword(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.admin.VerifyAdminPassword(r.Header.Get("X-Admin-Password")); err != nil {
			h.respondError(w, http.StatusUnauthorized, "Incorrect password")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FlushRecipes deletes all of the caller's recipes along with the meal plans
// that reference them.
func (h *Handler) FlushRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	if err := h.store.MealPlans.DeleteRecipeRefsByUser(ctx, userID); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if err := h.store.Recipes.DeleteAllByUser(ctx, userID); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	h.log.Info("recipes flushed", "user_id", userID)
	h.notify(ctx, "recipes", "flushed", userID)
	h.notify(ctx, "meal_plans", "flushed", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

// FlushMealPlans deletes all of the caller's meal plans. Recipes are left
// untouched.
func (h *Handler) FlushMealPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.store.MealPlans.DeleteAllByUser(r.Context(), userID); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	h.log.Info("meal plans flushed", "user_id", userID)
	h.notify(r.Context(), "meal_plans", "flushed", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}

// FlushAll deletes every collection the caller owns.
func (h *Handler) FlushAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	steps := []struct {
		entity string
		fn     func() error
	}{
		{"meal_plans", func() error { return h.store.MealPlans.DeleteAllByUser(ctx, userID) }},
		{"recipes", func() error { return h.store.Recipes.DeleteAllByUser(ctx, userID) }},
		{"events", func() error { return h.store.Events.DeleteAllByUser(ctx, userID) }},
		{"grocery_lists", func() error { return h.store.GroceryLists.DeleteAllByUser(ctx, userID) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			h.writeError(w, r, err, "")
			return
		}
		h.notify(ctx, step.entity, "flushed", userID)
	}

	h.log.Info("all user data flushed", "user_id", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}
