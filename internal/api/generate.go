package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/planner"
)

type generateGroceryListRequest struct {
	Recipes []struct {
		ID       uuid.UUID `json:"id" validate:"required"`
		Servings int       `json:"servings" validate:"omitempty,gt=0"`
	} `json:"recipes"`
	WeekStartDate *string `json:"week_start_date"`
}

type generateRecipeRequest struct {
	Prompt   string `json:"prompt"`
	Servings int    `json:"servings"`
}

// GenerateGroceryList consolidates the selected recipes into a categorized
// list and persists it before responding.
func (h *Handler) GenerateGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req generateGroceryListRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	selections := make([]planner.RecipeSelection, 0, len(req.Recipes))
	for _, in := range req.Recipes {
		selections = append(selections, planner.RecipeSelection{ID: in.ID, Servings: in.Servings})
	}

	list, err := h.planner.BuildGroceryList(r.Context(), userID, selections, req.WeekStartDate)
	if err != nil {
		h.writeError(w, r, err, "No recipes found")
		return
	}

	h.notify(r.Context(), "grocery_lists", "created", userID)
	h.respond(w, http.StatusOK, map[string]any{
		"categories":      list.Items,
		"grocery_list_id": list.ID,
	})
}

// GenerateRecipe returns a structured recipe draft without persisting it.
func (h *Handler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req generateRecipeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	recipe, err := h.planner.GenerateRecipe(r.Context(), userID, req.Prompt, req.Servings)
	if err != nil {
		h.writeError(w, r, err, "No recipes found")
		return
	}
	h.respond(w, http.StatusOK, recipe)
}
