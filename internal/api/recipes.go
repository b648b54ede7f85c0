package api

import (
	"net/http"

	"github.com/forkcast/forkcast/internal/store"
)

type createRecipeRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Links       []string `json:"links"`
	Tags        []string `json:"tags"`
	Servings    int      `json:"servings" validate:"omitempty,gt=0"`
}

type updateRecipeRequest struct {
	Title       *string   `json:"title" validate:"omitempty,min=1"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Links       *[]string `json:"links"`
	Tags        *[]string `json:"tags"`
	Servings    *int      `json:"servings" validate:"omitempty,gt=0"`
}

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	recipes, err := h.store.Recipes.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "Recipe not found")
		return
	}
	h.respond(w, http.StatusOK, recipes)
}

func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createRecipeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if req.Title == "" || req.Description == "" {
		h.respondError(w, http.StatusBadRequest, "Title and description are required")
		return
	}

	recipe, err := h.store.Recipes.Create(r.Context(), store.NewRecipe{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Links:       req.Links,
		Tags:        req.Tags,
		Servings:    req.Servings,
	})
	if err != nil {
		h.writeError(w, r, err, "Recipe not found")
		return
	}

	h.notify(r.Context(), "recipes", "created", userID)
	h.respond(w, http.StatusCreated, recipe)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	recipe, err := h.store.Recipes.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, err, "Recipe not found")
		return
	}
	h.respond(w, http.StatusOK, recipe)
}

func (h *Handler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateRecipeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	recipe, err := h.store.Recipes.Update(r.Context(), userID, id, store.RecipeUpdate{
		Title:       req.Title,
		Description: req.Description,
		Links:       req.Links,
		Tags:        req.Tags,
		Servings:    req.Servings,
	})
	if err != nil {
		h.writeError(w, r, err, "Recipe not found")
		return
	}

	h.notify(r.Context(), "recipes", "updated", userID)
	h.respond(w, http.StatusOK, recipe)
}

func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.Recipes.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "Recipe not found")
		return
	}

	h.notify(r.Context(), "recipes", "deleted", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}
