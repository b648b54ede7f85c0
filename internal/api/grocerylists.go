package api

import (
	"net/http"

	"github.com/forkcast/forkcast/internal/planner"
	"github.com/forkcast/forkcast/internal/store"
)

type createGroceryListRequest struct {
	Name          string                  `json:"name" validate:"required"`
	Items         []store.GroceryCategory `json:"items"`
	WeekStartDate *string                 `json:"week_start_date"`
}

type updateGroceryListRequest struct {
	Name  *string                  `json:"name" validate:"omitempty,min=1"`
	Items *[]store.GroceryCategory `json:"items"`
}

func (h *Handler) ListGroceryLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	lists, err := h.store.GroceryLists.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err, "Grocery list not found")
		return
	}
	h.respond(w, http.StatusOK, lists)
}

func (h *Handler) CreateGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createGroceryListRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}
	if req.Name == "" {
		h.respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.WeekStartDate != nil {
		if _, err := planner.ParseISODate(*req.WeekStartDate); err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	list, err := h.store.GroceryLists.Create(r.Context(), store.NewGroceryList{
		UserID:        userID,
		Name:          req.Name,
		Items:         req.Items,
		WeekStartDate: req.WeekStartDate,
	})
	if err != nil {
		h.writeError(w, r, err, "Grocery list not found")
		return
	}

	h.notify(r.Context(), "grocery_lists", "created", userID)
	h.respond(w, http.StatusCreated, list)
}

func (h *Handler) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	list, err := h.store.GroceryLists.GetByID(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, r, err, "Grocery list not found")
		return
	}
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) UpdateGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateGroceryListRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	list, err := h.store.GroceryLists.Update(r.Context(), userID, id, store.GroceryListUpdate{
		Name:  req.Name,
		Items: req.Items,
	})
	if err != nil {
		h.writeError(w, r, err, "Grocery list not found")
		return
	}

	h.notify(r.Context(), "grocery_lists", "updated", userID)
	h.respond(w, http.StatusOK, list)
}

func (h *Handler) DeleteGroceryList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.GroceryLists.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "Grocery list not found")
		return
	}

	h.notify(r.Context(), "grocery_lists", "deleted", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}
