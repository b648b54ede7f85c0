package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/planner"
	"github.com/forkcast/forkcast/internal/store"
)

type createMealPlanRequest struct {
	WeekStartDate string     `json:"week_start_date" validate:"required"`
	DayIndex      *int       `json:"day_index" validate:"required"`
	MealType      string     `json:"meal_type" validate:"required"`
	RecipeID      *uuid.UUID `json:"recipe_id"`
	EventID       *uuid.UUID `json:"event_id"`
}

// updateMealPlanRequest carries only the color tag; null (or absence) clears
// it.
type updateMealPlanRequest struct {
	Color *string `json:"color"`
}

func (h *Handler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var (
		plans []store.MealPlan
		err   error
	)
	if week := r.URL.Query().Get("week_start"); week != "" {
		if _, perr := planner.ParseISODate(week); perr != nil {
			h.respondError(w, http.StatusBadRequest, perr.Error())
			return
		}
		plans, err = h.store.MealPlans.ListByUserWeek(r.Context(), userID, week)
	} else {
		plans, err = h.store.MealPlans.ListByUser(r.Context(), userID)
	}
	if err != nil {
		h.writeError(w, r, err, "Meal plan not found")
		return
	}
	h.respond(w, http.StatusOK, plans)
}

func (h *Handler) CreateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req createMealPlanRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	if _, err := planner.ParseISODate(req.WeekStartDate); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !planner.ValidDayIndex(*req.DayIndex) {
		h.respondError(w, http.StatusBadRequest, "day_index must be between 0 and 6")
		return
	}
	mealType := store.MealType(req.MealType)
	if !mealType.Valid() {
		h.respondError(w, http.StatusBadRequest, "meal_type must be breakfast, lunch, or dinner")
		return
	}

	ref, err := store.NewSlotRef(req.RecipeID, req.EventID)
	if err != nil {
		h.writeError(w, r, err, "")
		return
	}

	plan, err := h.store.MealPlans.Create(r.Context(), store.NewMealPlan{
		UserID:        userID,
		WeekStartDate: req.WeekStartDate,
		DayIndex:      *req.DayIndex,
		MealType:      mealType,
		Ref:           ref,
	})
	if err != nil {
		h.writeError(w, r, err, "Meal plan not found")
		return
	}

	h.notify(r.Context(), "meal_plans", "created", userID)
	h.respond(w, http.StatusCreated, plan)
}

func (h *Handler) UpdateMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req updateMealPlanRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err, "")
		return
	}

	plan, err := h.store.MealPlans.UpdateColor(r.Context(), userID, id, req.Color)
	if err != nil {
		h.writeError(w, r, err, "Meal plan not found")
		return
	}

	h.notify(r.Context(), "meal_plans", "updated", userID)
	h.respond(w, http.StatusOK, plan)
}

func (h *Handler) DeleteMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.store.MealPlans.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, r, err, "Meal plan not found")
		return
	}

	h.notify(r.Context(), "meal_plans", "deleted", userID)
	h.respond(w, http.StatusOK, map[string]bool{"success": true})
}
