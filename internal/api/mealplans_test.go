package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/store"
)

func TestCreateMealPlanRejectsZeroOrTwoOccupants(t *testing.T) {
	env := newTestEnv()
	recipeID := uuid.New()
	eventID := uuid.New()

	base := map[string]any{
		"week_start_date": "2025-06-02",
		"day_index":       0,
		"meal_type":       "dinner",
	}

	rec := env.do(t, http.MethodPost, "/api/meal-plans", base)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for no occupant, got %d: %s", rec.Code, rec.Body.String())
	}

	both := map[string]any{}
	for k, v := range base {
		both[k] = v
	}
	both["recipe_id"] = recipeID.String()
	both["event_id"] = eventID.String()
	rec = env.do(t, http.MethodPost, "/api/meal-plans", both)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for both occupants, got %d", rec.Code)
	}
	if len(env.plans.rows) != 0 {
		t.Fatal("expected no rows to be created")
	}
}

func TestCreateMealPlanValidatesGridPosition(t *testing.T) {
	env := newTestEnv()
	recipeID := uuid.New()

	cases := []map[string]any{
		{"week_start_date": "06/02/2025", "day_index": 0, "meal_type": "dinner", "recipe_id": recipeID.String()},
		{"week_start_date": "2025-06-02", "day_index": 7, "meal_type": "dinner", "recipe_id": recipeID.String()},
		{"week_start_date": "2025-06-02", "day_index": 0, "meal_type": "brunch", "recipe_id": recipeID.String()},
	}
	for i, body := range cases {
		if rec := env.do(t, http.MethodPost, "/api/meal-plans", body); rec.Code != http.StatusBadRequest {
			t.Errorf("case %d: expected 400, got %d", i, rec.Code)
		}
	}
}

func TestMealSlotAcceptsMultipleOccupants(t *testing.T) {
	env := newTestEnv()

	for i := 0; i < 2; i++ {
		body := map[string]any{
			"week_start_date": "2025-06-02",
			"day_index":       3,
			"meal_type":       "dinner",
			"recipe_id":       uuid.New().String(),
		}
		if rec := env.do(t, http.MethodPost, "/api/meal-plans", body); rec.Code != http.StatusCreated {
			t.Fatalf("occupant %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodGet, "/api/meal-plans?week_start=2025-06-02", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	plans := decodeBody[[]store.MealPlan](t, rec)
	if len(plans) != 2 {
		t.Fatalf("expected both occupants in the slot, got %d", len(plans))
	}
}

func TestMealPlanDanglingRecipeRefSurvivesListing(t *testing.T) {
	env := newTestEnv()
	recipeID := uuid.New()
	env.recipes.rows[recipeID] = store.Recipe{ID: recipeID, UserID: testUser, Title: "Doomed"}

	body := map[string]any{
		"week_start_date": "2025-06-02",
		"day_index":       1,
		"meal_type":       "lunch",
		"recipe_id":       recipeID.String(),
	}
	if rec := env.do(t, http.MethodPost, "/api/meal-plans", body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/api/recipes/"+recipeID.String(), nil); rec.Code != http.StatusOK {
		t.Fatalf("expected recipe delete to succeed, got %d", rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/meal-plans", nil)
	plans := decodeBody[[]store.MealPlan](t, rec)
	if len(plans) != 1 {
		t.Fatalf("expected dangling plan to remain, got %d rows", len(plans))
	}
	if plans[0].RecipeID == nil || *plans[0].RecipeID != recipeID {
		t.Fatal("expected the stale recipe reference to be preserved")
	}
}

func TestUpdateMealPlanColorClear(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	color := "#ff0000"
	recipeID := uuid.New()
	env.plans.rows[id] = store.MealPlan{
		ID: id, UserID: testUser, WeekStartDate: "2025-06-02",
		DayIndex: 0, MealType: store.MealDinner, Color: &color, RecipeID: &recipeID,
	}

	rec := env.do(t, http.MethodPatch, "/api/meal-plans/"+id.String(), map[string]any{"color": "#00ff00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	plan := decodeBody[store.MealPlan](t, rec)
	if plan.Color == nil || *plan.Color != "#00ff00" {
		t.Fatalf("expected color to update, got %v", plan.Color)
	}

	rec = env.do(t, http.MethodPatch, "/api/meal-plans/"+id.String(), map[string]any{"color": nil})
	plan = decodeBody[store.MealPlan](t, rec)
	if plan.Color != nil {
		t.Fatalf("expected null color to clear, got %v", *plan.Color)
	}
}

func TestSettingsAutoVivifyAndToggle(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/api/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	settings := decodeBody[store.Settings](t, rec)
	if settings.BreakfastEnabled {
		t.Fatal("expected breakfast disabled by default")
	}

	rec = env.do(t, http.MethodPatch, "/api/settings", map[string]any{"breakfast_enabled": true})
	settings = decodeBody[store.Settings](t, rec)
	if !settings.BreakfastEnabled {
		t.Fatal("expected breakfast to be enabled")
	}

	// A second read returns the persisted row, not a fresh default.
	rec = env.do(t, http.MethodGet, "/api/settings", nil)
	settings = decodeBody[store.Settings](t, rec)
	if !settings.BreakfastEnabled {
		t.Fatal("expected toggle to persist")
	}
}
