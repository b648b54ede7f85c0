package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/forkcast/forkcast/internal/store"
)

func TestCreateRecipeAppliesDefaults(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/recipes", map[string]any{
		"title":       "Pad Thai",
		"description": "## Ingredients\n- noodles",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	recipe := decodeBody[store.Recipe](t, rec)
	if recipe.Servings != 4 {
		t.Errorf("expected default servings 4, got %d", recipe.Servings)
	}
	if recipe.Links == nil || recipe.Tags == nil {
		t.Error("expected links and tags to default to empty slices")
	}
	if recipe.UserID != testUser {
		t.Errorf("expected owner %q, got %q", testUser, recipe.UserID)
	}
}

func TestCreateThenGetRecipeRoundTrip(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/recipes", map[string]any{
		"title":       "Pho",
		"description": "## Broth\n- bones",
		"links":       []string{"https://a"},
		"tags":        []string{"x", "y"},
		"servings":    4,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[store.Recipe](t, rec)

	rec = env.do(t, http.MethodGet, "/api/recipes/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[store.Recipe](t, rec)

	if got.Title != "Pho" || got.Description != "## Broth\n- bones" || got.Servings != 4 {
		t.Fatalf("fields changed across the round trip: %+v", got)
	}
	if len(got.Links) != 1 || got.Links[0] != "https://a" {
		t.Fatalf("links changed across the round trip: %v", got.Links)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "x" || got.Tags[1] != "y" {
		t.Fatalf("tags changed across the round trip: %v", got.Tags)
	}
}

func TestUpdateRecipeIdempotent(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recipes.rows[id] = store.Recipe{
		ID: id, UserID: testUser, Title: "Old", Description: "keep me",
		Links: []string{}, Tags: []string{"quick"}, Servings: 4,
	}

	payload := map[string]any{"title": "New title", "servings": 6}

	rec := env.do(t, http.MethodPatch, "/api/recipes/"+id.String(), payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	first := env.recipes.rows[id]

	rec = env.do(t, http.MethodPatch, "/api/recipes/"+id.String(), payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d: %s", rec.Code, rec.Body.String())
	}
	second := env.recipes.rows[id]

	if second.Title != first.Title || second.Description != first.Description ||
		second.Servings != first.Servings || len(second.Tags) != len(first.Tags) ||
		len(second.Links) != len(first.Links) {
		t.Fatalf("replayed patch changed the row: first %+v, second %+v", first, second)
	}
	replayed := decodeBody[store.Recipe](t, rec)
	if replayed.Title != "New title" || replayed.Servings != 6 || replayed.Description != "keep me" {
		t.Fatalf("unexpected state after replay: %+v", replayed)
	}
}

func TestCreateRecipeRequiresTitleAndDescription(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/recipes", map[string]any{"title": "No description"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] == "" {
		t.Fatal("expected an error envelope")
	}
}

func TestGetRecipeForeignOwnerReadsAsNotFound(t *testing.T) {
	env := newTestEnv()
	foreign := store.Recipe{ID: uuid.New(), UserID: "someone-else", Title: "Theirs", Servings: 4}
	env.recipes.rows[foreign.ID] = foreign

	rec := env.do(t, http.MethodGet, "/api/recipes/"+foreign.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign row, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] != "Recipe not found" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestUpdateRecipePartial(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recipes.rows[id] = store.Recipe{
		ID: id, UserID: testUser, Title: "Old", Description: "keep me",
		Links: []string{}, Tags: []string{"quick"}, Servings: 4,
	}

	rec := env.do(t, http.MethodPatch, "/api/recipes/"+id.String(), map[string]any{
		"title":    "New title",
		"servings": 6,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	recipe := decodeBody[store.Recipe](t, rec)
	if recipe.Title != "New title" || recipe.Servings != 6 {
		t.Fatalf("unexpected update result: %+v", recipe)
	}
	if recipe.Description != "keep me" || len(recipe.Tags) != 1 {
		t.Fatalf("untouched fields were modified: %+v", recipe)
	}
}

func TestDeleteRecipeEnvelope(t *testing.T) {
	env := newTestEnv()
	id := uuid.New()
	env.recipes.rows[id] = store.Recipe{ID: id, UserID: testUser, Title: "Gone"}

	rec := env.do(t, http.MethodDelete, "/api/recipes/"+id.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]bool](t, rec)
	if !body["success"] {
		t.Fatal("expected success envelope")
	}
	if _, ok := env.recipes.rows[id]; ok {
		t.Fatal("expected row to be deleted")
	}

	// Second delete is a 404.
	rec = env.do(t, http.MethodDelete, "/api/recipes/"+id.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on replay, got %d", rec.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	env := newTestEnv()

	// Mount without the identity-injecting middleware.
	router := chi.NewRouter()
	router.Mount("/api", env.handler.Routes(nil))
	env.server = router

	rec := env.do(t, http.MethodGet, "/api/recipes", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateEventTrimsName(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/events", map[string]any{"name": "  Eating out  "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	event := decodeBody[store.Event](t, rec)
	if event.Name != "Eating out" {
		t.Fatalf("expected trimmed name, got %q", event.Name)
	}

	rec = env.do(t, http.MethodPost, "/api/events", map[string]any{"name": "   "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", rec.Code)
	}
}

func TestSyncUserUpsert(t *testing.T) {
	env := newTestEnv()
	env.users.rows[testUser] = store.User{ID: testUser, CreatedAt: time.Now().Add(-time.Hour)}

	rec := env.do(t, http.MethodPost, "/api/sync-user", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody[struct {
		Success bool       `json:"success"`
		User    store.User `json:"user"`
	}](t, rec)
	if !body.Success || body.User.ID != testUser {
		t.Fatalf("unexpected sync response: %+v", body)
	}
	if !env.users.rows[testUser].LastConnectedAt.After(env.users.rows[testUser].CreatedAt) {
		t.Fatal("expected last_connected_at to be bumped")
	}
}
